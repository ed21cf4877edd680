package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

// Style definitions for the UI.
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	matchStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	highlightStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	scoreStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	failureStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
)

// outputMsg carries an applied attempt from the stabilizer goroutines
// into the bubbletea loop.
type outputMsg struct {
	seq     uint64
	query   string
	matches []examples.Match
}

// failureMsg carries a surfaced resolution failure.
type failureMsg struct {
	seq   uint64
	query string
	err   error
}

// model is the bubbletea model for settle-search.
type model struct {
	stabilizer *settle.Stabilizer[string, []examples.Match]
	observer   *settle.ObserverFuncs[string, []examples.Match]
	events     chan tea.Msg

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	lastQuery string
	matches   []examples.Match
	matchSeq  uint64
	lastErr   error

	helpView string
	showHelp bool

	width  int
	height int
}

var searchDots = spinner.Spinner{
	Frames: []string{
		"⠋ resolving",
		"⠙ resolving.",
		"⠹ resolving..",
		"⠸ resolving...",
		"⠼ resolving...",
		"⠴ resolving..",
		"⠦ resolving.",
		"⠧ resolving",
	},
	FPS: time.Second / 10,
}

// newModel builds the search model: stabilizer, observer bridge, and UI
// components.
func newModel(cfg settle.Config, latency time.Duration) (*model, error) {
	resolver := examples.Dictionary(examples.DefaultWords, latency)
	st, err := settle.NewStabilizerWithConfig(resolver, cfg)
	if err != nil {
		return nil, err
	}

	ta := textarea.New()
	ta.Placeholder = "Type to search..."
	ta.Focus()
	ta.Prompt = ""
	ta.CharLimit = 64
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New()

	s := spinner.New()
	s.Spinner = searchDots
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &model{
		stabilizer: st,
		events:     make(chan tea.Msg, 64),
		input:      ta,
		viewport:   vp,
		spinner:    s,
	}

	// Observer callbacks run on resolver goroutines; the channel hands
	// them to the bubbletea loop.
	m.observer = &settle.ObserverFuncs[string, []examples.Match]{
		Applied: func(seq uint64, query string, matches []examples.Match) {
			m.events <- outputMsg{seq: seq, query: query, matches: matches}
		},
		Failed: func(seq uint64, query string, err error) {
			m.events <- failureMsg{seq: seq, query: query, err: err}
		},
	}
	st.Subscribe(m.observer)

	return m, nil
}

// close tears the observation down.
func (m *model) close() {
	m.stabilizer.Close()
}

// listenForEvents waits for the next stabilizer notification.
func (m *model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init initializes the model.
func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.listenForEvents(),
	)
}

// Update handles messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd      tea.Cmd
		vpCmd      tea.Cmd
		spinnerCmd tea.Cmd
	)

	m.input, taCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spinnerCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.showHelp = !m.showHelp
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case outputMsg:
		// The stabilizer already discards superseded results; seq is
		// kept for the status line.
		m.matches = msg.matches
		m.matchSeq = msg.seq
		m.lastQuery = msg.query
		m.lastErr = nil
		m.viewport.SetContent(m.renderMatches())
		m.viewport.GotoTop()
		return m, tea.Batch(taCmd, vpCmd, spinnerCmd, m.listenForEvents())

	case failureMsg:
		m.lastErr = msg.err
		return m, tea.Batch(taCmd, vpCmd, spinnerCmd, m.listenForEvents())
	}

	// Every keystroke that changes the query restarts the quiet period.
	// Equal values are ignored by the stabilizer itself.
	if query := m.input.Value(); query != m.lastTyped() {
		m.stabilizer.Set(query)
	}

	return m, tea.Batch(taCmd, vpCmd, spinnerCmd)
}

// lastTyped returns the input value the stabilizer last observed.
func (m *model) lastTyped() string {
	input, ok := m.stabilizer.Input()
	if !ok {
		return ""
	}
	return input
}

// resize recreates the viewport for the current window size.
func (m *model) resize() {
	// Title + input + status + help line
	chromeHeight := 6
	vpHeight := m.height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport = viewport.New(
		viewport.WithWidth(m.width),
		viewport.WithHeight(vpHeight),
	)
	m.viewport.SetContent(m.renderMatches())

	m.input.SetWidth(m.width - 2)
	m.input.SetHeight(1)

	m.helpView = renderHelp(m.width)
}

// renderMatches formats the current match list for the viewport.
func (m *model) renderMatches() string {
	if m.lastQuery == "" {
		return statusStyle.Render("Results appear once the input has been quiet long enough.")
	}
	if len(m.matches) == 0 {
		return statusStyle.Render(fmt.Sprintf("No matches for %q.", m.lastQuery))
	}

	var b strings.Builder
	for i, match := range m.matches {
		fmt.Fprintf(&b, "%3d. %s %s\n",
			i+1,
			highlightWord(match.Word, match.Positions),
			scoreStyle.Render(fmt.Sprintf("(%d)", match.Score)))
	}
	return b.String()
}

// highlightWord bolds the matched rune positions.
func highlightWord(word string, positions []int) string {
	if len(positions) == 0 {
		return matchStyle.Render(word)
	}

	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b strings.Builder
	for i, r := range []rune(word) {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(matchStyle.Render(string(r)))
		}
	}
	return b.String()
}

// statusLine summarizes the observation bookkeeping.
func (m *model) statusLine() string {
	snap := m.stabilizer.Snapshot()

	var parts []string
	if snap.TimerPending {
		parts = append(parts, "quiet period running")
	}
	if snap.InFlight > 0 {
		parts = append(parts, m.spinner.View())
	}
	parts = append(parts, fmt.Sprintf("attempts=%d applied=#%d", snap.HighestStarted, snap.AppliedSeq))
	if m.lastErr != nil {
		parts = append(parts, failureStyle.Render(fmt.Sprintf("resolution failed: %v", m.lastErr)))
	}

	return statusStyle.Render(strings.Join(parts, "  "))
}

// View renders the UI.
func (m *model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("Initializing...")
	}

	if m.showHelp {
		return tea.NewView(m.helpView)
	}

	title := titleStyle.Render("settle-search - debounced fuzzy search")

	prompt := matchStyle.Render("> ")
	inputView := lipgloss.JoinHorizontal(lipgloss.Left, prompt, m.input.View())

	help := helpStyle.Render("Esc: exit • Tab: help")

	return tea.NewView(lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		inputView,
		m.statusLine(),
		strings.Repeat("─", m.width),
		m.viewport.View(),
		help,
	))
}
