// Package interactive provides the command prompt for settle-lab.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/settle"
)

// Lab handles interactive mode for settle-lab.
type Lab struct {
	st     *settle.Stabilizer[string, string]
	script *examples.Scripted
	rl     *readline.Instance

	// Current default resolver latency, for status display.
	delay time.Duration

	// Watch observer, subscribed on demand.
	watcher  *settle.ObserverFuncs[string, string]
	watching bool
}

// New creates a new interactive lab handler.
func New(st *settle.Stabilizer[string, string], script *examples.Scripted, delay time.Duration) (*Lab, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "settle> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	l := &Lab{
		st:     st,
		script: script,
		rl:     rl,
		delay:  delay,
	}

	l.watcher = &settle.ObserverFuncs[string, string]{
		Applied: l.displayOutput,
		Failed:  l.displayFailure,
	}

	return l, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (l *Lab) Stdout() io.Writer {
	return l.rl.Stdout()
}

// Run starts the interactive command loop.
func (l *Lab) Run(ctx context.Context, cancel context.CancelFunc) {
	defer l.rl.Close()

	l.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := l.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(l.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			l.printHelp()

		case "set", "s":
			l.cmdSet(args)

		case "get", "g":
			l.cmdGet()

		case "status":
			l.cmdStatus()

		case "history", "h":
			l.cmdHistory()

		case "watch", "w":
			l.cmdWatch()

		case "delay":
			l.cmdDelay(args)

		case "fail":
			l.cmdFail(args)

		case "clearfail":
			l.cmdClearFail(args)

		case "close":
			l.cmdClose()

		case "quit", "exit", "q":
			fmt.Fprintln(l.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(l.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (l *Lab) printHelp() {
	fmt.Fprintln(l.rl.Stdout(), `
Stabilizer Lab Commands:
  Input:
    set <value>        - Observe a new input value (restarts the quiet period)
    get                - Show the stabilized output

  Inspection:
    status             - Show observation bookkeeping
    history            - Show the attempt history
    watch              - Toggle live display of applied outputs and failures

  Resolver Control:
    delay <duration>   - Set default resolver latency (e.g. 500ms)
    fail <value> [msg] - Make the resolver fail for a specific input
    clearfail <value>  - Remove a scripted failure

  Lifecycle:
    close              - Tear the observation down (set becomes a no-op)

  General:
    help               - Show this help
    quit               - Exit lab`)
}

// cmdSet handles the set command.
func (l *Lab) cmdSet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(l.rl.Stdout(), "Usage: set <value>")
		return
	}

	value := strings.Join(args, " ")
	if l.st.Closed() {
		fmt.Fprintln(l.rl.Stdout(), "Observation is closed; set ignored")
		return
	}
	if prev, ok := l.st.Input(); ok && prev == value {
		l.st.Set(value)
		fmt.Fprintf(l.rl.Stdout(), "Unchanged value %q ignored\n", value)
		return
	}

	l.st.Set(value)
	fmt.Fprintf(l.rl.Stdout(), "Observed %q, quiet period %s running\n", value, l.st.QuietPeriod())
}

// cmdGet handles the get command.
func (l *Lab) cmdGet() {
	value, ok := l.st.Value()
	if !ok {
		fmt.Fprintln(l.rl.Stdout(), "No result yet")
		return
	}

	if att, ok := l.st.LastApplied(); ok {
		fmt.Fprintf(l.rl.Stdout(), "%q (attempt #%d for input %q, resolved in %s)\n",
			value, att.Seq, att.Input, att.Latency().Round(time.Millisecond))
		return
	}
	fmt.Fprintf(l.rl.Stdout(), "%q\n", value)
}

// cmdStatus shows the observation bookkeeping.
func (l *Lab) cmdStatus() {
	snap := l.st.Snapshot()

	fmt.Fprintln(l.rl.Stdout(), "\nObservation Status")
	fmt.Fprintln(l.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(l.rl.Stdout(), "  Observation ID:  %s\n", snap.ObservationID)
	fmt.Fprintf(l.rl.Stdout(), "  Quiet Period:    %s\n", snap.QuietPeriod)
	fmt.Fprintf(l.rl.Stdout(), "  Policy:          %s\n", snap.Policy)
	fmt.Fprintf(l.rl.Stdout(), "  Resolver Delay:  %s\n", l.delay)

	timerStatus := "idle"
	if snap.TimerPending {
		timerStatus = "running"
	}
	fmt.Fprintf(l.rl.Stdout(), "  Quiet Timer:     %s\n", timerStatus)
	fmt.Fprintf(l.rl.Stdout(), "  In Flight:       %d\n", snap.InFlight)
	fmt.Fprintf(l.rl.Stdout(), "  Highest Started: %d\n", snap.HighestStarted)
	fmt.Fprintf(l.rl.Stdout(), "  Applied Seq:     %d\n", snap.AppliedSeq)
	fmt.Fprintf(l.rl.Stdout(), "  Resolver Calls:  %d\n", l.script.CallCount())

	if input, ok := l.st.Input(); ok {
		fmt.Fprintf(l.rl.Stdout(), "  Last Input:      %q\n", input)
	}
	if value, ok := l.st.Value(); ok {
		fmt.Fprintf(l.rl.Stdout(), "  Output:          %q\n", value)
	} else {
		fmt.Fprintf(l.rl.Stdout(), "  Output:          (none yet)\n")
	}
	if snap.Closed {
		fmt.Fprintln(l.rl.Stdout(), "  CLOSED")
	}
	fmt.Fprintln(l.rl.Stdout())
}

// cmdHistory shows the attempt history.
func (l *Lab) cmdHistory() {
	history := l.st.History()
	if len(history) == 0 {
		fmt.Fprintln(l.rl.Stdout(), "No attempts yet")
		return
	}

	fmt.Fprintf(l.rl.Stdout(), "\nAttempt History (%d):\n", len(history))
	fmt.Fprintln(l.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(l.rl.Stdout(), "  %-5s %-12s %-20s %s\n", "Seq", "State", "Input", "Detail")
	for _, att := range history {
		detail := ""
		switch att.State {
		case settle.AttemptPending:
			detail = fmt.Sprintf("running for %s", time.Since(att.StartedAt).Round(time.Millisecond))
		case settle.AttemptResolved, settle.AttemptSuperseded:
			detail = att.Latency().Round(time.Millisecond).String()
		case settle.AttemptFailed:
			if att.Err != nil {
				detail = att.Err.Error()
			}
		}
		fmt.Fprintf(l.rl.Stdout(), "  #%-4d %-12s %-20q %s\n", att.Seq, att.State, att.Input, detail)
	}
	fmt.Fprintln(l.rl.Stdout())
}

// cmdWatch toggles the live output display.
func (l *Lab) cmdWatch() {
	if l.watching {
		l.st.Unsubscribe(l.watcher)
		l.watching = false
		fmt.Fprintln(l.rl.Stdout(), "Watch off")
		return
	}
	l.st.Subscribe(l.watcher)
	l.watching = true
	fmt.Fprintln(l.rl.Stdout(), "Watch on - applied outputs and failures will be shown")
}

// cmdDelay sets the default resolver latency.
func (l *Lab) cmdDelay(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(l.rl.Stdout(), "Usage: delay <duration>  (current: %s)\n", l.delay)
		return
	}

	d, err := time.ParseDuration(args[0])
	if err != nil {
		fmt.Fprintf(l.rl.Stdout(), "Invalid duration: %v\n", err)
		return
	}
	if d < 0 {
		fmt.Fprintln(l.rl.Stdout(), "Duration must be non-negative")
		return
	}

	l.script.SetDefaultLatency(d)
	l.delay = d
	fmt.Fprintf(l.rl.Stdout(), "Resolver latency set to %s\n", d)
}

// cmdFail scripts a failure for a specific input.
func (l *Lab) cmdFail(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(l.rl.Stdout(), "Usage: fail <value> [message]")
		return
	}

	value := args[0]
	msg := "scripted failure"
	if len(args) > 1 {
		msg = strings.Join(args[1:], " ")
	}

	l.script.SetFailure(value, errors.New(msg))
	fmt.Fprintf(l.rl.Stdout(), "Resolver will fail for %q: %s\n", value, msg)
}

// cmdClearFail removes a scripted failure.
func (l *Lab) cmdClearFail(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(l.rl.Stdout(), "Usage: clearfail <value>")
		return
	}

	l.script.ClearFailure(args[0])
	fmt.Fprintf(l.rl.Stdout(), "Failure cleared for %q\n", args[0])
}

// cmdClose tears the observation down.
func (l *Lab) cmdClose() {
	if l.st.Closed() {
		fmt.Fprintln(l.rl.Stdout(), "Observation already closed")
		return
	}
	l.st.Close()
	fmt.Fprintln(l.rl.Stdout(), "Observation closed - pending timers cancelled, in-flight results will be dropped")
}

// displayOutput shows an applied output while watching.
func (l *Lab) displayOutput(seq uint64, input, result string) {
	fmt.Fprintf(l.rl.Stdout(), "\n[%s] Applied #%d: %q -> %q\n",
		time.Now().Format("15:04:05"), seq, input, result)
	l.rl.Refresh()
}

// displayFailure shows a surfaced failure while watching.
func (l *Lab) displayFailure(seq uint64, input string, err error) {
	fmt.Fprintf(l.rl.Stdout(), "\n[%s] Failed #%d: %q: %v\n",
		time.Now().Format("15:04:05"), seq, input, err)
	l.rl.Refresh()
}
