package main

import (
	"github.com/charmbracelet/glamour/v2"
)

const helpMarkdown = `# settle-search

Keystrokes feed a **Stabilizer**. Nothing resolves while you are still
typing: every change restarts the quiet-period timer, and the dictionary
resolver runs only once the input has been stable for the whole quiet
period.

## What to watch

- The status line shows the attempt counters. ` + "`attempts`" + ` is the
  highest sequence number handed to the resolver; ` + "`applied`" + ` is the
  attempt behind the current result list.
- With a long ` + "`-latency`" + ` and fast typing, attempts overlap. Only
  the newest attempt's matches are applied; older results are discarded
  when they eventually arrive, never shown.
- With ` + "`-single-flight`" + `, starting a new attempt cancels the
  previous one instead of letting it run to completion.

## Keys

| Key | Action |
| --- | --- |
| Tab | Toggle this help |
| Esc | Exit |

## Event capture

Run with ` + "`-log search.sevt`" + ` and inspect the timing afterwards:

    settle-log view -category attempt search.sevt
    settle-log stats search.sevt
`

// renderHelp renders the help overlay at the given width. Markdown
// rendering failures fall back to the raw text.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
