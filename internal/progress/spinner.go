package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an animated status line on interactive terminals. On
// anything else it stays silent while running and only prints the final
// status line, so piped output carries no control characters.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner creates a spinner writing to w. Animation is enabled only when
// caps reports a TTY and plain is false.
func NewSpinner(w io.Writer, caps TerminalCapabilities, plain bool) *Spinner {
	if plain {
		caps.IsTTY = false
		caps.SupportsUnicode = false
	}
	sp := &Spinner{w: w, caps: caps, symbols: SelectSymbols(caps)}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(w))
	}
	return sp
}

// Start begins animating with the given message.
func (sp *Spinner) Start(message string) {
	if sp.s == nil {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Succeed stops the spinner and prints a success line.
func (sp *Spinner) Succeed(message string) {
	sp.finish(sp.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (sp *Spinner) Fail(message string) {
	sp.finish(sp.symbols.Failure, message)
}

// Stop halts the animation without printing anything.
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}

func (sp *Spinner) finish(symbol, message string) {
	sp.Stop()
	if message == "" {
		return
	}
	fmt.Fprintf(sp.w, "%s %s\n", symbol, message)
}
