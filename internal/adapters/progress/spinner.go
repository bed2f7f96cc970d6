package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// SpinnerProgressReporter owns the terminal spinner and keeps printed
// messages from interleaving with its frames. A reporter created disabled
// never draws a spinner and only prints messages.
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(out io.Writer, enabled bool) *SpinnerProgressReporter {
	r := &SpinnerProgressReporter{out: out}
	if enabled {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		s.HideCursor = false
		r.spinner = s
	}
	return r
}

// Spin shows the spinner with message, starting it if needed
func (r *SpinnerProgressReporter) Spin(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner == nil {
		return
	}
	r.spinner.Lock()
	r.spinner.Suffix = " " + message
	r.spinner.Unlock()
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Stop hides the spinner
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil && r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Print runs print with the spinner paused and restarts it afterwards
func (r *SpinnerProgressReporter) Print(print func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner != nil && r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.Print(func() {
		fmt.Fprintln(r.out, color.New(color.FgCyan).Sprint(message))
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.Print(func() {
		fmt.Fprintln(r.out, color.New(color.FgRed).Sprint(message))
	})
}
