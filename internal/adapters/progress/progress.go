package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// SpinnerSink reports progress with a spinner on interactive terminals
// and plain lines otherwise
type SpinnerSink struct {
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	startTime   time.Time
}

// NewSpinnerSink creates a new progress reporter writing to out
func NewSpinnerSink(out io.Writer, interactive bool) *SpinnerSink {
	return &SpinnerSink{
		out:         out,
		interactive: interactive,
		startTime:   time.Now(),
	}
}

// OnProgress handles progress events
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == usecase.StageCompleted {
		s.stop()
		duration := time.Since(s.startTime)
		color.New(color.FgGreen).Fprintf(s.out, "✅ %s in %s\n", event.Message, duration.Round(time.Millisecond))
		return
	}

	if !s.interactive {
		if event.Message == "" {
			return
		}
		if event.Total > 0 {
			fmt.Fprintf(s.out, "[%d/%d] %s\n", event.Current, event.Total, event.Message)
			return
		}
		fmt.Fprintln(s.out, event.Message)
		return
	}

	if !event.Spinner {
		s.stop()
		if event.Message != "" {
			if event.Total > 0 {
				color.New(color.Bold).Fprintf(s.out, "[%d/%d] %s\n", event.Current, event.Total, event.Message)
			} else {
				fmt.Fprintln(s.out, event.Message)
			}
		}
		return
	}

	if s.spinner == nil {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Writer = s.out
		_ = s.spinner.Color("cyan", "bold")
	}
	s.spinner.Suffix = " " + event.Message
	if !s.spinner.Active() {
		s.spinner.Start()
	}
}

// Info prints an info message
func (s *SpinnerSink) Info(message string) {
	s.pause(func() {
		color.New(color.FgCyan).Fprintln(s.out, "ℹ️  "+message)
	})
}

// Error prints an error message
func (s *SpinnerSink) Error(message string) {
	s.pause(func() {
		color.New(color.FgRed).Fprintln(s.out, "❌ "+message)
	})
}

// pause stops an active spinner around print
func (s *SpinnerSink) pause(print func()) {
	wasActive := s.spinner != nil && s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	print()

	if wasActive {
		s.spinner.Start()
	}
}

func (s *SpinnerSink) stop() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
