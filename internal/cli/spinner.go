package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerOut receives spinner frames. Frames go to stderr so JSON written to
// stdout stays clean.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line while a store round trip or render runs.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelCauseFunc
	stop    sync.Once
	started bool
	stopped chan struct{}
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinCtx, cancel := context.WithCancelCause(ctx)
	return &Spinner{
		message: message,
		out:     spinnerOut,
		ctx:     spinCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more than
// once and without Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel(errStopped)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil && context.Cause(s.ctx) != errStopped
}

var errStopped = stderrors.New("spinner stopped")

// withSpinner runs fn behind a spinner. A context cancelled while fn ran is
// reported even when fn itself succeeded.
func withSpinner(ctx context.Context, message string, fn func() error) error {
	s := newSpinnerWithContext(ctx, message)
	s.Start()
	err := fn()
	s.Stop()
	if err == nil && s.Cancelled() {
		return ctx.Err()
	}
	return err
}
