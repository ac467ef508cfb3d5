package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/outdated/pkg/outdated"
	"github.com/matzehuels/outdated/pkg/version"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner draws a single progress line while a walk runs:
//
//	⠹ Checking my-app (12 packages)
//
// The count advances as packuments come back through [spinner.track].
type spinner struct {
	w        io.Writer
	label    string
	interval time.Duration

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool
	checked atomic.Int64

	mu    sync.Mutex
	width int
}

// newSpinner creates a spinner for the walk of label. It stops on its own
// when ctx is done.
func newSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:        w,
		label:    label,
		interval: 80 * time.Millisecond,
		parent:   ctx,
		ctx:      sctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
}

// track wraps reg so that every finished lookup advances the count.
func (s *spinner) track(reg outdated.Registry) outdated.Registry {
	return trackedRegistry{Registry: reg, s: s}
}

type trackedRegistry struct {
	outdated.Registry
	s *spinner
}

func (r trackedRegistry) Packument(ctx context.Context, name string) (*version.Packument, error) {
	p, err := r.Registry.Packument(ctx, name)
	r.s.checked.Add(1)
	return p, err
}

// Start begins drawing. Only the first call has an effect.
func (s *spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop clears the line and waits for the drawing goroutine. It is safe to
// call more than once, and on a spinner that never started.
func (s *spinner) Stop() {
	s.once.Do(s.cancel)
	if s.started.Load() {
		<-s.stopped
	}
}

// Cancelled reports whether the parent context ended the spinner.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Checked returns the number of lookups finished so far.
func (s *spinner) Checked() int64 {
	return s.checked.Load()
}

func (s *spinner) line(frame string) string {
	text := "Checking " + s.label
	if n := s.checked.Load(); n > 0 {
		text += fmt.Sprintf(" (%d %s)", n, plural(n, "package", "packages"))
	}
	return styleSpinner.Render(frame) + " " + styleMuted.Render(text)
}

func (s *spinner) draw(frame string) {
	line := s.line(frame)
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.width = max(s.width, lipgloss.Width(line))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.width = 0
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
