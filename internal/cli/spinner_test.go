package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/outdated/pkg/version"
)

type stubRegistry struct{ err error }

func (r stubRegistry) Packument(_ context.Context, name string) (*version.Packument, error) {
	if r.err != nil {
		return nil, r.err
	}
	return version.NewPackument(name, nil, nil), nil
}

func fastSpinner(ctx context.Context, w *bytes.Buffer, label string) *spinner {
	s := newSpinner(ctx, w, label)
	s.interval = time.Millisecond
	return s
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := fastSpinner(context.Background(), &buf, "my-app")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Checking my-app") {
		t.Errorf("output = %q, want the label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want the line cleared on stop", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerTrackCountsLookups(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "app")
	reg := s.track(stubRegistry{})
	failing := s.track(stubRegistry{err: errors.New("boom")})

	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		if _, err := reg.Packument(ctx, name); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := failing.Packument(ctx, "c"); err == nil {
		t.Fatal("want the wrapped error passed through")
	}
	if got := s.Checked(); got != 3 {
		t.Errorf("Checked = %d, want 3", got)
	}
}

func TestSpinnerLine(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "app")
	if line := s.line("⠋"); strings.Contains(line, "(") {
		t.Errorf("line = %q, want no count before any lookup", line)
	}
	s.checked.Add(1)
	if line := s.line("⠋"); !strings.Contains(line, "(1 package)") {
		t.Errorf("line = %q, want singular count", line)
	}
	s.checked.Add(11)
	if line := s.line("⠋"); !strings.Contains(line, "(12 packages)") {
		t.Errorf("line = %q, want plural count", line)
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := fastSpinner(ctx, &buf, "app")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report parent cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := fastSpinner(context.Background(), &buf, "app")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "app")
	s.Stop()
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing from an unstarted spinner", buf.String())
	}
}
