package outdated

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/version"
)

type countingFetcher struct {
	calls   atomic.Int32
	refresh atomic.Bool
	delay   time.Duration
	err     error
}

func (f *countingFetcher) FetchPackument(ctx context.Context, name string, refresh bool) (*version.Packument, error) {
	f.calls.Add(1)
	f.refresh.Store(refresh)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return version.NewPackument(name, map[string]string{"latest": "1.0.0"}, []version.Record{{Version: "1.0.0"}}), nil
}

func TestNpmRegistryMemoizes(t *testing.T) {
	f := &countingFetcher{}
	reg := NewNpmRegistry(f, true)

	for i := 0; i < 3; i++ {
		p, err := reg.Packument(context.Background(), "lodash")
		if err != nil {
			t.Fatalf("Packument: %v", err)
		}
		if p.Name != "lodash" {
			t.Errorf("Name = %q", p.Name)
		}
	}
	if f.calls.Load() != 1 {
		t.Errorf("fetches = %d, want 1", f.calls.Load())
	}
	if !f.refresh.Load() {
		t.Error("refresh flag not passed through")
	}
}

func TestNpmRegistryCollapsesConcurrentFetches(t *testing.T) {
	f := &countingFetcher{delay: 20 * time.Millisecond}
	reg := NewNpmRegistry(f, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Packument(context.Background(), "react"); err != nil {
				t.Errorf("Packument: %v", err)
			}
		}()
	}
	wg.Wait()

	if f.calls.Load() != 1 {
		t.Errorf("fetches = %d, want 1", f.calls.Load())
	}
}

func TestNpmRegistryMemoizesTolerableErrors(t *testing.T) {
	f := &countingFetcher{err: errors.New(errors.ErrCodePackageNotFound, "gone")}
	reg := NewNpmRegistry(f, false)

	for i := 0; i < 2; i++ {
		if _, err := reg.Packument(context.Background(), "ghost"); !errors.IsTolerable(err) {
			t.Fatalf("error = %v, want tolerable", err)
		}
	}
	if f.calls.Load() != 1 {
		t.Errorf("fetches = %d, want 1", f.calls.Load())
	}
}

func TestNpmRegistryRetriesFatalErrors(t *testing.T) {
	f := &countingFetcher{err: errors.New(errors.ErrCodeNetwork, "down")}
	reg := NewNpmRegistry(f, false)

	for i := 0; i < 2; i++ {
		if _, err := reg.Packument(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
	}
	if f.calls.Load() != 2 {
		t.Errorf("fetches = %d, want 2", f.calls.Load())
	}
}
