package outdated

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/version"
)

const memoSize = 1024

// PackumentFetcher is the registry client the adapter wraps.
type PackumentFetcher interface {
	FetchPackument(ctx context.Context, name string, refresh bool) (*version.Packument, error)
}

type memoEntry struct {
	p   *version.Packument
	err error
}

// NpmRegistry adapts a registry client to [Registry]. Packuments and
// tolerable failures are memoized for the lifetime of the adapter, and
// concurrent requests for the same name share one fetch.
type NpmRegistry struct {
	client  PackumentFetcher
	refresh bool
	memo    *lru.Cache[string, memoEntry]
	group   singleflight.Group
}

// NewNpmRegistry wraps client. If refresh is true every first fetch of a name
// bypasses the response cache.
func NewNpmRegistry(client PackumentFetcher, refresh bool) *NpmRegistry {
	memo, _ := lru.New[string, memoEntry](memoSize)
	return &NpmRegistry{client: client, refresh: refresh, memo: memo}
}

// Packument implements Registry.
func (r *NpmRegistry) Packument(ctx context.Context, name string) (*version.Packument, error) {
	if e, ok := r.memo.Get(name); ok {
		return e.p, e.err
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		p, err := r.client.FetchPackument(ctx, name, r.refresh)
		if err != nil {
			if errors.IsTolerable(err) {
				r.memo.Add(name, memoEntry{err: err})
			}
			return nil, err
		}
		r.memo.Add(name, memoEntry{p: p})
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*version.Packument), nil
}
