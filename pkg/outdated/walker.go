package outdated

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/installed"
	"github.com/matzehuels/outdated/pkg/observability"
	"github.com/matzehuels/outdated/pkg/version"
)

// Registry fetches packuments. Implementations must be safe for concurrent use.
type Registry interface {
	Packument(ctx context.Context, name string) (*version.Packument, error)
}

// Walker evaluates an installed tree against a registry.
type Walker struct {
	reg  Registry
	opts Options
}

// NewWalker creates a walker. Options are defaulted.
func NewWalker(reg Registry, opts Options) *Walker {
	return &Walker{reg: reg, opts: opts.WithDefaults()}
}

// Walk evaluates root and returns deduplicated findings in evaluation order.
// The location trail starts at root's label.
func (w *Walker) Walk(ctx context.Context, root *installed.Node) ([]Finding, error) {
	names := w.opts.Names
	if len(names) == 0 {
		names = root.DeclaredNames()
	}
	label := root.Label()

	hooks := observability.Walk()
	hooks.OnWalkStart(ctx, label, w.opts.Depth)
	start := time.Now()

	sem := semaphore.NewWeighted(int64(w.opts.Concurrency))
	findings, err := w.walk(ctx, sem, root, names, w.opts.Depth, label)

	hooks.OnWalkComplete(ctx, label, len(findings), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return findings, nil
}

// evaluation is the outcome for one name at one level.
type evaluation struct {
	finding *Finding
	subtree []Finding
}

// walk evaluates names under node in parallel. sem is shared by the whole
// walk and bounds registry lookups in flight, whatever the depth.
func (w *Walker) walk(ctx context.Context, sem *semaphore.Weighted, node *installed.Node, names []string, depth int, location string) ([]Finding, error) {
	results := make([]evaluation, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			ev, err := w.evaluate(gctx, sem, node, name, depth, location)
			if err != nil {
				return err
			}
			results[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	level := make([]Finding, 0, len(results))
	subtrees := make([][]Finding, 0, len(results))
	for _, ev := range results {
		if ev.finding != nil {
			level = append(level, *ev.finding)
		}
		if len(ev.subtree) > 0 {
			subtrees = append(subtrees, ev.subtree)
		}
	}
	return Merge(level, subtrees...), nil
}

func (w *Walker) evaluate(ctx context.Context, sem *semaphore.Weighted, node *installed.Node, name string, depth int, location string) (evaluation, error) {
	if err := ctx.Err(); err != nil {
		return evaluation{}, err
	}

	ref := DependencyRef{Name: name, Classification: node.Classify(name)}
	ctx, span := observability.StartDependencySpan(ctx, name, string(ref.Classification), depth)
	defer span.End()

	child, isInstalled := node.Child(name)
	if isInstalled {
		ref.Constraint = child.Declared(ref.Classification)[name]
	}

	p, err := w.fetch(ctx, sem, name)
	if err != nil {
		return w.tolerate(ctx, name, err, span)
	}
	wanted, err := version.Pick(p, ref.Constraint)
	if err != nil {
		return w.tolerate(ctx, name, err, span)
	}
	latest, err := version.Pick(p, version.TagLatest)
	if err != nil {
		return w.tolerate(ctx, name, err, span)
	}

	var ev evaluation
	if !isInstalled {
		child = nil
	}
	if f, ok := newFinding(ref, child, wanted, latest, location); ok {
		ev.finding = &f
	}

	if depth > 0 && isInstalled && ref.Classification == Production {
		sub, err := w.walk(ctx, sem, child, child.Names(Production), depth-1, location+" > "+name)
		if err != nil {
			return evaluation{}, err
		}
		ev.subtree = sub
	}
	return ev, nil
}

// fetch holds one slot of sem for the duration of the lookup only, so a
// package never holds a slot while its subtree is walked.
func (w *Walker) fetch(ctx context.Context, sem *semaphore.Weighted, name string) (*version.Packument, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer sem.Release(1)
	return w.reg.Packument(ctx, name)
}

// tolerate swallows tolerable registry and resolution errors for name and
// passes every other error through.
func (w *Walker) tolerate(ctx context.Context, name string, err error, span trace.Span) (evaluation, error) {
	if !errors.IsTolerable(err) {
		observability.RecordError(span, err)
		return evaluation{}, err
	}
	w.opts.Logger("skipping %s: %s", name, errors.UserMessage(err))
	observability.Walk().OnTolerated(ctx, name, err)
	return evaluation{}, nil
}
