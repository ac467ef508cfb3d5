package outdated

import (
	"math"

	"github.com/matzehuels/outdated/pkg/installed"
	"github.com/matzehuels/outdated/pkg/version"
)

// Classification is the package.json section declaring a dependency.
type Classification = installed.Classification

const (
	Production   = installed.Production
	Dev          = installed.Dev
	Optional     = installed.Optional
	Unclassified = installed.Unclassified
)

const (
	// Infinite requests an unbounded depth. It is normalized to zero.
	Infinite = math.MaxInt

	DefaultConcurrency = 8
	DefaultLocale      = "en"
)

// DependencyRef is a dependency as a parent declares it.
type DependencyRef struct {
	Name           string
	Constraint     string
	Classification Classification
}

// Finding is one reportable divergence for a package. Path and Current are
// empty when the package is not installed.
type Finding struct {
	Name           string
	Classification Classification
	Path           string
	Current        string
	Wanted         string
	Latest         string
	Location       string
	HomePage       string
}

// Missing reports whether the package is not installed.
func (f Finding) Missing() bool {
	return f.Path == ""
}

// newFinding builds the finding for ref, or returns ok=false when there is
// nothing to report: an uninstalled dev dependency, or an installed package
// that is already at both its wanted and latest version.
func newFinding(ref DependencyRef, child *installed.Node, wanted, latest version.Record, location string) (Finding, bool) {
	f := Finding{
		Name:           ref.Name,
		Classification: ref.Classification,
		Wanted:         wanted.Version,
		Latest:         latest.Version,
		Location:       location,
		HomePage:       wanted.HomePage,
	}
	if child != nil {
		f.Path = child.Path
		f.Current = child.Version
		if child.HomePage != "" {
			f.HomePage = child.HomePage
		}
	}

	switch {
	case f.Missing():
		return f, ref.Classification != Dev
	case f.Current != f.Wanted, f.Wanted != f.Latest:
		return f, true
	}
	return f, false
}

// ResultSet is the ordered report handed to renderers.
type ResultSet struct {
	Findings []Finding
}

// Len returns the number of findings.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Findings)
}

// Outdated reports whether anything needs attention. The CLI exits non-zero
// when it does.
func (rs *ResultSet) Outdated() bool {
	return rs.Len() > 0
}

// Options configures a walk.
type Options struct {
	Depth       int                  // Remaining recursion budget (Infinite means 0)
	Concurrency int                  // Registry lookups in flight across the walk (default: 8, 1 is sequential)
	Names       []string             // Names to evaluate at the root (default: all declared)
	Logger      func(string, ...any) // Debug callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	opts.Depth = NormalizeDepth(opts.Depth)
	return opts
}

// NormalizeDepth maps Infinite and negative budgets to zero, so that an
// unbounded request checks direct dependencies only.
func NormalizeDepth(d int) int {
	if d < 0 || d == Infinite {
		return 0
	}
	return d
}
