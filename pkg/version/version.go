package version

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/outdated/pkg/errors"
)

// TagLatest is the dist-tag npm publishes by default.
const TagLatest = "latest"

// Record is a single published version of a package.
type Record struct {
	Version    string `json:"version"`
	HomePage   string `json:"homepage,omitempty"`
	Deprecated string `json:"deprecated,omitempty"`
}

// Packument is the registry document for one package.
type Packument struct {
	Name     string            `json:"name"`
	DistTags map[string]string `json:"dist_tags"`
	Versions []Record          `json:"versions"` // ascending by semver
}

// NewPackument builds a Packument from raw records. Records whose version is
// not valid semver are dropped; the rest are sorted ascending.
func NewPackument(name string, distTags map[string]string, records []Record) *Packument {
	type parsed struct {
		v   *semver.Version
		rec Record
	}
	ps := make([]parsed, 0, len(records))
	for _, r := range records {
		v, err := semver.StrictNewVersion(strings.TrimPrefix(r.Version, "v"))
		if err != nil {
			continue
		}
		ps = append(ps, parsed{v: v, rec: r})
	}
	slices.SortStableFunc(ps, func(a, b parsed) int { return a.v.Compare(b.v) })

	p := &Packument{Name: name, DistTags: distTags, Versions: make([]Record, len(ps))}
	for i, x := range ps {
		p.Versions[i] = x.rec
	}
	if p.DistTags == nil {
		p.DistTags = map[string]string{}
	}
	return p
}

// Lookup returns the record for an exact version string.
func (p *Packument) Lookup(v string) (Record, bool) {
	for _, r := range p.Versions {
		if r.Version == v {
			return r, true
		}
	}
	return Record{}, false
}

// Pick resolves constraint against p.
func Pick(p *Packument, constraint string) (Record, error) {
	constraint = strings.TrimSpace(constraint)

	if constraint == "" {
		for i := len(p.Versions) - 1; i >= 0; i-- {
			if v, err := semver.NewVersion(p.Versions[i].Version); err == nil && v.Prerelease() == "" {
				return p.Versions[i], nil
			}
		}
		return Record{}, notSatisfiable(p.Name, constraint)
	}

	if tagged, ok := p.DistTags[constraint]; ok {
		if r, ok := p.Lookup(tagged); ok {
			return r, nil
		}
		return Record{}, notSatisfiable(p.Name, constraint)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeTargetNotSatisfiable, err,
			"no matching version for %s@%s", p.Name, constraint)
	}

	if tagged, ok := p.DistTags[TagLatest]; ok {
		if r, ok := p.Lookup(tagged); ok && satisfies(c, r.Version) {
			return r, nil
		}
	}

	var fallback *Record
	for i := len(p.Versions) - 1; i >= 0; i-- {
		r := p.Versions[i]
		if !satisfies(c, r.Version) {
			continue
		}
		if r.Deprecated == "" {
			return r, nil
		}
		if fallback == nil {
			fallback = &p.Versions[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return Record{}, notSatisfiable(p.Name, constraint)
}

// Compare orders two version strings by semver precedence. Strings that are
// not valid semver sort before valid ones and lexically among themselves.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	default:
		return 1
	}
}

func satisfies(c *semver.Constraints, raw string) bool {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return false
	}
	return c.Check(v)
}

func notSatisfiable(name, constraint string) error {
	if constraint == "" {
		return errors.New(errors.ErrCodeTargetNotSatisfiable, "no stable version published for %s", name)
	}
	return errors.New(errors.ErrCodeTargetNotSatisfiable, "no matching version for %s@%s", name, constraint)
}
