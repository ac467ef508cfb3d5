package outdated

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Merge concatenates level with each subtree in order and drops every
// finding whose name already appeared earlier. The first occurrence wins.
func Merge(level []Finding, subtrees ...[]Finding) []Finding {
	size := len(level)
	for _, s := range subtrees {
		size += len(s)
	}
	out := make([]Finding, 0, size)
	seen := make(map[string]bool, size)
	add := func(fs []Finding) {
		for _, f := range fs {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	add(level)
	for _, s := range subtrees {
		add(s)
	}
	return out
}

// Build sorts findings by name for locale (a BCP 47 tag, "en" when empty or
// unparsable). The sort is stable and nothing is filtered.
func Build(findings []Finding, locale string) *ResultSet {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.Make(DefaultLocale)
	}
	col := collate.New(tag)

	sorted := slices.Clone(findings)
	slices.SortStableFunc(sorted, func(a, b Finding) int {
		return col.CompareString(a.Name, b.Name)
	})
	return &ResultSet{Findings: sorted}
}
