package render

import (
	"io"
	"strings"

	"github.com/matzehuels/outdated/pkg/outdated"
)

// renderParseable writes one line per finding:
//
//	path:name@wanted:name@current:name@latest[:type:homepage]
//
// with "MISSING" in place of name@current for packages that are not installed.
func renderParseable(w io.Writer, findings []outdated.Finding, opts Options) error {
	lines := make([]string, len(findings))
	for i, f := range findings {
		has := missingToken
		if !f.Missing() {
			has = f.Name + "@" + f.Current
		}
		fields := []string{
			f.Path,
			f.Name + "@" + f.Wanted,
			has,
			f.Name + "@" + f.Latest,
		}
		if opts.Long {
			fields = append(fields, string(f.Classification), f.HomePage)
		}
		lines[i] = strings.Join(fields, ":")
	}
	_, err := io.WriteString(w, strings.Join(lines, lineSeparator)+lineSeparator)
	return err
}
