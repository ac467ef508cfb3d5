// Package render writes an outdated report as a table, parseable lines or
// JSON.
package render

import (
	"io"
	"runtime"
	"strings"

	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/outdated"
)

// Format selects a renderer.
type Format string

const (
	FormatTable     Format = "table"
	FormatParseable Format = "parseable"
	FormatJSON      Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTable, FormatParseable, FormatJSON}

// ParseFormat parses a format name, case-insensitively. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatParseable, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want table, parseable or json)", s)
}

// Options configures rendering.
type Options struct {
	Format Format
	Long   bool // add package type and homepage
	Color  bool // table only
}

// missingToken stands in for the current version of a package that is not
// installed.
const missingToken = "MISSING"

// lineSeparator joins output lines.
var lineSeparator = platformLineSeparator()

func platformLineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// ShouldRender reports whether rs produces any output. JSON always renders
// (an empty object); the other formats print nothing for an empty report.
func ShouldRender(rs *outdated.ResultSet, opts Options) bool {
	return opts.Format == FormatJSON || rs.Len() > 0
}

// Render writes rs to w.
func Render(w io.Writer, rs *outdated.ResultSet, opts Options) error {
	if !ShouldRender(rs, opts) {
		return nil
	}
	var findings []outdated.Finding
	if rs != nil {
		findings = rs.Findings
	}

	switch opts.Format {
	case FormatTable, "":
		return renderTable(w, findings, opts)
	case FormatParseable:
		return renderParseable(w, findings, opts)
	case FormatJSON:
		return renderJSON(w, findings, opts)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", opts.Format)
}

func current(f outdated.Finding) string {
	if f.Missing() {
		return missingToken
	}
	return f.Current
}
