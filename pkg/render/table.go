package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/matzehuels/outdated/pkg/outdated"
	"github.com/matzehuels/outdated/pkg/version"
)

var (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorMagenta = lipgloss.Color("5")
	colorDim     = lipgloss.Color("240")
	colorBlue    = lipgloss.Color("75")
)

const (
	colPackage = iota
	colCurrent
	colWanted
	colLatest
	colLocation
	colType
	colHomePage
)

func renderTable(w io.Writer, findings []outdated.Finding, opts Options) error {
	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	headers := []string{"Package", "Current", "Wanted", "Latest", "Location"}
	if opts.Long {
		headers = append(headers, "Package Type", "Homepage")
	}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		row := []string{f.Name, current(f), f.Wanted, f.Latest, f.Location}
		if opts.Long {
			row = append(row, string(f.Classification), f.HomePage)
		}
		rows[i] = row
	}

	last := len(headers) - 1
	cell := func(col int) lipgloss.Style {
		s := r.NewStyle()
		if col < last {
			s = s.PaddingRight(2)
		}
		return s
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell(col)
			if row == table.HeaderRow {
				return s.Underline(true)
			}
			if row < 0 || row >= len(findings) {
				return s
			}
			f := findings[row]
			switch col {
			case colPackage:
				if f.Missing() || version.Compare(f.Current, f.Wanted) < 0 {
					return s.Foreground(colorRed)
				}
				return s.Foreground(colorYellow)
			case colWanted:
				return s.Foreground(colorGreen)
			case colLatest:
				return s.Foreground(colorMagenta)
			case colLocation, colType:
				return s.Foreground(colorDim)
			case colHomePage:
				return s.Foreground(colorBlue)
			}
			return s
		})

	if _, err := io.WriteString(w, t.Render()+lineSeparator); err != nil {
		return err
	}
	return nil
}
