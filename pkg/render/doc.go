// Package render writes an outdated report in one of three formats.
//
// # Formats
//
//   - [FormatTable]: aligned columns for terminals, coloured when
//     [Options].Color is set. Missing packages show "MISSING" as current.
//   - [FormatParseable]: one colon-separated line per package,
//     path:name@wanted:name@current:name@latest, with the dependency type and
//     homepage appended in long mode. Lines end with the platform separator.
//   - [FormatJSON]: an object keyed by package name in report order.
//
// None of the renderers change the report. [ShouldRender] reports whether a
// format has anything to print: JSON always prints (an empty report is "{}"),
// the others stay silent when nothing is outdated.
//
//	if render.ShouldRender(rs, opts) {
//	    err := render.Render(os.Stdout, rs, opts)
//	}
package render
