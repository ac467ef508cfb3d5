package render

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/outdated/pkg/outdated"
)

type jsonEntry struct {
	Current  string `json:"current,omitempty"`
	Wanted   string `json:"wanted"`
	Latest   string `json:"latest"`
	Location string `json:"location"`
}

type jsonLongEntry struct {
	jsonEntry
	Type     string `json:"type"`
	HomePage string `json:"homepage"`
}

// renderJSON writes an object keyed by package name. Keys follow the report
// order, so the object is built by hand rather than from a map.
func renderJSON(w io.Writer, findings []outdated.Finding, opts Options) error {
	if len(findings) == 0 {
		_, err := io.WriteString(w, "{}\n")
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range findings {
		key, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		entry := jsonEntry{
			Current:  f.Current,
			Wanted:   f.Wanted,
			Latest:   f.Latest,
			Location: f.Location,
		}
		var value any = entry
		if opts.Long {
			value = jsonLongEntry{jsonEntry: entry, Type: string(f.Classification), HomePage: f.HomePage}
		}
		body, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return err
		}

		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(body)
		if i < len(findings)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}
