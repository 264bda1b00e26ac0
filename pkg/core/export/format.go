package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"xbrl_statements/pkg/core/utils"
	"xbrl_statements/pkg/core/xbrl"
)

// Format is an output file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or its common alias ("markdown", "htm").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Cells flattens a statement into string rows: label first, then one cell per date.
func Cells(stmt *xbrl.Statement) [][]string {
	rows := make([][]string, 0, len(stmt.Rows))
	for _, r := range stmt.Rows {
		row := make([]string, 0, len(r.Values)+1)
		row = append(row, r.Label)
		for _, v := range r.Values {
			row = append(row, v.String())
		}
		rows = append(rows, row)
	}
	return rows
}

// Write renders stmt in the given format.
func Write(w io.Writer, f Format, stmt *xbrl.Statement) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, stmt)
	case FormatMarkdown:
		return WriteMarkdown(w, stmt)
	case FormatHTML:
		return WriteHTML(w, stmt)
	case FormatJSON:
		return WriteJSON(w, stmt)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteCSV writes the header row ["Line Item", dates...] followed by one row per concept.
func WriteCSV(w io.Writer, stmt *xbrl.Statement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stmt.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(Cells(stmt)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteMarkdown writes the statement as a GFM table under a heading naming the query.
func WriteMarkdown(w io.Writer, stmt *xbrl.Statement) error {
	_, err := io.WriteString(w, markdown(stmt))
	return err
}

func markdown(stmt *xbrl.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", stmt.Query)
	if stmt.RoleURI != "" {
		fmt.Fprintf(&b, "Role: `%s`\n\n", stmt.RoleURI)
	}
	b.WriteString(utils.MarkdownTable(stmt.Header(), Cells(stmt)))
	return b.String()
}

// WriteHTML renders the Markdown form to HTML.
func WriteHTML(w io.Writer, stmt *xbrl.Statement) error {
	html, err := utils.RenderHTML(markdown(stmt))
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err = io.WriteString(w, html)
	return err
}

// WriteJSON writes the statement struct, indented.
func WriteJSON(w io.Writer, stmt *xbrl.Statement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stmt)
}
