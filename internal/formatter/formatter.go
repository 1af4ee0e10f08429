// package formatter renders rhyme analyses as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat resolves a format name, accepting "md" and "txt" as aliases. An empty name is [FormatText].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	}
	return "txt"
}

// Export renders export in format. pretty only affects JSON.
func Export(export *models.SongExport, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatText, "":
		return ExportToText(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatCSV:
		return ExportToCSV(export)
	case FormatJSON:
		return ExportToJSON(export, pretty)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// ExportToText writes the lyrics with each line's scheme label in a left gutter, followed by the groups.
func ExportToText(export *models.SongExport) ([]byte, error) {
	var buf bytes.Buffer

	if h := export.Heading(); h != "" {
		fmt.Fprintf(&buf, "%s\n\n", h)
	}

	width := gutterWidth(export.Rhymes)
	for i, line := range lines(export) {
		label := schemeAt(export.Rhymes, i)
		if label == "" {
			label = "-"
		}
		if line == "" {
			fmt.Fprintln(&buf)
			continue
		}
		fmt.Fprintf(&buf, "%-*s  %s\n", width, label, line)
	}

	groups := groupsOf(export.Rhymes)
	if len(groups) == 0 {
		buf.WriteString("\nNo rhymes found.\n")
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "\nGroups: %d\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(&buf, "%-*s  %s\n", width, g.Label, strings.Join(memberList(g), ", "))
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown writes the lyrics with rhyming words in bold and tagged with their label, then a group table.
func ExportToMarkdown(export *models.SongExport) ([]byte, error) {
	var buf bytes.Buffer

	title := export.Heading()
	if title == "" {
		title = "Lyrics"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	groups := groupsOf(export.Rhymes)
	if export.Rhymes != nil && len(export.Rhymes.Scheme) > 0 {
		fmt.Fprintf(&buf, "**Scheme**: %s\n", Scheme(export.Rhymes.Scheme))
	}
	fmt.Fprintf(&buf, "**Groups**: %d\n\n", len(groups))

	buf.WriteString("## Lyrics\n\n")
	for i, line := range lines(export) {
		if line == "" {
			buf.WriteString("\n")
			continue
		}
		buf.WriteString(highlight(export.Rhymes, i, line))
		buf.WriteString("  \n")
	}

	if len(groups) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("\n## Groups\n\n")
	buf.WriteString("| Label | Key | Words |\n")
	buf.WriteString("|---|---|---|\n")
	for _, g := range groups {
		fmt.Fprintf(&buf, "| %s | `%s` | %s |\n", g.Label, g.Key, strings.Join(memberList(g), ", "))
	}

	return buf.Bytes(), nil
}

// ExportToCSV writes one row per group member with columns: Label, Key, Line, Index, Word.
//
// Line and Index are one-based.
func ExportToCSV(export *models.SongExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Label", "Key", "Line", "Index", "Word"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range groupsOf(export.Rhymes) {
		for _, m := range g.Words {
			record := []string{
				g.Label,
				g.Key,
				strconv.Itoa(m.Line + 1),
				strconv.Itoa(m.Index + 1),
				m.Word,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes the export in the same shape as the relay's /lyrics response, plus title and artist.
func ExportToJSON(export *models.SongExport, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(export, "", "  ")
	} else {
		data, err = json.Marshal(export)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Write renders export in format to w.
func Write(w io.Writer, export *models.SongExport, format Format, pretty bool) error {
	data, err := Export(export, format, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile renders export in format to path.
func WriteFile(path string, export *models.SongExport, format Format, pretty bool) error {
	data, err := Export(export, format, pretty)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// lines prefers the tokenized lines; results decoded from JSON only carry the raw lyrics.
func lines(export *models.SongExport) []string {
	if r := export.Rhymes; r != nil && len(r.Text.Lines) > 0 {
		out := make([]string, len(r.Text.Lines))
		for i, l := range r.Text.Lines {
			out[i] = l.Raw
		}
		return out
	}
	text := strings.ReplaceAll(export.Lyrics, "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func groupsOf(r *rhyme.Result) []rhyme.Group {
	if r == nil {
		return nil
	}
	return r.Groups
}

func schemeAt(r *rhyme.Result, line int) string {
	if r == nil || line >= len(r.Scheme) {
		return ""
	}
	return r.Scheme[line]
}

func gutterWidth(r *rhyme.Result) int {
	width := 1
	for _, g := range groupsOf(r) {
		width = max(width, len(g.Label))
	}
	return width
}

func memberList(g rhyme.Group) []string {
	out := make([]string, len(g.Words))
	for i, m := range g.Words {
		out[i] = fmt.Sprintf("%s (%d:%d)", m.Word, m.Line+1, m.Index+1)
	}
	return out
}

// Scheme renders a rhyme scheme, with "-" for unlabelled lines. Single-letter labels are joined ("AAB-") and
// schemes with longer labels are spaced ("A B AA -").
func Scheme(scheme []string) string {
	sep := ""
	parts := make([]string, len(scheme))
	for i, s := range scheme {
		if s == "" {
			s = "-"
		}
		if len(s) > 1 {
			sep = " "
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// highlight bolds every grouped word of line and appends its label as a superscript.
func highlight(r *rhyme.Result, line int, raw string) string {
	if r == nil || line >= len(r.Text.Lines) {
		return raw
	}

	var b strings.Builder
	cursor := 0
	for _, w := range r.Text.Lines[line].Words {
		at := strings.Index(raw[cursor:], w.Text)
		if at < 0 {
			continue
		}
		at += cursor
		end := at + len(w.Text)

		label := r.LabelAt(w.Pos)
		if label == "" {
			b.WriteString(raw[cursor:end])
		} else {
			b.WriteString(raw[cursor:at])
			fmt.Fprintf(&b, "**%s**<sup>%s</sup>", w.Text, label)
		}
		cursor = end
	}
	b.WriteString(raw[cursor:])
	return b.String()
}
