package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
)

// renderLyrics colors every grouped word by its group and prefixes each line with its scheme label.
//
// When focus is a group index only that group is colored.
func renderLyrics(song *models.SongExport, focus int) string {
	if song == nil {
		return ""
	}

	r := song.Rhymes
	if r == nil || len(r.Text.Lines) == 0 {
		return song.Lyrics
	}

	index := make(map[string]int, len(r.Groups))
	width := 1
	for i, g := range r.Groups {
		index[g.Label] = i
		width = max(width, len(g.Label))
	}

	var b strings.Builder
	for i, line := range r.Text.Lines {
		label := ""
		if i < len(r.Scheme) {
			label = r.Scheme[i]
		}

		gutter := fmt.Sprintf("%-*s", width, label)
		if label != "" && (focus < 0 || index[label] == focus) {
			gutter = styles.Group(index[label]).Render(gutter)
		} else {
			gutter = styles.dim.Render(gutter)
		}

		b.WriteString(gutter)
		b.WriteString("  ")
		b.WriteString(colorLine(r, line, index, focus))
		b.WriteString("\n")
	}
	return b.String()
}

func colorLine(r *rhyme.Result, line rhyme.Line, index map[string]int, focus int) string {
	var b strings.Builder
	raw, cursor := line.Raw, 0
	for _, w := range line.Words {
		at := strings.Index(raw[cursor:], w.Text)
		if at < 0 {
			continue
		}
		at += cursor
		end := at + len(w.Text)

		label := r.LabelAt(w.Pos)
		gi, grouped := index[label]
		b.WriteString(raw[cursor:at])
		if label != "" && grouped && (focus < 0 || gi == focus) {
			b.WriteString(styles.Group(gi).Render(w.Text))
		} else {
			b.WriteString(w.Text)
		}
		cursor = end
	}
	b.WriteString(raw[cursor:])
	return b.String()
}

// schemeSummary joins the non-empty scheme into one string, e.g. "AABB".
func schemeSummary(r *rhyme.Result) string {
	if r == nil {
		return ""
	}
	var parts []string
	sep := ""
	for _, s := range r.Scheme {
		if s == "" {
			continue
		}
		if len(s) > 1 {
			sep = " "
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}
