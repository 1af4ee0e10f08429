package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// groupColors cycle across rhyme groups in label order.
var groupColors = []string{"#FF5F87", "#5FAFFF", "#FFD75F", "#87D787", "#AF87FF", "#FF875F", "#5FD7D7", "#D7AF87"}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	groups []lipgloss.Style
	dim    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	groups := make([]lipgloss.Style, len(groupColors))
	for i, c := range groupColors {
		groups[i] = NewBold(c)
	}

	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		groups: groups,
		dim:    NewStyle(h),
	}
}

// Group returns the style of the i-th rhyme group.
func (p *Palette) Group(i int) lipgloss.Style {
	if i < 0 || len(p.groups) == 0 {
		return p.dim
	}
	return p.groups[i%len(p.groups)]
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
