package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rhymx/internal/rhyme"
)

var _ list.Item = groupItem{}

// groupItem wraps [rhyme.Group] to implement [list.Item].
type groupItem struct {
	group rhyme.Group
	index int
}

func (i groupItem) words() []string {
	words := make([]string, len(i.group.Words))
	for j, m := range i.group.Words {
		words[j] = m.Word
	}
	return words
}

func (i groupItem) FilterValue() string { return i.group.Label + " " + strings.Join(i.words(), " ") }
func (i groupItem) Title() string {
	return fmt.Sprintf("%s • %d words", i.group.Label, len(i.group.Words))
}
func (i groupItem) Description() string { return strings.Join(i.words(), ", ") }

func groupItems(r *rhyme.Result) []list.Item {
	if r == nil {
		return nil
	}
	items := make([]list.Item, len(r.Groups))
	for i, g := range r.Groups {
		items[i] = groupItem{group: g, index: i}
	}
	return items
}
