package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
)

const lyrics = "I walk down the street\nFeeling the heat\nMy cat\nWearing a hat"

func loadedModel(t *testing.T) *Model {
	t.Helper()
	song := &models.SongExport{Title: "Street Song", Artist: "Nobody", Lyrics: lyrics, Rhymes: rhyme.Analyze(lyrics)}

	m := NewModel(context.Background(), Static(song))
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(songLoadedMsg(song, nil))
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel(t *testing.T) {
	t.Run("shows a spinner until the song arrives", func(t *testing.T) {
		m := NewModel(context.Background(), Static(nil))
		if !strings.Contains(m.View(), "Fetching lyrics") {
			t.Errorf("expected loading view, got %q", m.View())
		}
	})

	t.Run("loader runs through Init's command", func(t *testing.T) {
		song := &models.SongExport{Lyrics: "a cat\na hat", Rhymes: rhyme.Analyze("a cat\na hat")}
		m := NewModel(context.Background(), Static(song))

		msg := m.loadSong()()
		m.Update(msg)

		if m.loading {
			t.Fatal("expected loading to finish")
		}
		if m.song != song {
			t.Error("expected song to be set")
		}
	})

	t.Run("renders lyrics with heading and scheme", func(t *testing.T) {
		m := loadedModel(t)
		view := m.View()

		for _, want := range []string{"Nobody - Street Song", "2 groups", "AABB", "street", "Wearing a"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("load errors are shown", func(t *testing.T) {
		m := NewModel(context.Background(), Static(nil))
		m.Update(songLoadedMsg(nil, errors.New("upstream down")))

		if !strings.Contains(m.View(), "upstream down") {
			t.Errorf("expected error view, got %q", m.View())
		}
	})

	t.Run("nil song is an error", func(t *testing.T) {
		m := NewModel(context.Background(), Static(nil))
		m.Update(songLoadedMsg(nil, nil))

		if m.err == nil {
			t.Error("expected error for nil song")
		}
	})

	t.Run("tab opens the group list and enter focuses a group", func(t *testing.T) {
		m := loadedModel(t)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != GroupListView {
			t.Fatalf("expected GroupListView, got %v", m.view)
		}
		if len(m.groupList.Items()) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(m.groupList.Items()))
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != LyricsView {
			t.Fatalf("expected LyricsView, got %v", m.view)
		}
		if m.focus != 0 {
			t.Errorf("expected focus on first group, got %d", m.focus)
		}
		if !strings.Contains(m.View(), "focus A") {
			t.Errorf("expected focus in header:\n%s", m.View())
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.focus != -1 {
			t.Errorf("expected esc to clear focus, got %d", m.focus)
		}
	})

	t.Run("tab stays on lyrics without groups", func(t *testing.T) {
		song := &models.SongExport{Lyrics: rhyme.Placeholder, Rhymes: rhyme.Analyze(rhyme.Placeholder)}
		m := NewModel(context.Background(), Static(song))
		m.Update(songLoadedMsg(song, nil))

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != LyricsView {
			t.Errorf("expected LyricsView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "not found") {
			t.Errorf("expected placeholder in view:\n%s", m.View())
		}
	})

	t.Run("q quits", func(t *testing.T) {
		m := loadedModel(t)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if !isQuit(cmd) {
			t.Error("expected quit command")
		}
	})
}

func TestRenderLyrics(t *testing.T) {
	song := &models.SongExport{Lyrics: lyrics, Rhymes: rhyme.Analyze(lyrics)}

	out := renderLyrics(song, -1)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	for i, want := range []string{"street", "heat", "cat", "hat"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d missing %q: %q", i, want, lines[i])
		}
	}

	if got := schemeSummary(song.Rhymes); got != "AABB" {
		t.Errorf("schemeSummary() = %q, want AABB", got)
	}
	if renderLyrics(nil, -1) != "" {
		t.Error("expected empty render for nil song")
	}
}
