package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rhymx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongLoaded MsgKind = iota
)

type songLoaded struct {
	song *models.SongExport
	err  error
}

// songLoadedMsg is the constructor for [MsgSongLoaded]
func songLoadedMsg(song *models.SongExport, err error) Msg {
	return Msg{kind: MsgSongLoaded, data: songLoaded{song, err}}
}
