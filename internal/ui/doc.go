// Package ui implements the interactive rhyme viewer using bubbletea's Elm architecture.
//
// The viewer has two views:
//  1. [LyricsView] : scrollable lyrics with each rhyme group in its own color and the scheme label in a gutter
//  2. [GroupListView] : filterable list of rhyme groups; selecting one focuses the lyrics view on it
//
// The [Model] loads its song through a [Loader] command, so lyrics fetched over the network arrive as a message while
// a spinner runs.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
