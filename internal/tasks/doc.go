// Package tasks fetches and analyzes lyrics for one song or many, with real-time progress reporting.
//
// # Core Operations
//
// [Engine] wraps a [services.LyricsProvider] and a [rhyme.Analyzer]:
//
//  1. [Engine.Fetch] : Look up one song and detect its rhymes
//     - A song without lyrics yields the placeholder text and an empty analysis
//     - Provider failures are returned as errors
//
//  2. [Engine.Batch] : Fetch, analyze and export a list of songs
//     - A fixed pool of workers reads songs from a job channel
//     - Each song is written to its own file in the output directory
//     - A manifest.json summarizes every song, including failures
//
// Song lists are plain text with one "Artist - Title" per line; see [ParseSongList].
//
// # Progress Reporting
//
// Batch runs report through a non-blocking channel. [ProgressUpdate] carries the phase, step counters and a message.
// Updates use select with default so a slow reader never stalls the workers.
package tasks
