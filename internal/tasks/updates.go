package tasks

import "fmt"

// ProgressUpdate represents a progress event during a batch run.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, a [SongResult] for finished songs
}

// Operation phase enumeration
type Phase int

const (
	FetchLyrics Phase = iota
	ExportSong
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchLyrics:
		return "fetch_lyrics"
	case ExportSong:
		return "export_song"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func batchStartedUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching lyrics for %d songs with %d workers...", total, workers),
	}
}

func songCompletedUpdate(step, total int, res SongResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s (%d groups)", step, total, res.Song, res.Groups)
	if !res.Found {
		msg = fmt.Sprintf("[%d/%d] ? %s: lyrics not found", step, total, res.Song)
	}
	return ProgressUpdate{
		Phase:   ExportSong,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func songFailedUpdate(step, total int, res SongResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Song, res.Err),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}
