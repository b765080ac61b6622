package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchTop Phase = iota
	WriteExport
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchTop:
		return "fetch_top"
	case WriteExport:
		return "write_export"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func startingExportUpdate(total int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTop,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d lists to %s...", total, dir),
	}
}

func exportCompletedUpdate(step, total int, job ExportJob, items int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d items)", step, total, job, items),
	}
}

func exportFailedUpdate(step, total int, job ExportJob, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, job, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
		Data:    path,
	}
}
