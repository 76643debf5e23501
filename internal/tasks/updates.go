package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadPhoto Phase = iota
	UploadPhoto
	UploadDone
)

func (p Phase) String() string {
	switch p {
	case ReadPhoto:
		return "read_photo"
	case UploadPhoto:
		return "upload_photo"
	case UploadDone:
		return "upload_done"
	default:
		return ""
	}
}

func queuedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadPhoto,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Uploading %d photos...", total),
	}
}

func uploadingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPhoto,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading: %s...", step, total, path),
	}
}

func uploadCompletedUpdate(step, total int, res UploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Path),
		Data:    res,
	}
}

func uploadFailedUpdate(step, total int, res UploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Path, res.Error),
		Data:    res,
	}
}
