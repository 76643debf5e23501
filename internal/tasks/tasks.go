package tasks

import (
	"context"
	"io"
	"os"
)

// Uploader posts one photo for a user.
type Uploader interface {
	UploadPhoto(ctx context.Context, id string, r io.Reader) (string, error)
}

// UploadResult is the outcome for a single file.
type UploadResult struct {
	Path    string
	Message string // Server response on success
	Success bool
	Error   error
}

// BulkUploadResult summarises a [UploadEngine.BulkUpload] run.
type BulkUploadResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []UploadResult
}

// BulkUploadOpts contains configuration for bulk uploads.
type BulkUploadOpts struct {
	NumWorkers int                                      // Concurrent uploads (default: 2, max: 5)
	Open       func(path string) (io.ReadCloser, error) // File opener (default: os.Open)
}

// UploadEngine orchestrates uploads against an [Uploader].
type UploadEngine struct {
	uploader Uploader
}

// NewUploadEngine creates an [UploadEngine].
func NewUploadEngine(u Uploader) *UploadEngine {
	return &UploadEngine{uploader: u}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *UploadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
