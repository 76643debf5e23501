package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/wasaphoto/internal/shared"
)

type uploadJob struct {
	index int
	path  string
}

// BulkUpload uploads every file in paths as a photo of ownerID.
//
// Results keep the order of paths. The returned error is only non-nil for invalid input or a cancelled context;
// per-file failures are reported in the result.
func (e *UploadEngine) BulkUpload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ownerID string,
	paths []string,
	opts BulkUploadOpts,
) (*BulkUploadResult, error) {
	if e.uploader == nil {
		return nil, fmt.Errorf("%w: uploader not initialized", shared.ErrServiceUnavailable)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner id", shared.ErrMissingArgument)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to upload", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 5 {
		opts.NumWorkers = 5
	}
	if opts.Open == nil {
		opts.Open = openFile
	}

	result := &BulkUploadResult{
		Total:   len(paths),
		Results: make([]UploadResult, len(paths)),
	}

	jobs := make(chan uploadJob, len(paths))
	done := make(chan uploadJob, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.uploadWorker(ctx, &wg, prog, ownerID, jobs, done, result.Results, opts)
	}

	e.sendProgress(prog, queuedUpdate(len(paths)))
	for i, p := range paths {
		jobs <- uploadJob{index: i, path: p}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		res := result.Results[job.index]
		if res.Success {
			result.Succeeded++
			e.sendProgress(prog, uploadCompletedUpdate(completed, len(paths), res))
		} else {
			result.Failed++
			e.sendProgress(prog, uploadFailedUpdate(completed, len(paths), res))
		}
	}

	if err := ctx.Err(); err != nil {
		for i := range result.Results {
			if result.Results[i].Path == "" {
				result.Results[i] = UploadResult{Path: paths[i], Error: err}
				result.Failed++
			}
		}
		return result, err
	}
	return result, nil
}

// uploadWorker uploads files from jobs. Each job owns results[job.index].
func (e *UploadEngine) uploadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	ownerID string,
	jobs <-chan uploadJob,
	done chan<- uploadJob,
	results []UploadResult,
	opts BulkUploadOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e.sendProgress(prog, uploadingUpdate(job.index+1, len(results), job.path))
		results[job.index] = e.uploadSingle(ctx, ownerID, job.path, opts)
		done <- job
	}
}

func (e *UploadEngine) uploadSingle(ctx context.Context, ownerID, path string, opts BulkUploadOpts) UploadResult {
	res := UploadResult{Path: path}

	f, err := opts.Open(path)
	if err != nil {
		res.Error = fmt.Errorf("failed to open photo: %w", err)
		return res
	}
	defer f.Close()

	msg, err := e.uploader.UploadPhoto(ctx, ownerID, f)
	if err != nil {
		res.Error = err
		return res
	}

	res.Message = msg
	res.Success = true
	return res
}
