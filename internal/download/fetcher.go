package download

import (
	"context"
	"fmt"
	"time"

	"github.com/handiism/studio-images/internal/config"
	"github.com/handiism/studio-images/internal/http"
	ioutils "github.com/handiism/studio-images/internal/io"
	"github.com/handiism/studio-images/internal/model"
)

// Fetcher downloads one original image with bounded retries.
//
// Each attempt fetches and validates the bytes, writes them to the task
// path and decodes the written file. A corrupt file is deleted and the
// attempt counts as failed. Attempts are separated by an exponential
// backoff (settings.RetryDelay).
type Fetcher struct {
	settings   *config.Settings
	httpClient *http.Client
	images     *ioutils.ImageService
	onProgress func(ProgressEvent)
}

// NewFetcher creates a Fetcher.
func NewFetcher(settings *config.Settings, httpClient *http.Client, images *ioutils.ImageService, onProgress func(ProgressEvent)) *Fetcher {
	return &Fetcher{
		settings:   settings,
		httpClient: httpClient,
		images:     images,
		onProgress: onProgress,
	}
}

// Fetch downloads task.URL to task.Path and reports whether it succeeded.
// On success task.Size holds the number of bytes written. Exhausting the
// retry budget, or a cancelled context, yields false.
func (f *Fetcher) Fetch(ctx context.Context, task *model.DownloadTask) bool {
	for tries := 0; tries < f.settings.MaxRetries; tries++ {
		if tries > 0 {
			f.waitForRetry(ctx, tries-1)
		}
		if ctx.Err() != nil {
			return false
		}

		err := f.attempt(ctx, task)
		if err == nil {
			return true
		}

		f.progress(ProgressEvent{
			Message: fmt.Sprintf("Attempt %d/%d failed for studio %d (%s): %v", tries+1, f.settings.MaxRetries, task.Studio.ID, task.URL, err),
			Level:   LevelWarning,
		})
	}
	return false
}

func (f *Fetcher) attempt(ctx context.Context, task *model.DownloadTask) error {
	data, err := f.httpClient.FetchImage(ctx, task.URL, f.settings.ToLimits())
	if err != nil {
		return err
	}

	if err := ioutils.WriteFile(ctx, task.Path, data); err != nil {
		return fmt.Errorf("write %s: %w", task.Path, err)
	}

	if err := f.images.Verify(task.Path); err != nil {
		_ = ioutils.RemoveFile(task.Path)
		return err
	}

	task.Size = int64(len(data))
	return nil
}

func (f *Fetcher) waitForRetry(ctx context.Context, tries int) {
	select {
	case <-ctx.Done():
	case <-time.After(f.settings.RetryDelay(tries)):
	}
}

func (f *Fetcher) progress(event ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(event)
	}
}
