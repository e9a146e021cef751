package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/handiism/studio-images/internal/config"
	"github.com/handiism/studio-images/internal/http"
	ioutils "github.com/handiism/studio-images/internal/io"
	"github.com/handiism/studio-images/internal/model"
	"github.com/handiism/studio-images/internal/naming"
	"github.com/handiism/studio-images/internal/store"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the level name used in logs.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a run progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates the migration of studio images.
type Manager struct {
	settings     *config.Settings
	store        store.Store
	httpClient   *http.Client
	imageService *ioutils.ImageService
	fetcher      *Fetcher
	guard        *naming.CollisionGuard

	// Read by the TUI while a run is in progress.
	total     int32
	processed int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager reading studios from st.
func NewManager(settings *config.Settings, st store.Store, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(settings.RequestTimeoutDuration(), settings.HeadTimeoutDuration(), settings.UserAgent)
	thumbnail, medium := settings.ToVariantSpecs()
	imageService := ioutils.NewImageService(settings.UploadsDir, thumbnail, medium)

	return &Manager{
		settings:     settings,
		store:        st,
		httpClient:   httpClient,
		imageService: imageService,
		fetcher:      NewFetcher(settings, httpClient, imageService, onProgress),
		guard:        naming.NewCollisionGuard(),
		onProgress:   onProgress,
	}
}

// GetProgress returns how many studios of the current run are done.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processed), atomic.LoadInt32(&m.total)
}

// Run processes every candidate studio once, strictly in store order, and
// returns the run statistics.
//
// Per-studio failures are counted and logged, never returned. The returned
// error is non-nil only when the run could not start (layout creation,
// store query) or was cancelled; the stats gathered until then are
// returned alongside.
func (m *Manager) Run(ctx context.Context) (model.RunStats, error) {
	stats := model.RunStats{RunID: uuid.NewString()}
	m.guard = naming.NewCollisionGuard()
	atomic.StoreInt32(&m.processed, 0)
	atomic.StoreInt32(&m.total, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("=== Starting studio image download (run %s) ===", stats.RunID), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Mode: %s, naming: %s, persist: %s", m.modeName(), m.settings.Policy(), m.settings.PersistMode), Level: LevelInfo})

	if !m.settings.DryRun {
		dirs := append([]string{ioutils.OriginalDir}, m.imageService.VariantDirs()...)
		if err := ioutils.EnsureLayout(m.settings.UploadsDir, dirs...); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directories under %s: %v", m.settings.UploadsDir, err), Level: LevelError})
			return stats, err
		}
	}

	m.progress(ProgressEvent{Message: "Fetching studios with images...", Level: LevelInfo})
	studios, err := m.store.Candidates(ctx, m.settings.Limit)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching studios: %v", err), Level: LevelWarning})
		m.summary(stats)
		return stats, fmt.Errorf("query studios: %w", err)
	}
	if m.settings.Limit > 0 && len(studios) > m.settings.Limit {
		studios = studios[:m.settings.Limit]
	}
	if len(studios) == 0 {
		m.progress(ProgressEvent{Message: "No studios found", Level: LevelWarning})
		m.summary(stats)
		return stats, nil
	}

	stats.Total = len(studios)
	atomic.StoreInt32(&m.total, int32(len(studios)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d studios to process", len(studios)), Level: LevelInfo})

	batchSize := m.settings.BatchSize
	if batchSize <= 0 {
		batchSize = len(studios)
	}

	for start := 0; start < len(studios); start += batchSize {
		end := min(start+batchSize, len(studios))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Batch %d-%d of %d", start+1, end, len(studios)), Level: LevelVerbose})

		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				m.progress(ProgressEvent{Message: "Run cancelled", Level: LevelWarning})
				return stats, err
			}

			m.enter(&studios[i], model.StatePending)
			state := m.processStudio(ctx, &studios[i], &stats)
			if state.IsError() {
				stats.Failed = append(stats.Failed, studios[i].ID)
			}
			atomic.AddInt32(&m.processed, 1)

			if i < len(studios)-1 {
				m.pace(ctx)
			}
		}
	}

	m.summary(stats)
	return stats, nil
}

// processStudio walks one studio through the pipeline and returns its
// final state, updating stats on the way.
func (m *Manager) processStudio(ctx context.Context, studio *model.Studio, stats *model.RunStats) model.RecordState {
	if !studio.HasImage() || studio.IsProcessed(m.settings.ProcessedPrefix) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping studio %d: no image or already processed", studio.ID), Level: LevelVerbose})
		stats.Skipped++
		return m.enter(studio, model.StateSkipped)
	}

	baseName := naming.GenerateFilename(studio, m.settings.Policy())
	contentType, known := m.httpClient.ContentType(ctx, studio.ImageURL)
	ext := naming.ResolveExtension(studio.ImageURL, contentType, known)
	task := model.NewDownloadTask(studio, baseName, ext, m.originalDir())

	// Variants are named after the base name alone, so two studios sharing it
	// collide even when their originals differ in extension.
	if err := m.guard.Claim(baseName, studio.ID); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Filename collision for studio %d (%s): %v", studio.ID, task.URL, err), Level: LevelError})
		stats.Errors++
		return m.enter(studio, model.StateCollided)
	}

	if !m.settings.DryRun && ioutils.FileExists(task.Path) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("File already exists: %s", task.FileName), Level: LevelInfo})
		stats.Skipped++
		return m.enter(studio, model.StateSkipped)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("%sDownloading %s -> %s", m.dryRunPrefix(), studio.DisplayName(), task.FileName), Level: LevelInfo})

	var variants model.Variants
	if m.settings.DryRun {
		variants = m.imageService.VariantPaths(baseName)
	} else {
		m.enter(studio, model.StateDownloading)
		if !m.fetcher.Fetch(ctx, task) {
			m.guard.Release(baseName, studio.ID)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download image for studio %d (%s)", studio.ID, task.URL), Level: LevelError})
			stats.Errors++
			return m.enter(studio, model.StateDownloadFailed)
		}
		stats.Bytes += task.Size

		m.enter(studio, model.StateVariants)
		var err error
		variants, err = m.imageService.MakeVariants(ctx, task.Path, baseName)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating variants for studio %d (%s): %v", studio.ID, task.Path, err), Level: LevelWarning})
		}
	}
	if !variants.IsEmpty() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Variants: %s, %s", variants.Thumbnail, variants.Medium), Level: LevelVerbose})
	}

	return m.enter(studio, m.persist(ctx, task, stats))
}

// enter reports a state transition of studio and returns the state.
func (m *Manager) enter(studio *model.Studio, state model.RecordState) model.RecordState {
	verb := "is"
	if state.IsFinished() {
		verb = "finished as"
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Studio %d %s %s", studio.ID, verb, state), Level: LevelVerbose})
	return state
}

// persist records the new filename according to the persist mode.
func (m *Manager) persist(ctx context.Context, task *model.DownloadTask, stats *model.RunStats) model.RecordState {
	studioID := task.Studio.ID

	if m.settings.PersistMode != config.PersistUpdate {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Studio %d: file saved as %s", studioID, task.FileName), Level: LevelInfo})
		stats.Downloaded++
		m.progress(ProgressEvent{Message: fmt.Sprintf("Success: %s", task.FileName), Level: LevelSuccess})
		return model.StatePersisted
	}

	if !m.settings.DryRun {
		if err := m.store.UpdateImage(ctx, studioID, task.FileName); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error updating studio %d with %s: %v", studioID, task.FileName, err), Level: LevelError})
			stats.Errors++
			return model.StatePersistFailed
		}
	}

	stats.Downloaded++
	stats.Updated++
	m.progress(ProgressEvent{Message: fmt.Sprintf("Success: %s", task.FileName), Level: LevelSuccess})
	return model.StatePersisted
}

func (m *Manager) summary(stats model.RunStats) {
	m.progress(ProgressEvent{Message: "==================================================", Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("RUN SUMMARY (%s)", stats.RunID), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Total studios: %d", stats.Total), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Images downloaded: %d", stats.Downloaded), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped: %d", stats.Skipped), Level: LevelInfo})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Errors: %d", stats.Errors), Level: LevelInfo})
	if m.settings.PersistMode == config.PersistUpdate {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Records updated: %d", stats.Updated), Level: LevelInfo})
	}
	if len(stats.Failed) > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed studios: %s", joinIDs(stats.Failed)), Level: LevelWarning})
	}
	m.progress(ProgressEvent{Message: "==================================================", Level: LevelInfo})

	if stats.Downloaded > 0 && !m.settings.DryRun {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Images saved in %s", m.settings.UploadsDir), Level: LevelSuccess})
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func (m *Manager) pace(ctx context.Context) {
	delay := m.settings.PacingDelayDuration()
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func (m *Manager) originalDir() string {
	return filepath.Join(m.settings.UploadsDir, ioutils.OriginalDir)
}

func (m *Manager) modeName() string {
	if m.settings.DryRun {
		return "DRY RUN"
	}
	return "PRODUCTION"
}

func (m *Manager) dryRunPrefix() string {
	if m.settings.DryRun {
		return "[DRY RUN] "
	}
	return ""
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
