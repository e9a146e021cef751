package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	httpc "github.com/handiism/studio-images/internal/http"
	ioutils "github.com/handiism/studio-images/internal/io"
	"github.com/handiism/studio-images/internal/model"
	"github.com/handiism/studio-images/internal/naming"
	"github.com/handiism/studio-images/internal/store"
)

// PersistMode selects what happens to the store once an image is saved.
type PersistMode string

const (
	// PersistLog only logs the new filename; the store is never written.
	PersistLog PersistMode = "log"

	// PersistUpdate writes the new filename back to the studio record.
	PersistUpdate PersistMode = "update"
)

// Environment variables overlaid by LoadEnv.
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"
	EnvUploadsDir  = "STUDIO_IMAGES_DIR"
	EnvLogFile     = "STUDIO_IMAGES_LOG_FILE"
)

// VariantSettings describes one resized copy.
type VariantSettings struct {
	Width   int `json:"width" yaml:"width"`
	Height  int `json:"height" yaml:"height"`
	Quality int `json:"quality" yaml:"quality"`
}

// Settings holds all configuration options.
type Settings struct {
	// Record store
	SupabaseURL    string `json:"supabase_url" yaml:"supabase_url"`
	SupabaseKey    string `json:"supabase_key" yaml:"supabase_key"`
	Table          string `json:"table" yaml:"table"`
	ImageField     string `json:"image_field" yaml:"image_field"`
	UpdatedAtField string `json:"updated_at_field" yaml:"updated_at_field"`

	// Output
	UploadsDir string `json:"uploads_dir" yaml:"uploads_dir"`
	LogFile    string `json:"log_file" yaml:"log_file"`

	// HTTP settings (durations in seconds)
	UserAgent      string  `json:"user_agent" yaml:"user_agent"`
	RequestTimeout float64 `json:"request_timeout" yaml:"request_timeout"`
	HeadTimeout    float64 `json:"head_timeout" yaml:"head_timeout"`

	// Download settings
	MaxRetries    int     `json:"max_retries" yaml:"max_retries"`
	RetryCooldown float64 `json:"retry_cooldown" yaml:"retry_cooldown"`
	RetryExponent float64 `json:"retry_exponent" yaml:"retry_exponent"`
	MaxFileSize   int64   `json:"max_file_size" yaml:"max_file_size"`
	MinFileSize   int64   `json:"min_file_size" yaml:"min_file_size"`
	ChunkSize     int     `json:"chunk_size" yaml:"chunk_size"`

	// Batch settings
	PacingDelay float64 `json:"pacing_delay" yaml:"pacing_delay"`
	BatchSize   int     `json:"batch_size" yaml:"batch_size"`
	Limit       int     `json:"limit" yaml:"limit"`
	DryRun      bool    `json:"dry_run" yaml:"dry_run"`

	// Naming and persistence policies
	ProcessedPrefix string      `json:"processed_prefix" yaml:"processed_prefix"`
	NamingPolicy    string      `json:"naming_policy" yaml:"naming_policy"` // plain, id-suffix
	PersistMode     PersistMode `json:"persist_mode" yaml:"persist_mode"`   // log, update

	// Variant settings
	Thumbnail VariantSettings `json:"thumbnail" yaml:"thumbnail"`
	Medium    VariantSettings `json:"medium" yaml:"medium"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	limits := httpc.DefaultLimits()
	return &Settings{
		Table:          "studios",
		ImageField:     "image_url",
		UpdatedAtField: "updated_at",

		UploadsDir: filepath.Join("public", "uploads", "studios"),

		UserAgent:      httpc.DefaultUserAgent,
		RequestTimeout: 30,
		HeadTimeout:    10,

		MaxRetries:    3,
		RetryCooldown: 1.0,
		RetryExponent: 2.0,
		MaxFileSize:   limits.MaxSize,
		MinFileSize:   limits.MinSize,
		ChunkSize:     limits.ChunkSize,

		PacingDelay: 0.1,
		BatchSize:   50,

		ProcessedPrefix: naming.Prefix + "-",
		NamingPolicy:    string(naming.PolicyPlain),
		PersistMode:     PersistLog,

		Thumbnail: VariantSettings{Width: 300, Height: 200, Quality: 85},
		Medium:    VariantSettings{Width: 600, Height: 400, Quality: 90},
	}
}

// Load reads settings from a YAML (.yaml, .yml) or JSON file. Fields missing
// from the file keep their default value; a missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a YAML or JSON file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads the given dotenv files (".env" when none is given), then
// overlays the SUPABASE_URL, SUPABASE_KEY, STUDIO_IMAGES_DIR and
// STUDIO_IMAGES_LOG_FILE environment variables. Missing dotenv files are
// ignored; variables already set in the environment win over the files.
func (s *Settings) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	overlay := map[string]*string{
		EnvSupabaseURL: &s.SupabaseURL,
		EnvSupabaseKey: &s.SupabaseKey,
		EnvUploadsDir:  &s.UploadsDir,
		EnvLogFile:     &s.LogFile,
	}
	for name, field := range overlay {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*field = v
		}
	}
	return nil
}

// Validate checks that the settings describe a runnable configuration.
func (s *Settings) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (s *Settings) validate() error {
	if s.SupabaseURL == "" || s.SupabaseKey == "" {
		return fmt.Errorf("%s and %s are required", EnvSupabaseURL, EnvSupabaseKey)
	}
	if _, err := naming.ParsePolicy(s.NamingPolicy); err != nil {
		return err
	}
	if _, err := ParsePersistMode(string(s.PersistMode)); err != nil {
		return err
	}
	if s.UploadsDir == "" {
		return errors.New("uploads_dir is required")
	}
	if s.MaxRetries < 1 {
		return errors.New("max_retries must be at least 1")
	}
	if s.RequestTimeout <= 0 || s.HeadTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if s.RetryCooldown < 0 || s.RetryExponent < 1 {
		return errors.New("retry_cooldown must be >= 0 and retry_exponent >= 1")
	}
	if s.MinFileSize < 0 || s.MaxFileSize <= 0 || s.MinFileSize >= s.MaxFileSize {
		return errors.New("file size limits must satisfy 0 <= min_file_size < max_file_size")
	}
	if s.PacingDelay < 0 {
		return errors.New("pacing_delay must not be negative")
	}
	if s.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	for name, v := range map[string]VariantSettings{"thumbnail": s.Thumbnail, "medium": s.Medium} {
		if v.Width <= 0 || v.Height <= 0 || v.Quality < 1 || v.Quality > 100 {
			return fmt.Errorf("%s: width and height must be positive and quality within 1-100", name)
		}
	}
	return nil
}

// ParsePersistMode validates a persist mode name.
func ParsePersistMode(s string) (PersistMode, error) {
	switch m := PersistMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PersistLog, PersistUpdate:
		return m, nil
	}
	return "", fmt.Errorf("unknown persist mode %q (want %q or %q)", s, PersistLog, PersistUpdate)
}

// Policy returns the naming policy, PolicyPlain when unset or invalid.
func (s *Settings) Policy() naming.Policy {
	p, err := naming.ParsePolicy(s.NamingPolicy)
	if err != nil {
		return naming.PolicyPlain
	}
	return p
}

// ToLimits converts settings to http.Limits.
func (s *Settings) ToLimits() httpc.Limits {
	return httpc.Limits{
		MaxSize:   s.MaxFileSize,
		MinSize:   s.MinFileSize,
		ChunkSize: s.ChunkSize,
	}
}

// ToVariantSpecs converts settings to the thumbnail and medium specs.
func (s *Settings) ToVariantSpecs() (thumbnail, medium model.VariantSpec) {
	thumbnail = model.VariantSpec{
		Name:    "thumbnail",
		Dir:     ioutils.ThumbnailDir,
		Width:   s.Thumbnail.Width,
		Height:  s.Thumbnail.Height,
		Quality: s.Thumbnail.Quality,
	}
	medium = model.VariantSpec{
		Name:    "medium",
		Dir:     ioutils.MediumDir,
		Width:   s.Medium.Width,
		Height:  s.Medium.Height,
		Quality: s.Medium.Quality,
	}
	return thumbnail, medium
}

// ToSupabaseConfig converts settings to store.SupabaseConfig.
func (s *Settings) ToSupabaseConfig() store.SupabaseConfig {
	return store.SupabaseConfig{
		URL:            s.SupabaseURL,
		Key:            s.SupabaseKey,
		Table:          s.Table,
		ImageField:     s.ImageField,
		UpdatedAtField: s.UpdatedAtField,
	}
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (s *Settings) RequestTimeoutDuration() time.Duration {
	return seconds(s.RequestTimeout)
}

// HeadTimeoutDuration returns HeadTimeout as a time.Duration.
func (s *Settings) HeadTimeoutDuration() time.Duration {
	return seconds(s.HeadTimeout)
}

// PacingDelayDuration returns PacingDelay as a time.Duration.
func (s *Settings) PacingDelayDuration() time.Duration {
	return seconds(s.PacingDelay)
}

// RetryDelay returns the wait before retry number tries+1:
// RetryCooldown * RetryExponent^tries seconds.
func (s *Settings) RetryDelay(tries int) time.Duration {
	cooldown := s.RetryCooldown
	for i := 0; i < tries; i++ {
		cooldown *= s.RetryExponent
	}
	return seconds(cooldown)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
