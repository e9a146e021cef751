package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/studio-images/internal/naming"
)

func validSettings() *Settings {
	s := DefaultSettings()
	s.SupabaseURL = "https://example.supabase.co"
	s.SupabaseKey = "key"
	return s
}

// unsetEnv clears name for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	os.Unsetenv(name)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", s.MaxRetries)
	}
	if s.RequestTimeoutDuration() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", s.RequestTimeoutDuration())
	}
	if s.MaxFileSize != 10*1024*1024 || s.MinFileSize != 1024 {
		t.Errorf("file size limits = %d/%d", s.MinFileSize, s.MaxFileSize)
	}
	if s.PacingDelayDuration() != 100*time.Millisecond {
		t.Errorf("PacingDelay = %v, want 100ms", s.PacingDelayDuration())
	}
	if s.ProcessedPrefix != "pilates-" {
		t.Errorf("ProcessedPrefix = %q, want pilates-", s.ProcessedPrefix)
	}
	if s.Policy() != naming.PolicyPlain || s.PersistMode != PersistLog {
		t.Errorf("policies = %q/%q", s.Policy(), s.PersistMode)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio-images.yaml")
	content := `
uploads_dir: /srv/uploads/studios
naming_policy: id-suffix
persist_mode: update
max_retries: 5
pacing_delay: 0.5
thumbnail:
  width: 320
  height: 240
  quality: 80
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.UploadsDir != "/srv/uploads/studios" {
		t.Errorf("UploadsDir = %q", s.UploadsDir)
	}
	if s.Policy() != naming.PolicyIDSuffix || s.PersistMode != PersistUpdate {
		t.Errorf("policies = %q/%q", s.Policy(), s.PersistMode)
	}
	if s.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", s.MaxRetries)
	}
	if s.Thumbnail.Width != 320 || s.Thumbnail.Quality != 80 {
		t.Errorf("Thumbnail = %+v", s.Thumbnail)
	}
	// Untouched fields keep their defaults
	if s.Medium.Width != 600 || s.Table != "studios" {
		t.Errorf("defaults lost: Medium = %+v, Table = %q", s.Medium, s.Table)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"limit": 100, "dry_run": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Limit != 100 || !s.DryRun {
		t.Errorf("Limit = %d, DryRun = %v", s.Limit, s.DryRun)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxRetries != DefaultSettings().MaxRetries {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"limit": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed file should fail")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"settings.yaml", "settings.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			s := DefaultSettings()
			s.NamingPolicy = string(naming.PolicyIDSuffix)
			s.Limit = 7

			if err := s.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.NamingPolicy != s.NamingPolicy || loaded.Limit != 7 {
				t.Errorf("loaded = %+v", loaded)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	unsetEnv(t, EnvSupabaseURL)
	unsetEnv(t, EnvSupabaseKey)
	unsetEnv(t, EnvLogFile)
	t.Setenv(EnvUploadsDir, "/from/env")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SUPABASE_URL=https://file.supabase.co\nSUPABASE_KEY=file-key\nSTUDIO_IMAGES_DIR=/from/file\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := DefaultSettings()
	if err := s.LoadEnv(envFile); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if s.SupabaseURL != "https://file.supabase.co" || s.SupabaseKey != "file-key" {
		t.Errorf("supabase = %q/%q", s.SupabaseURL, s.SupabaseKey)
	}
	if s.UploadsDir != "/from/env" {
		t.Errorf("UploadsDir = %q, environment should win over the file", s.UploadsDir)
	}
	if s.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", s.LogFile)
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	s := DefaultSettings()
	if err := s.LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadEnv() with missing file error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"missing credentials", func(s *Settings) { s.SupabaseKey = "" }, "SUPABASE_KEY"},
		{"bad policy", func(s *Settings) { s.NamingPolicy = "hash" }, "naming policy"},
		{"bad persist mode", func(s *Settings) { s.PersistMode = "upsert" }, "persist mode"},
		{"no retries", func(s *Settings) { s.MaxRetries = 0 }, "max_retries"},
		{"zero timeout", func(s *Settings) { s.HeadTimeout = 0 }, "timeouts"},
		{"min above max", func(s *Settings) { s.MinFileSize = s.MaxFileSize }, "file size"},
		{"negative limit", func(s *Settings) { s.Limit = -1 }, "limit"},
		{"bad quality", func(s *Settings) { s.Medium.Quality = 101 }, "medium"},
		{"empty uploads dir", func(s *Settings) { s.UploadsDir = "" }, "uploads_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRetryDelay(t *testing.T) {
	s := DefaultSettings()
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for tries, w := range want {
		if got := s.RetryDelay(tries); got != w {
			t.Errorf("RetryDelay(%d) = %v, want %v", tries, got, w)
		}
	}
}

func TestToVariantSpecs(t *testing.T) {
	thumb, medium := DefaultSettings().ToVariantSpecs()
	if thumb.Width != 300 || thumb.Height != 200 || thumb.Quality != 85 || thumb.Dir != "thumbnails" {
		t.Errorf("thumbnail = %+v", thumb)
	}
	if medium.Width != 600 || medium.Height != 400 || medium.Quality != 90 || medium.Dir != "medium" {
		t.Errorf("medium = %+v", medium)
	}
}
