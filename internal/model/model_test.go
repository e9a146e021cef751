package model

import (
	"path/filepath"
	"testing"
)

func TestStudio_IsProcessed(t *testing.T) {
	tests := []struct {
		imageURL string
		want     bool
	}{
		{"https://example.com/a.jpg", false},
		{"pilates-vila-mariana-sp-studio-zen.jpg", true},
		{"", false},
		{"Pilates-upper.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.imageURL, func(t *testing.T) {
			s := &Studio{ImageURL: tt.imageURL}
			if got := s.IsProcessed("pilates-"); got != tt.want {
				t.Errorf("IsProcessed(%q) = %v, want %v", tt.imageURL, got, tt.want)
			}
		})
	}
}

func TestStudio_IsProcessed_EmptyPrefix(t *testing.T) {
	s := &Studio{ImageURL: "pilates-x.jpg"}
	if s.IsProcessed("") {
		t.Error("empty prefix should never mark a studio as processed")
	}
}

func TestStudio_HasImage(t *testing.T) {
	if (&Studio{ImageURL: "   "}).HasImage() {
		t.Error("blank ImageURL should not count as an image")
	}
	if !(&Studio{ImageURL: "https://example.com/a.png"}).HasImage() {
		t.Error("URL should count as an image")
	}
}

func TestNewDownloadTask(t *testing.T) {
	studio := &Studio{ID: 42, ImageURL: "https://example.com/zen.jpg"}
	task := NewDownloadTask(studio, "pilates-vila-mariana-sp-studio-zen", ".jpg", "/uploads/original")

	if task.FileName != "pilates-vila-mariana-sp-studio-zen.jpg" {
		t.Errorf("FileName = %q", task.FileName)
	}
	want := filepath.Join("/uploads/original", "pilates-vila-mariana-sp-studio-zen.jpg")
	if task.Path != want {
		t.Errorf("Path = %q, want %q", task.Path, want)
	}
	if task.URL != studio.ImageURL {
		t.Errorf("URL = %q, want %q", task.URL, studio.ImageURL)
	}
}

func TestRecordState(t *testing.T) {
	tests := []struct {
		state    RecordState
		finished bool
		isError  bool
	}{
		{StatePending, false, false},
		{StateDownloading, false, false},
		{StateVariants, false, false},
		{StateSkipped, true, false},
		{StatePersisted, true, false},
		{StateDownloadFailed, true, true},
		{StateCollided, true, true},
		{StatePersistFailed, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsFinished(); got != tt.finished {
				t.Errorf("IsFinished() = %v, want %v", got, tt.finished)
			}
			if got := tt.state.IsError(); got != tt.isError {
				t.Errorf("IsError() = %v, want %v", got, tt.isError)
			}
		})
	}
}

func TestRunStats_Processed(t *testing.T) {
	s := RunStats{Downloaded: 2, Skipped: 3, Errors: 1}
	if got := s.Processed(); got != 6 {
		t.Errorf("Processed() = %d, want 6", got)
	}
}

func TestVariants_IsEmpty(t *testing.T) {
	if !(Variants{}).IsEmpty() {
		t.Error("zero Variants should be empty")
	}
	if (Variants{Medium: "medium/a.webp"}).IsEmpty() {
		t.Error("Variants with a medium path should not be empty")
	}
}
