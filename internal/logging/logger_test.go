package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/studio-images/internal/download"
)

func TestNew_NoFile(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("", false, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Handle(download.ProgressEvent{Message: "test message", Level: download.LevelInfo})
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("console output: %s", buf.String())
	}
}

func TestNew_WithFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "studio-images.log")

	var buf bytes.Buffer
	l, err := New(logFile, false, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Handle(download.ProgressEvent{Message: "to file", Level: download.LevelWarning})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	b, _ := os.ReadFile(logFile)
	if !bytes.Contains(b, []byte("level=warning")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("console output: %s", buf.String())
	}
}

func TestNew_FileOnly(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")
	l, err := New(logFile, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Handle(download.ProgressEvent{Message: "quiet", Level: download.LevelInfo})
	l.Close()

	b, _ := os.ReadFile(logFile)
	if !bytes.Contains(b, []byte("quiet")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestHandle_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		level   download.ProgressLevel
		want    string
	}{
		{"info", false, download.LevelInfo, "level=info"},
		{"warning", false, download.LevelWarning, "level=warning"},
		{"error", false, download.LevelError, "level=error"},
		{"success", false, download.LevelSuccess, "status=ok"},
		{"verbose enabled", true, download.LevelVerbose, "level=debug"},
		{"verbose hidden", false, download.LevelVerbose, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New("", tt.verbose, &buf)
			if err != nil {
				t.Fatal(err)
			}
			l.Handle(download.ProgressEvent{Message: "msg", Level: tt.level})

			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}
