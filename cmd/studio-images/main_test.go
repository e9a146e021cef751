package main

import (
	"testing"

	"github.com/handiism/studio-images/internal/config"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		logFile string
		policy  string
		persist string
		limit   int
		dryRun  bool
		check   func(t *testing.T, s *config.Settings)
		wantErr bool
	}{
		{
			name:  "no overrides",
			limit: -1,
			check: func(t *testing.T, s *config.Settings) {
				def := config.DefaultSettings()
				if s.UploadsDir != def.UploadsDir || s.Limit != 0 || s.DryRun {
					t.Errorf("settings changed: %+v", s)
				}
			},
		},
		{
			name:    "all overrides",
			output:  "/srv/uploads",
			logFile: "/var/log/studio.log",
			policy:  "ID-Suffix",
			persist: "update",
			limit:   5,
			dryRun:  true,
			check: func(t *testing.T, s *config.Settings) {
				if s.UploadsDir != "/srv/uploads" || s.LogFile != "/var/log/studio.log" {
					t.Errorf("paths = %q, %q", s.UploadsDir, s.LogFile)
				}
				if s.NamingPolicy != "id-suffix" || s.PersistMode != config.PersistUpdate {
					t.Errorf("policies = %q, %q", s.NamingPolicy, s.PersistMode)
				}
				if s.Limit != 5 || !s.DryRun {
					t.Errorf("limit = %d, dryRun = %v", s.Limit, s.DryRun)
				}
			},
		},
		{name: "bad policy", policy: "random", limit: -1, wantErr: true},
		{name: "bad persist", persist: "delete", limit: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			err := applyFlags(s, tt.output, tt.logFile, tt.policy, tt.persist, tt.limit, tt.dryRun)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}
