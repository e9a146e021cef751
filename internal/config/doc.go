// Package config provides configuration management for studio-images.
//
// This package handles:
//   - Loading and saving settings from YAML or JSON files
//   - Default configuration values
//   - Secrets from .env files and the environment
//   - Conversion to the option types of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// 3 attempts per image, 30s timeout, 10 MiB cap
//	// plain filenames, log-only persistence
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/studio-images.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
//	// Secrets never live in the config file
//	err = settings.LoadEnv(".env")
//
// # Configuration Options
//
// Settings includes options for:
//   - Supabase connection, table and field names
//   - Uploads directory and log file
//   - Timeouts, retries, backoff and size limits
//   - Pacing, batch size, limit and dry run
//   - Naming policy (plain, id-suffix) and persist mode (log, update)
//   - Thumbnail and medium variant sizes and qualities
package config
