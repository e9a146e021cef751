// Package download orchestrates a studio image migration run.
//
// # Manager
//
// The Manager walks every candidate studio returned by the store, one at a
// time and in store order:
//
//  1. Skip studios without an image or already renamed
//  2. Build the SEO filename and resolve the extension
//  3. Download and validate the original (Fetcher)
//  4. Generate the WebP thumbnail and medium variants
//  5. Persist the new filename (log it, or update the store)
//
// # Basic Usage
//
//	st, err := store.NewSupabase(settings.ToSupabaseConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := download.NewManager(settings, st, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	stats, err := manager.Run(ctx)
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress exposes the processed/total counters for polling UIs.
//
// # Retry Logic
//
// Failed downloads are retried with exponential backoff, configurable via
// settings.MaxRetries, settings.RetryCooldown and settings.RetryExponent.
// A studio whose retries are exhausted is counted as an error and the run
// moves on.
package download
