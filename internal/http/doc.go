// Package http provides the HTTP client used to fetch studio images.
//
// The Client in this package handles:
//   - User-Agent headers accepted by image hosts
//   - Best-effort Content-Type probing via HEAD requests
//   - Image downloads validated by status, content type and size
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(30*time.Second, 10*time.Second, "")
//
//	// Learn the content type, if the host tells
//	ct, ok := client.ContentType(ctx, imageURL)
//
//	// Fetch and validate one image, in memory
//	data, err := client.FetchImage(ctx, imageURL, http.DefaultLimits())
//	if errors.Is(err, http.ErrTooLarge) {
//	    // skip or retry
//	}
//
// # Size Capping
//
// The CappedWriter type can be used to wrap any io.Writer so that it fails
// past a size limit:
//
//	cw := &http.CappedWriter{Writer: file, Max: 10 << 20}
package http
