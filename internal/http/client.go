package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent mimics a desktop browser; several image hosts refuse
// requests without one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var (
	// ErrBadStatus is wrapped by StatusError for any non-200 response.
	ErrBadStatus = errors.New("unexpected HTTP status")

	// ErrContentType is returned when the response is not an image.
	ErrContentType = errors.New("invalid content type")

	// ErrTooLarge is returned when the image exceeds Limits.MaxSize,
	// either by its declared Content-Length or while streaming.
	ErrTooLarge = errors.New("image too large")

	// ErrTooSmall is returned when fewer than Limits.MinSize bytes arrive.
	ErrTooSmall = errors.New("image too small")
)

// imageTypeTokens are the Content-Type substrings accepted as images.
var imageTypeTokens = []string{"image/", "jpeg", "jpg", "png", "webp"}

// StatusError reports a non-200 response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Unwrap lets errors.Is(err, ErrBadStatus) match.
func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}

// Limits bounds what FetchImage accepts.
type Limits struct {
	// MaxSize is the largest accepted body, in bytes.
	MaxSize int64

	// MinSize is the smallest accepted body, in bytes. Smaller bodies are
	// usually error pages or placeholders served with a 200.
	MinSize int64

	// ChunkSize is the read buffer size used while streaming the body.
	ChunkSize int
}

// DefaultLimits returns 10 MiB / 1 KiB limits with 8 KiB chunks.
func DefaultLimits() Limits {
	return Limits{
		MaxSize:   10 * 1024 * 1024,
		MinSize:   1024,
		ChunkSize: 8192,
	}
}

// Client wraps HTTP operations used to fetch studio images.
//
// Client provides:
//   - A browser-like User-Agent header on every request
//   - A per-request timeout for downloads and a shorter one for HEAD probes
//   - Content-Type probing via HEAD requests
//   - Validated, size-capped image downloads
//
// The underlying connection pool is reused across requests. Client is meant
// to be shared by sequential callers for the duration of a run.
//
// Example usage:
//
//	client := NewClient(30*time.Second, 10*time.Second, DefaultUserAgent)
//
//	ct, ok := client.ContentType(ctx, imageURL)
//	data, err := client.FetchImage(ctx, imageURL, DefaultLimits())
type Client struct {
	httpClient  *http.Client
	userAgent   string
	headTimeout time.Duration
}

// NewClient creates a client with the given request timeout, HEAD probe
// timeout and User-Agent. An empty userAgent selects DefaultUserAgent.
func NewClient(timeout, headTimeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:   userAgent,
		headTimeout: headTimeout,
	}
}

// CappedWriter wraps a writer and fails once more than Max bytes have been
// written to it.
//
// Example:
//
//	var buf bytes.Buffer
//	cw := &CappedWriter{Writer: &buf, Max: 10 << 20}
//	_, err := io.Copy(cw, resp.Body) // errors.Is(err, ErrTooLarge) past 10 MiB
type CappedWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Max is the largest number of bytes accepted.
	Max int64

	// Written is the current number of bytes written.
	Written int64
}

// Write implements io.Writer, refusing the chunk that crosses Max.
func (cw *CappedWriter) Write(p []byte) (int, error) {
	if cw.Written+int64(len(p)) > cw.Max {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, cw.Max)
	}
	n, err := cw.Writer.Write(p)
	cw.Written += int64(n)
	return n, err
}

// ContentType returns the Content-Type announced by a HEAD request.
//
// The probe is best effort: any failure (network error, timeout, missing
// header) yields ok == false and the caller falls back to guessing from the
// URL alone. The status code is not checked; some hosts answer HEAD with
// an error but still describe the resource.
func (c *Client) ContentType(ctx context.Context, url string) (contentType string, ok bool) {
	if c.headTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.headTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	contentType = resp.Header.Get("Content-Type")
	return contentType, contentType != ""
}

// FetchImage performs one GET and returns the body if it looks like a
// plausible image.
//
// The response is rejected, before anything is kept, when:
//   - The status is not 200 OK (StatusError, matches ErrBadStatus)
//   - The Content-Type contains none of image/, jpeg, jpg, png, webp (ErrContentType)
//   - The declared Content-Length exceeds limits.MaxSize (ErrTooLarge)
//
// The body is then streamed in limits.ChunkSize chunks and the download is
// aborted as soon as it grows past limits.MaxSize, whatever the headers
// said. A body smaller than limits.MinSize is rejected with ErrTooSmall.
//
// FetchImage never touches the filesystem; retries are up to the caller.
func (c *Client) FetchImage(ctx context.Context, url string, limits Limits) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isImageContentType(contentType) {
		return nil, fmt.Errorf("%w: %q", ErrContentType, contentType)
	}

	if resp.ContentLength > limits.MaxSize {
		return nil, fmt.Errorf("%w: declared %d bytes", ErrTooLarge, resp.ContentLength)
	}

	chunkSize := limits.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 8192
	}

	var buf bytes.Buffer
	writer := &CappedWriter{Writer: &buf, Max: limits.MaxSize}
	if _, err := io.CopyBuffer(writer, onlyReader{resp.Body}, make([]byte, chunkSize)); err != nil {
		return nil, err
	}

	if writer.Written < limits.MinSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, writer.Written)
	}

	return buf.Bytes(), nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer really uses the
// chunk buffer.
type onlyReader struct {
	io.Reader
}

func isImageContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, token := range imageTypeTokens {
		if strings.Contains(ct, token) {
			return true
		}
	}
	return false
}
