package model

// RunStats holds the counters of a single run. It is owned by the download
// manager while the run is in progress and returned to the caller at the end.
type RunStats struct {
	// RunID correlates the log lines of one run.
	RunID string

	Total      int
	Downloaded int
	Skipped    int
	Errors     int
	Updated    int

	// Bytes is the total size of the originals written to disk.
	Bytes int64

	// Failed lists the studios that ended in an error state, in run order.
	Failed []int64
}

// Processed returns how many studios reached a final state.
func (s *RunStats) Processed() int {
	return s.Downloaded + s.Skipped + s.Errors
}

// Variants holds the relative paths of the resized copies of an original,
// e.g. "thumbnails/<name>.webp". A zero value means no variant was produced.
type Variants struct {
	Thumbnail string
	Medium    string
}

// IsEmpty reports whether no variant was produced.
func (v Variants) IsEmpty() bool {
	return v.Thumbnail == "" && v.Medium == ""
}

// VariantSpec describes one resized copy: the bounding box it must fit in,
// the encoder quality, and the subdirectory it is written to.
type VariantSpec struct {
	Name    string
	Dir     string
	Width   int
	Height  int
	Quality int
}
