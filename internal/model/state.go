package model

// RecordState is the state of a studio inside the download pipeline.
type RecordState string

const (
	// StatePending means the studio has not been looked at yet.
	StatePending RecordState = "Pending"

	// StateSkipped means there was nothing to do: no image, an already
	// processed filename, or a file already on disk.
	StateSkipped RecordState = "Skipped"

	// StateDownloading means the original is being fetched.
	StateDownloading RecordState = "Downloading"

	// StateDownloadFailed means every fetch attempt failed.
	StateDownloadFailed RecordState = "DownloadFailed"

	// StateCollided means another studio of the same run already claimed
	// the target file.
	StateCollided RecordState = "Collided"

	// StateVariants means the resized copies are being generated.
	StateVariants RecordState = "Variants"

	// StatePersisted means the new filename was recorded.
	StatePersisted RecordState = "Persisted"

	// StatePersistFailed means the file was downloaded but the store
	// update failed.
	StatePersistFailed RecordState = "PersistFailed"
)

// String returns the string representation of RecordState
func (rs RecordState) String() string {
	return string(rs)
}

// IsFinished returns true if no further transition can happen.
func (rs RecordState) IsFinished() bool {
	switch rs {
	case StateSkipped, StateDownloadFailed, StateCollided, StatePersisted, StatePersistFailed:
		return true
	}
	return false
}

// IsError returns true for final states that count as errors.
func (rs RecordState) IsError() bool {
	return rs == StateDownloadFailed || rs == StateCollided || rs == StatePersistFailed
}
