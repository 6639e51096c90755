package models

// DownloadResult represents the outcome of downloading one attachment.
type DownloadResult struct {
	Path          string // Target path the file was written to (or found at)
	Size          int64  // Bytes on disk; zero on failure
	AlreadyExists bool   // True when the target existed before the run
}
