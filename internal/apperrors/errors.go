package apperrors

import "fmt"

// ErrBadStatus is returned when a page or download request answers with a
// non-200 HTTP status.
type ErrBadStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrBadStatus) Error() string {
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrBadStatus) Is(target error) bool {
	_, ok := target.(*ErrBadStatus)
	return ok
}

// ErrUndersizedDownload is returned when a download completed but produced a
// file at or under the validity threshold. The board serves small HTML error
// pages with status 200 in place of the binary payload; size is the only
// signal that distinguishes them.
type ErrUndersizedDownload struct {
	Path    string
	Size    int64
	MinSize int64
}

// Error implements the error interface.
func (e *ErrUndersizedDownload) Error() string {
	return fmt.Sprintf("download %s produced %d bytes, below the %d byte validity threshold", e.Path, e.Size, e.MinSize)
}

// Is allows for error checking with errors.Is().
func (e *ErrUndersizedDownload) Is(target error) bool {
	_, ok := target.(*ErrUndersizedDownload)
	return ok
}
