// Package apperrors tests verify the custom error types, their Error()
// messages, Is() matching semantics, and compatibility with errors.Is()
// including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrBadStatus_Error(t *testing.T) {
	t.Parallel()

	err := &ErrBadStatus{URL: "https://example.org/bbs/list.do", StatusCode: 403}
	want := "request to https://example.org/bbs/list.do returned status 403"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrBadStatus_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch listing page 1: %w", &ErrBadStatus{URL: "u", StatusCode: 500})
	if !errors.Is(err, &ErrBadStatus{}) {
		t.Error("errors.Is should match wrapped ErrBadStatus")
	}
	if errors.Is(err, &ErrUndersizedDownload{}) {
		t.Error("ErrBadStatus must not match ErrUndersizedDownload")
	}
}

func TestErrUndersizedDownload_Error(t *testing.T) {
	t.Parallel()

	err := &ErrUndersizedDownload{Path: "msit-1001.hwp", Size: 50, MinSize: 100}
	want := "download msit-1001.hwp produced 50 bytes, below the 100 byte validity threshold"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrUndersizedDownload_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("download failed: %w", &ErrUndersizedDownload{Path: "p", Size: 1, MinSize: 100})
	if !errors.Is(err, &ErrUndersizedDownload{}) {
		t.Error("errors.Is should match wrapped ErrUndersizedDownload")
	}
	if errors.Is(err, &ErrBadStatus{}) {
		t.Error("ErrUndersizedDownload must not match ErrBadStatus")
	}
}
