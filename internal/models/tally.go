package models

import (
	"fmt"
	"strings"
)

// Tally tracks per-extension download counts for the end-of-run summary.
// Files that already existed on disk count as downloaded, keeping repeated
// runs idempotent in the reported totals.
type Tally struct {
	exts   []string
	counts map[string]int
	failed int
}

// NewTally creates a tally over the accepted extension set.
// Order is preserved for the summary line.
func NewTally(exts []string) *Tally {
	counts := make(map[string]int, len(exts))
	for _, ext := range exts {
		counts[ext] = 0
	}
	return &Tally{exts: append([]string(nil), exts...), counts: counts}
}

// Accepts reports whether ext is part of the accepted extension set.
func (t *Tally) Accepts(ext string) bool {
	_, ok := t.counts[ext]
	return ok
}

// Add records one successful (or already-existing) download for ext.
// Extensions outside the accepted set are ignored.
func (t *Tally) Add(ext string) {
	if _, ok := t.counts[ext]; ok {
		t.counts[ext]++
	}
}

// AddFailure records one failed download attempt.
func (t *Tally) AddFailure() {
	t.failed++
}

// Count returns the number of downloads recorded for ext.
func (t *Tally) Count(ext string) int {
	return t.counts[ext]
}

// Failed returns the number of failed download attempts.
func (t *Tally) Failed() int {
	return t.failed
}

// Total returns the number of downloads across all accepted extensions.
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Summary formats the tally as a human-readable line,
// e.g. "3 HWP, 1 HWPX, 0 ODT".
func (t *Tally) Summary() string {
	parts := make([]string, 0, len(t.exts))
	for _, ext := range t.exts {
		parts = append(parts, fmt.Sprintf("%d %s", t.counts[ext], strings.ToUpper(ext)))
	}
	return strings.Join(parts, ", ")
}
