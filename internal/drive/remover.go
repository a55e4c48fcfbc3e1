// Package drive removes certificate files from Google Drive on a best
// effort basis. The service account rarely owns the files it is asked
// to delete, so failure is an expected outcome: nothing in this package
// returns an error or panics across its boundary.
package drive

import (
	"context"
	"regexp"
	"strings"
)

// Outcome classifies one removal attempt.
type Outcome int

const (
	// OutcomeFailed covers bad links and API-level failures.
	OutcomeFailed Outcome = iota
	// OutcomeUnavailable means no usable credential exists in this
	// process; every call will report it until restart.
	OutcomeUnavailable
	// OutcomeDeleted means the file itself was deleted.
	OutcomeDeleted
	// OutcomeEjected means the file was removed from all its parent
	// folders without being deleted.
	OutcomeEjected
	// OutcomeOrphaned means the file already had no parents; nothing
	// was left to remove.
	OutcomeOrphaned
)

// Succeeded collapses the outcome into the boolean the callers act on.
func (o Outcome) Succeeded() bool {
	switch o {
	case OutcomeDeleted, OutcomeEjected, OutcomeOrphaned:
		return true
	}
	return false
}

func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeEjected:
		return "ejected"
	case OutcomeOrphaned:
		return "orphaned"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

// Remover removes an externally stored file by its share link.
type Remover interface {
	Remove(ctx context.Context, link string) Outcome
}

const driveHost = "drive.google.com"

var fileIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// FileID extracts the file identifier from a Drive share link. It
// reports false for empty links, foreign hosts, and links without a
// /d/<id> segment; callers must not touch the network in that case.
func FileID(link string) (string, bool) {
	if link == "" || !strings.Contains(link, driveHost) {
		return "", false
	}
	m := fileIDPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}
