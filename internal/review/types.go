// Package review holds the selection rules and the batch submission workflow
// for reviewing several pull requests at once.
package review

import (
	"fmt"
	"strings"
	"time"
)

// Type is the kind of review applied to every checked pull in a batch.
type Type int

const (
	Comment Type = iota
	Approve
	RequestChanges
)

// Types lists every review type in display order.
var Types = []Type{Comment, Approve, RequestChanges}

// String returns the CLI spelling of the type
func (t Type) String() string {
	switch t {
	case Comment:
		return "comment"
	case Approve:
		return "approve"
	case RequestChanges:
		return "request-changes"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Event returns the GitHub pull request review event for the type.
func (t Type) Event() string {
	switch t {
	case Comment:
		return "COMMENT"
	case Approve:
		return "APPROVE"
	case RequestChanges:
		return "REQUEST_CHANGES"
	default:
		return ""
	}
}

// RequiresComment reports whether a non-empty body must accompany the review.
func (t Type) RequiresComment() bool {
	return t == Comment || t == RequestChanges
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return t >= Comment && t <= RequestChanges
}

// ParseType parses comment, approve or request-changes (case-insensitive,
// '_' accepted for '-').
func ParseType(s string) (Type, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "comment":
		return Comment, nil
	case "approve":
		return Approve, nil
	case "request-changes":
		return RequestChanges, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Pull is an open pull request as shown in the selection list.
type Pull struct {
	Number         int
	Title          string
	URL            string
	Author         string
	CreatedAt      time.Time
	IsDraft        bool
	CIState        string // statusCheckRollup state, lowercased; "" when no checks
	ReviewDecision string // approved, changes_requested, review_required or ""
	Checked        bool
}

// RepoHasCheck pairs a repository with its pulls and their selection flags.
type RepoHasCheck struct {
	Repo  string // owner/name
	Pulls []Pull
}

// CheckedPullInfo is the flattened view of one checked pull.
type CheckedPullInfo struct {
	Repo   string
	Title  string
	Number int
	Author string
	URL    string
}

// Ref returns owner/name#number.
func (p CheckedPullInfo) Ref() string {
	return fmt.Sprintf("%s#%d", p.Repo, p.Number)
}

// SubmissionError identifies a failed item for display.
type SubmissionError struct {
	Repo      string
	PullTitle string
}
