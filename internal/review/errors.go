package review

import "errors"

var (
	// ErrNoPulls is returned when a batch is started without any checked pull.
	ErrNoPulls = errors.New("no pull requests selected")
	// ErrCommentRequired is returned for comment and request-changes batches with an empty body.
	ErrCommentRequired = errors.New("a comment is required for this review type")
	// ErrUnknownType is returned for a review type outside the known set.
	ErrUnknownType = errors.New("unknown review type")
	// ErrOwnPull is returned when approving or requesting changes on the current user's pull.
	ErrOwnPull = errors.New("cannot review your own pull request")
)
