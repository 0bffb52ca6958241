package tui

import "github.com/fini-net/gh-batch-review/internal/review"

// DialogState is either Closed or Open.
type DialogState interface {
	isDialogState()
}

// Closed means no confirmation dialog is shown.
type Closed struct{}

// Open is the confirmation dialog for one review type.
type Open struct {
	Type  review.Type
	Title string
}

func (Closed) isDialogState() {}
func (Open) isDialogState()   {}

// ProgressState is either Idle or Running.
type ProgressState interface {
	isProgressState()
}

// Idle means no batch is being submitted.
type Idle struct{}

// Running carries the submission progress in [0, 100].
type Running struct {
	Value float64
}

func (Idle) isProgressState()    {}
func (Running) isProgressState() {}
