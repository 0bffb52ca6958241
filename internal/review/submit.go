package review

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Submitter sends a single review to the remote API.
type Submitter interface {
	SubmitReview(ctx context.Context, pull CheckedPullInfo, t Type, body string) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, pull CheckedPullInfo, t Type, body string) error

// SubmitReview calls f.
func (f SubmitterFunc) SubmitReview(ctx context.Context, pull CheckedPullInfo, t Type, body string) error {
	return f(ctx, pull, t, body)
}

// Outcome is the settled result for one pull in a batch.
type Outcome struct {
	Pull CheckedPullInfo
	Err  error
}

// Fulfilled reports whether the review was accepted.
func (o Outcome) Fulfilled() bool {
	return o.Err == nil
}

// ClampProgress bounds a progress value to [0, 100].
func ClampProgress(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// Submit sends one review per pull concurrently and waits for every call to
// settle. The returned outcomes match pulls in length and order. onProgress,
// if set, is called with 0 first and then once per settled call; calls are
// serialized and the value never decreases.
func Submit(ctx context.Context, s Submitter, pulls []CheckedPullInfo, t Type, comment string, onProgress func(float64)) ([]Outcome, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if len(pulls) == 0 {
		return nil, ErrNoPulls
	}
	if t.RequiresComment() && strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	body := comment
	if t == Approve {
		body = ""
	}

	var (
		mu      sync.Mutex
		settled int
	)
	// Each settlement is worth 100/n; deriving the value from the settled
	// count keeps the final report at exactly 100.
	report := func(done int) {
		if onProgress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		settled += done
		onProgress(ClampProgress(float64(settled) * 100 / float64(len(pulls))))
	}

	report(0)

	outcomes := make([]Outcome, len(pulls))
	var wg conc.WaitGroup
	for i, pull := range pulls {
		wg.Go(func() {
			var pc panics.Catcher
			var err error
			pc.Try(func() {
				err = s.SubmitReview(ctx, pull, t, body)
			})
			if r := pc.Recovered(); r != nil {
				err = r.AsError()
			}
			outcomes[i] = Outcome{Pull: pull, Err: err}
			report(1)
		})
	}
	wg.Wait()

	return outcomes, nil
}

// AllFulfilled reports whether every outcome succeeded.
func AllFulfilled(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Fulfilled() {
			return false
		}
	}
	return true
}

// Failures lists the rejected items in input order.
func Failures(outcomes []Outcome) []SubmissionError {
	var failed []SubmissionError
	for _, o := range outcomes {
		if o.Fulfilled() {
			continue
		}
		failed = append(failed, SubmissionError{Repo: o.Pull.Repo, PullTitle: o.Pull.Title})
	}
	return failed
}
