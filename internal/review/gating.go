package review

import "strings"

// HasChecked reports whether any pull across repos is checked.
func HasChecked(repos []RepoHasCheck) bool {
	for _, repo := range repos {
		for _, pull := range repo.Pulls {
			if pull.Checked {
				return true
			}
		}
	}
	return false
}

// CheckedPulls flattens the checked pulls, keeping repo order then pull order.
func CheckedPulls(repos []RepoHasCheck) []CheckedPullInfo {
	var checked []CheckedPullInfo
	for _, repo := range repos {
		for _, pull := range repo.Pulls {
			if !pull.Checked {
				continue
			}
			checked = append(checked, CheckedPullInfo{
				Repo:   repo.Repo,
				Title:  pull.Title,
				Number: pull.Number,
				Author: pull.Author,
				URL:    pull.URL,
			})
		}
	}
	return checked
}

// HasMyPull reports whether login authored any of the checked pulls.
// An empty login never matches.
func HasMyPull(checked []CheckedPullInfo, login string) bool {
	if login == "" {
		return false
	}
	for _, pull := range checked {
		if strings.EqualFold(pull.Author, login) {
			return true
		}
	}
	return false
}

// Gate holds the enablement flags for the review actions.
type Gate struct {
	HasChecked bool
	HasMyPull  bool
	HasComment bool
}

// NewGate derives the gate from the current selection, user and comment text.
func NewGate(repos []RepoHasCheck, login, comment string) Gate {
	return Gate{
		HasChecked: HasChecked(repos),
		HasMyPull:  HasMyPull(CheckedPulls(repos), login),
		HasComment: strings.TrimSpace(comment) != "",
	}
}

// Allows reports whether a batch of type t may be started.
func (g Gate) Allows(t Type) bool {
	switch t {
	case Comment:
		return g.HasChecked && g.HasComment
	case Approve:
		return g.HasChecked && !g.HasMyPull
	case RequestChanges:
		return g.HasChecked && g.HasComment && !g.HasMyPull
	default:
		return false
	}
}

// Check returns nil when Allows(t), or the error naming the first rule that
// blocks a batch of type t.
func (g Gate) Check(t Type) error {
	switch {
	case !t.Valid():
		return ErrUnknownType
	case !g.HasChecked:
		return ErrNoPulls
	case t != Comment && g.HasMyPull:
		return ErrOwnPull
	case t.RequiresComment() && !g.HasComment:
		return ErrCommentRequired
	}
	return nil
}
