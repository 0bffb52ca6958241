package github

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var (
	sshPattern   = regexp.MustCompile(`git@github\.com:([^/]+)/(.+?)(?:\.git)?/?$`)
	httpsPattern = regexp.MustCompile(`https://github\.com/([^/]+)/(.+?)(?:\.git)?/?$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// PullRef names a single pull request, as in owner/repo#123.
type PullRef struct {
	Repo   string
	Number int
}

func (r PullRef) String() string {
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}

// ParseOwnerRepo extracts owner and repo from git remote origin
func ParseOwnerRepo() (string, string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git remote: %w", err)
	}

	return parseOwnerRepoFromURL(strings.TrimSpace(string(output)))
}

// parseOwnerRepoFromURL extracts owner and repo from a remote URL string
func parseOwnerRepoFromURL(url string) (string, string, error) {
	// Parse SSH format: git@github.com:owner/repo.git
	if matches := sshPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1], strings.TrimSuffix(matches[2], "/"), nil
	}

	// Parse HTTPS format: https://github.com/owner/repo or https://github.com/owner/repo.git
	if matches := httpsPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1], strings.TrimSuffix(matches[2], "/"), nil
	}

	return "", "", fmt.Errorf("unable to parse owner/repo from remote URL: %s", url)
}

// SplitRepo splits "owner/name".
func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || !namePattern.MatchString(owner) || !namePattern.MatchString(name) {
		return "", "", fmt.Errorf("invalid repository %q: want owner/name", repo)
	}
	return owner, name, nil
}

// ParsePullRef parses "owner/name#number".
func ParsePullRef(s string) (PullRef, error) {
	repo, num, ok := strings.Cut(s, "#")
	if !ok {
		return PullRef{}, fmt.Errorf("invalid pull request %q: want owner/name#number", s)
	}
	if _, _, err := SplitRepo(repo); err != nil {
		return PullRef{}, err
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return PullRef{}, fmt.Errorf("invalid pull request number in %q", s)
	}
	return PullRef{Repo: repo, Number: n}, nil
}
