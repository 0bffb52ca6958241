package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v58/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/fini-net/gh-batch-review/internal/logger"
)

// GetToken retrieves the GitHub token from GITHUB_TOKEN env var or gh CLI
func GetToken() (string, error) {
	// Try GITHUB_TOKEN env var first
	token := os.Getenv("GITHUB_TOKEN")

	// Fall back to gh CLI
	if token == "" {
		cmd := exec.Command("gh", "auth", "token")
		output, err := cmd.Output()
		if err == nil {
			token = strings.TrimSpace(string(output))
		}
	}

	if token == "" {
		return "", fmt.Errorf("authentication failed: set GITHUB_TOKEN or run `gh auth login`")
	}

	return token, nil
}

// Client talks to GitHub over REST (reviews, users) and GraphQL (pull listing).
type Client struct {
	rest *github.Client
	gql  *githubv4.Client
	log  *logger.Logger
}

// NewClient creates a client authenticated with token. A non-empty baseURL
// points both APIs at a GitHub Enterprise Server.
func NewClient(ctx context.Context, token, baseURL string, log *logger.Logger) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return newClient(oauth2.NewClient(ctx, ts), baseURL, log)
}

func newClient(httpClient *http.Client, baseURL string, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}

	rest := github.NewClient(httpClient)
	gql := githubv4.NewClient(httpClient)

	if baseURL != "" {
		var err error
		rest, err = rest.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
		}
		gql = githubv4.NewEnterpriseClient(graphqlURL(baseURL), httpClient)
	}

	return &Client{rest: rest, gql: gql, log: log.Component("github")}, nil
}

// graphqlURL derives the Enterprise GraphQL endpoint from the REST base URL.
func graphqlURL(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	base = strings.TrimSuffix(base, "/api/v3")
	return base + "/api/graphql"
}
