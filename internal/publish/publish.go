// Package publish pushes the rendered listing artifact to a hosted page.
// Publication failure never rolls back locally persisted state; the next run
// simply retries with the then-current set.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// Publisher delivers one artifact revision.
type Publisher interface {
	Publish(ctx context.Context, content []byte, message string) error
}

// Nop is used when no publish target is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, content []byte, message string) error {
	return nil
}

// GitHub publishes by creating or updating a single file on a branch of a
// repository, the gh-pages pattern.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	path   string
}

// NewGitHub builds a publisher for owner/repo. repoSlug is "owner/name".
func NewGitHub(token string, repoSlug string, branch string, path string) (*GitHub, error) {
	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("publish repo must be owner/name, got %q", repoSlug)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("publish token is required")
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)

	return &GitHub{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		branch: branch,
		path:   path,
	}, nil
}

func (g *GitHub) Publish(ctx context.Context, content []byte, message string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(g.branch),
	}

	existing, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, g.path, &github.RepositoryContentGetOptions{
		Ref: g.branch,
	})
	if err == nil && existing != nil {
		opts.SHA = existing.SHA
		if _, _, err := g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, g.path, opts); err != nil {
			return fmt.Errorf("update %s: %w", g.path, err)
		}
		return nil
	}

	if _, _, err := g.client.Repositories.CreateFile(ctx, g.owner, g.repo, g.path, opts); err != nil {
		return fmt.Errorf("create %s: %w", g.path, err)
	}
	return nil
}
