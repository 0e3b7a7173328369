// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-story/internal/errors"
	"github-story/internal/model"
)

// MaxPerPage is the largest page size the GitHub REST API accepts.
const MaxPerPage = 100

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client. An empty
// baseURL targets api.github.com.
func NewClient(token, baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout

	gh := github.NewClient(tc)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:     gh,
		logger: logger,
	}, nil
}

// GetUser fetches a user profile and translates it to our internal model.
func (c *Client) GetUser(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, custom_errors.NewMissingUsername()
	}
	c.logger.Debug("Fetching user", "username", username)

	user, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return nil, translateError(err)
	}
	return toInternalUser(user), nil
}

// ListRepositories fetches up to limit public repositories of a user, most
// recently updated first.
func (c *Client) ListRepositories(ctx context.Context, username string, limit int) ([]model.Repository, error) {
	if username == "" {
		return nil, custom_errors.NewMissingUsername()
	}
	if limit <= 0 || limit > MaxPerPage {
		limit = MaxPerPage
	}
	c.logger.Debug("Fetching repositories", "username", username, "limit", limit)

	opts := &github.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	}
	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, translateError(err)
	}

	result := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, toInternalRepository(r))
	}
	return result, nil
}

// GetLanguages fetches the language byte map of a repository.
func (c *Client) GetLanguages(ctx context.Context, owner, name string) (map[string]int, error) {
	langs, _, err := c.gh.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil, translateError(err)
	}
	return langs, nil
}

// translateError maps go-github failures onto the story error taxonomy.
func translateError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return custom_errors.NewRateLimited(err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return custom_errors.NewRateLimited(err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return custom_errors.NewNotFound(err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return custom_errors.NewAuthFailed(err)
		case http.StatusTooManyRequests:
			return custom_errors.NewRateLimited(err)
		}
	}
	return custom_errors.NewUnknown(err)
}

// toInternalUser translates a github.User object to our internal model.User.
func toInternalUser(u *github.User) *model.User {
	return &model.User{
		Login:       u.GetLogin(),
		ID:          u.GetID(),
		AvatarURL:   u.GetAvatarURL(),
		Name:        u.Name,
		Bio:         u.Bio,
		Location:    u.Location,
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:           r.GetID(),
		Owner:        r.GetOwner().GetLogin(),
		Name:         r.GetName(),
		FullName:     r.GetFullName(),
		Description:  r.Description,
		URL:          r.GetHTMLURL(),
		Language:     r.Language,
		StarsCount:   r.GetStargazersCount(),
		ForksCount:   r.GetForksCount(),
		UpdatedAt:    r.GetUpdatedAt().Time,
		LanguagesURL: r.GetLanguagesURL(),
	}
}
