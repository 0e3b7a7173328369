// internal/story/story.go
package story

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github-story/internal/activity"
	"github-story/internal/aggregate"
	custom_errors "github-story/internal/errors"
	"github-story/internal/metrics"
	"github-story/internal/model"
)

// Fetcher builds a story for a username.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*model.Story, error)
}

// GitHubAPI is the subset of the GitHub client the live fetcher needs.
type GitHubAPI interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
	ListRepositories(ctx context.Context, username string, limit int) ([]model.Repository, error)
	GetLanguages(ctx context.Context, owner, name string) (map[string]int, error)
}

// Options bounds the work done per story.
type Options struct {
	RepoLimit   int
	SampleSize  int
	Concurrency int
}

// Live fetches real profile and repository data from GitHub.
type Live struct {
	api      GitHubAPI
	activity activity.Generator
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options
}

// NewLive creates a Live fetcher.
func NewLive(api GitHubAPI, gen activity.Generator, m *metrics.Metrics, logger *slog.Logger, opts Options) *Live {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Live{
		api:      api,
		activity: gen,
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// Fetch implements Fetcher.
func (l *Live) Fetch(ctx context.Context, username string) (*model.Story, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, custom_errors.NewMissingUsername()
	}
	logger := l.logger.With("username", username)

	user, err := l.api.GetUser(ctx, username)
	l.metrics.ObserveUpstream("user", err)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	repos, err := l.api.ListRepositories(ctx, username, l.opts.RepoLimit)
	l.metrics.ObserveUpstream("repos", err)
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}
	logger.Info("Fetched repositories", "count", len(repos))

	sample := sampleRepositories(repos, l.opts.SampleSize)
	languageMaps, err := l.collectLanguages(ctx, logger, sample)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Summarize(repos, languageMaps)
	story := &model.Story{
		User: *user,
		Stats: model.Stats{
			PublicRepos:    user.PublicRepos,
			TotalStars:     summary.TotalStars,
			TotalForks:     summary.TotalForks,
			LanguagesCount: summary.LanguagesCount,
		},
		TopRepos:       summary.TopRepos,
		Languages:      summary.Languages,
		CommitActivity: l.activity.Generate(),
	}

	if err := story.Validate(); err != nil {
		return nil, custom_errors.NewUnknown(fmt.Errorf("invalid story payload: %w", err))
	}
	return story, nil
}

// collectLanguages fetches the language maps of the sampled repositories.
// A failed fetch is logged and skipped. Results keep the sample order.
func (l *Live) collectLanguages(ctx context.Context, logger *slog.Logger, sample []model.Repository) ([]map[string]int, error) {
	slots := make([]map[string]int, len(sample))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, repo := range sample {
		if repo.LanguagesURL == "" {
			continue
		}
		g.Go(func() error {
			langs, err := l.api.GetLanguages(gctx, repo.Owner, repo.Name)
			l.metrics.ObserveUpstream("languages", err)
			if err != nil {
				l.metrics.LanguageFetchFailed()
				logger.Warn("Failed to fetch languages", "repo", repo.Name, "error", err)
				return nil
			}
			slots[i] = langs
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, custom_errors.NewUnknown(err)
	}

	maps := make([]map[string]int, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			maps = append(maps, m)
		}
	}
	return maps, nil
}

// sampleRepositories picks the repositories whose language maps are fetched:
// the first n of the star ranking.
func sampleRepositories(repos []model.Repository, n int) []model.Repository {
	ranked := aggregate.RankByStars(repos)
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Unavailable is selected when no access token is configured. Every fetch
// fails with AuthRequired and no upstream call is made.
type Unavailable struct{}

// Fetch implements Fetcher.
func (Unavailable) Fetch(ctx context.Context, username string) (*model.Story, error) {
	if strings.TrimSpace(username) == "" {
		return nil, custom_errors.NewMissingUsername()
	}
	return nil, custom_errors.NewAuthRequired()
}
