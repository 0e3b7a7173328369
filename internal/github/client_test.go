// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-story/internal/errors"
)

// setupTestClient creates a httptest server and a client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient("test-token", server.URL, 5*time.Second, logger)
	require.NoError(t, err)

	return client
}

func TestClient_GetUser(t *testing.T) {
	t.Run("translates the profile", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"login": "octocat", "id": 583231, "avatar_url": "https://avatars.example/u/583231",
				"name": "The Octocat", "bio": null, "location": "San Francisco",
				"public_repos": 8, "followers": 100, "following": 9,
				"created_at": "2011-01-25T18:44:36Z"
			}`)
		})
		client := setupTestClient(t, handler)

		user, err := client.GetUser(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, "octocat", user.Login)
		assert.Equal(t, int64(583231), user.ID)
		require.NotNil(t, user.Name)
		assert.Equal(t, "The Octocat", *user.Name)
		assert.Nil(t, user.Bio)
		assert.Equal(t, 8, user.PublicRepos)
		assert.Equal(t, 100, user.Followers)
		assert.Equal(t, 9, user.Following)
		assert.Equal(t, 2011, user.CreatedAt.Year())
	})

	t.Run("empty username makes no request", func(t *testing.T) {
		var requestCount int32
		client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
		}))

		_, err := client.GetUser(context.Background(), "")

		assert.Equal(t, custom_errors.MissingInput, custom_errors.KindOf(err))
		assert.Zero(t, atomic.LoadInt32(&requestCount))
	})

	statusCases := []struct {
		name    string
		status  int
		headers map[string]string
		body    string
		want    custom_errors.Kind
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message": "Not Found"}`, want: custom_errors.NotFound},
		{name: "bad credentials", status: http.StatusUnauthorized, body: `{"message": "Bad credentials"}`, want: custom_errors.AuthFailed},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message": "Forbidden"}`, want: custom_errors.AuthFailed},
		{
			name:   "primary rate limit",
			status: http.StatusForbidden,
			headers: map[string]string{
				"X-RateLimit-Limit":     "5000",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
			},
			body: `{"message": "API rate limit exceeded"}`,
			want: custom_errors.RateLimited,
		},
		{name: "too many requests", status: http.StatusTooManyRequests, body: `{"message": "slow down"}`, want: custom_errors.RateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message": "boom"}`, want: custom_errors.Unknown},
	}
	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			var requestCount int32
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&requestCount, 1)
				for k, v := range tc.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				fmt.Fprintln(w, tc.body)
			})
			client := setupTestClient(t, handler)

			_, err := client.GetUser(context.Background(), "ghost")

			require.Error(t, err)
			assert.Equal(t, tc.want, custom_errors.KindOf(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount), "errors are never retried")
		})
	}
}

func TestClient_ListRepositories(t *testing.T) {
	t.Run("requests recently updated repositories", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/repos", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[
				{"id": 1, "name": "hello", "full_name": "octocat/hello", "owner": {"login": "octocat"},
				 "description": "hi", "html_url": "https://github.com/octocat/hello", "language": "Go",
				 "stargazers_count": 12, "forks_count": 3, "updated_at": "2024-05-01T10:00:00Z",
				 "languages_url": "https://api.github.com/repos/octocat/hello/languages"},
				{"id": 2, "name": "bare", "owner": {"login": "octocat"}, "language": null}
			]`)
		})
		client := setupTestClient(t, handler)

		repos, err := client.ListRepositories(context.Background(), "octocat", 0)

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "octocat", repos[0].Owner)
		assert.Equal(t, "octocat/hello", repos[0].FullName)
		assert.Equal(t, 12, repos[0].StarsCount)
		assert.Equal(t, 3, repos[0].ForksCount)
		require.NotNil(t, repos[0].Language)
		assert.Equal(t, "Go", *repos[0].Language)
		assert.Equal(t, "https://api.github.com/repos/octocat/hello/languages", repos[0].LanguagesURL)
		assert.Nil(t, repos[1].Language)
		assert.Nil(t, repos[1].Description)
	})

	t.Run("honours a smaller limit", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "30", r.URL.Query().Get("per_page"))
			fmt.Fprintln(w, `[]`)
		})
		client := setupTestClient(t, handler)

		repos, err := client.ListRepositories(context.Background(), "octocat", 30)

		require.NoError(t, err)
		assert.Empty(t, repos)
	})
}

func TestClient_GetLanguages(t *testing.T) {
	t.Run("returns the byte map", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octocat/hello/languages", r.URL.Path)
			fmt.Fprintln(w, `{"Go": 1200, "Makefile": 40}`)
		})
		client := setupTestClient(t, handler)

		langs, err := client.GetLanguages(context.Background(), "octocat", "hello")

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Go": 1200, "Makefile": 40}, langs)
	})

	t.Run("surfaces upstream failures", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		client := setupTestClient(t, handler)

		_, err := client.GetLanguages(context.Background(), "octocat", "hello")

		assert.Equal(t, custom_errors.Unknown, custom_errors.KindOf(err))
	})
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	_, err := NewClient("t", "://bad", time.Second, logger)
	assert.Error(t, err)
}
