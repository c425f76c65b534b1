package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/octoscope/internal/adapters/driven/pipeline"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/services"
)

const repoJSON = `{
	"name": "hello-world",
	"full_name": "octocat/hello-world",
	"description": "My first repository",
	"stargazers_count": 80,
	"forks_count": 9,
	"open_issues_count": 2,
	"language": "Go",
	"updated_at": "2024-04-01T10:00:00Z",
	"html_url": "https://github.com/octocat/hello-world",
	"owner": {"login": "octocat", "avatar_url": "https://avatars.example/octocat"}
}`

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(server.Client(), server.URL)
	require.NoError(t, err)
	return client
}

var hello = domain.RepoRef{Owner: "octocat", Name: "hello-world"}

func TestNewClient(t *testing.T) {
	t.Run("defaults to api.github.com", func(t *testing.T) {
		client, err := NewClient(nil, "")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultAPIBaseURL, client.BaseURL())
	})

	t.Run("adds trailing slash to base URL", func(t *testing.T) {
		client, err := NewClient(nil, "https://ghe.example.com/api/v3")
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", client.BaseURL())
	})

	t.Run("rejects malformed base URL", func(t *testing.T) {
		_, err := NewClient(nil, "://bad")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("sets default timeout", func(t *testing.T) {
		httpClient := &http.Client{}
		_, err := NewClient(httpClient, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, httpClient.Timeout)
	})
}

func TestClient_SearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "android", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "30", q.Get("per_page"))
		fmt.Fprintf(w, `{"total_count": 1, "items": [%s]}`, repoJSON)
	})
	client := newTestClient(t, mux)

	page, err := client.SearchRepositories(context.Background(),
		domain.SearchCriteria{Query: "android", Sort: domain.SortStars, Order: domain.OrderDesc}, 2, 30)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.FromCache)

	repo := page.Items[0]
	assert.Equal(t, "hello-world", repo.Name)
	assert.Equal(t, "octocat/hello-world", repo.FullName)
	assert.Equal(t, "My first repository", repo.Description)
	assert.Equal(t, 80, repo.Stars)
	assert.Equal(t, 9, repo.Forks)
	assert.Equal(t, 2, repo.OpenIssues)
	assert.Equal(t, "Go", repo.Language)
	assert.Equal(t, time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC), repo.UpdatedAt.UTC())
	assert.Equal(t, "https://github.com/octocat/hello-world", repo.HTMLURL)
	assert.Equal(t, "octocat", repo.Owner.Login)
	assert.Equal(t, "https://avatars.example/octocat", repo.Owner.AvatarURL)
	assert.False(t, repo.IsStarred)
}

func TestClient_SearchRepositories_EmptyPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total_count": 60, "items": []}`)
	})
	client := newTestClient(t, mux)

	page, err := client.SearchRepositories(context.Background(), domain.SearchCriteria{Query: "android"}, 3, 30)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestClient_SearchRepositories_ThroughPipeline(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("If-None-Match") == `"abc"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		fmt.Fprintf(w, `{"total_count": 1, "items": [%s]}`, repoJSON)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := pipeline.New(
		pipeline.WithETagStore(memory.NewETagStore()),
		pipeline.WithResponseStore(memory.NewResponseStore()),
		pipeline.WithMaxAge(0),
	)
	client, err := NewClient(p.Client(), server.URL)
	require.NoError(t, err)

	criteria := domain.SearchCriteria{Query: "android"}
	first, err := client.SearchRepositories(context.Background(), criteria, 1, 30)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := client.SearchRepositories(context.Background(), criteria, 1, 30)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, 2, calls)
}

func TestClient_GetRepository(t *testing.T) {
	t.Run("maps repository", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/octocat/hello-world", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, repoJSON)
		})
		client := newTestClient(t, mux)

		repo, err := client.GetRepository(context.Background(), hello)
		require.NoError(t, err)
		assert.Equal(t, "octocat/hello-world", repo.FullName)
		assert.Equal(t, hello, repo.Ref())
	})

	t.Run("404 is not found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/octocat/missing", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		})
		client := newTestClient(t, mux)

		_, err := client.GetRepository(context.Background(), domain.RepoRef{Owner: "octocat", Name: "missing"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		var apiErr *domain.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Not Found", apiErr.Message)
	})
}

func TestClient_IsStarred(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr error
	}{
		{"204 is starred", http.StatusNoContent, true, nil},
		{"404 is not starred", http.StatusNotFound, false, nil},
		{"401 is an auth error", http.StatusUnauthorized, false, domain.ErrAuth},
		{"500 is a server error", http.StatusInternalServerError, false, domain.ErrServer},
		{"200 is a server error", http.StatusOK, false, domain.ErrServer},
		{"202 is a server error", http.StatusAccepted, false, domain.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /user/starred/octocat/hello-world", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			client := newTestClient(t, mux)

			starred, err := client.IsStarred(context.Background(), hello)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, starred)
				var apiErr *domain.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, starred)
		})
	}
}

func TestClient_StarUnstar(t *testing.T) {
	var methods []string
	mux := http.NewServeMux()
	mux.HandleFunc("/user/starred/octocat/hello-world", func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.Star(context.Background(), hello))
	require.NoError(t, client.Unstar(context.Background(), hello))
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}

func TestClient_Star_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /user/starred/octocat/hello-world", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "Resource not accessible by integration"}`)
	})
	client := newTestClient(t, mux)

	err := client.Star(context.Background(), hello)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestClient_CreateIssue(t *testing.T) {
	t.Run("sends title and body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /repos/octocat/hello-world/issues", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Crash on start", body["title"])
			assert.Equal(t, "Steps to reproduce", body["body"])

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": 1, "number": 42, "title": "Crash on start", "body": "Steps to reproduce",
				"state": "open", "html_url": "https://github.com/octocat/hello-world/issues/42"}`)
		})
		client := newTestClient(t, mux)

		issue, err := client.CreateIssue(context.Background(), hello,
			domain.IssueDraft{Title: "Crash on start", Body: "Steps to reproduce"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), issue.ID)
		assert.Equal(t, 42, issue.Number)
		assert.Equal(t, "open", issue.State)
		assert.Equal(t, "https://github.com/octocat/hello-world/issues/42", issue.URL)
	})

	t.Run("omits empty body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /repos/octocat/hello-world/issues", func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			assert.NotContains(t, string(raw), `"body"`)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"number": 1, "title": "t"}`)
		})
		client := newTestClient(t, mux)

		_, err := client.CreateIssue(context.Background(), hello, domain.IssueDraft{Title: "t"})
		require.NoError(t, err)
	})

	t.Run("422 is a validation error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /repos/octocat/hello-world/issues", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message": "Validation Failed"}`)
		})
		client := newTestClient(t, mux)

		_, err := client.CreateIssue(context.Background(), hello, domain.IssueDraft{Title: "t"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestClient_AuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login": "octocat", "name": "The Octocat", "bio": "cat",
			"public_repos": 8, "followers": 100, "following": 9}`)
	})
	client := newTestClient(t, mux)

	user, err := client.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{
		Login:       "octocat",
		Name:        "The Octocat",
		Bio:         "cat",
		PublicRepos: 8,
		Followers:   100,
		Following:   9,
	}, user)
}

func TestClient_AuthenticatedUser_BadCredentialsClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tokens := services.NewTokenStore(nil, nil)
	require.NoError(t, tokens.Save(context.Background(), "revoked"))

	client, err := NewClient(pipeline.New(pipeline.WithTokenSource(tokens)).Client(), server.URL)
	require.NoError(t, err)

	_, err = client.AuthenticatedUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuth)

	_, ok := tokens.Get()
	assert.False(t, ok)
}

func TestClient_ListUserRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("direction"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "50", q.Get("per_page"))
		fmt.Fprintf(w, `[%s]`, repoJSON)
	})
	client := newTestClient(t, mux)

	page, err := client.ListUserRepositories(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello-world", page.Items[0].Name)
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, wrapError(nil, "op"))
	})

	t.Run("transport errors keep their kind", func(t *testing.T) {
		err := wrapError(&pipeline.TransportError{Method: "GET", URL: "u", Err: errors.New("refused")}, "op")
		assert.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "op")
	})

	t.Run("context cancellation is preserved", func(t *testing.T) {
		err := wrapError(context.Canceled, "op")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown errors are server errors", func(t *testing.T) {
		err := wrapError(errors.New("unexpected end of JSON input"), "op")
		assert.ErrorIs(t, err, domain.ErrServer)
	})
}
