package cli

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// mockRepoService serves pageCount full pages of generated repositories.
type mockRepoService struct {
	mu        sync.Mutex
	pageCount int
	fromCache bool
	err       error
	criteria  []domain.SearchCriteria
	userPages []int
}

func (m *mockRepoService) page(page, perPage int) domain.Page[domain.RepoSummary] {
	if page > m.pageCount {
		return domain.Page[domain.RepoSummary]{}
	}
	items := make([]domain.RepoSummary, perPage)
	for i := range items {
		n := (page-1)*perPage + i
		items[i] = domain.RepoSummary{
			Name:     fmt.Sprintf("repo-%d", n),
			FullName: fmt.Sprintf("octocat/repo-%d", n),
			Stars:    1000 - n,
			Language: "Go",
			Owner:    domain.Owner{Login: "octocat"},
		}
	}
	return domain.Page[domain.RepoSummary]{Items: items, FromCache: m.fromCache}
}

func (m *mockRepoService) Search(
	_ context.Context, criteria domain.SearchCriteria, page, perPage int,
) (domain.Page[domain.RepoSummary], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.criteria = append(m.criteria, criteria)
	if m.err != nil {
		return domain.Page[domain.RepoSummary]{}, m.err
	}
	return m.page(page, perPage), nil
}

func (m *mockRepoService) Hot(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	return m.Search(ctx, domain.SearchCriteria{Query: "hot"}, page, perPage)
}

func (m *mockRepoService) UserRepos(_ context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userPages = append(m.userPages, page)
	if m.err != nil {
		return domain.Page[domain.RepoSummary]{}, m.err
	}
	return m.page(page, perPage), nil
}

// mockRepoDetail flips the star flag on ToggleStar.
type mockRepoDetail struct {
	repo    domain.RepoSummary
	loadErr error
	toggles int
}

func (m *mockRepoDetail) Load(_ context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	if m.loadErr != nil {
		return domain.RepoSummary{}, m.loadErr
	}
	m.repo.Name = ref.Name
	m.repo.Owner.Login = ref.Owner
	m.repo.FullName = ref.String()
	return m.repo, nil
}

func (m *mockRepoDetail) ToggleStar(context.Context) (domain.RepoSummary, error) {
	m.toggles++
	m.repo.IsStarred = !m.repo.IsStarred
	return m.repo, nil
}

func (m *mockRepoDetail) Current() (domain.RepoSummary, bool) {
	return m.repo, true
}

// mockIssueService records the created draft.
type mockIssueService struct {
	ref   domain.RepoRef
	draft domain.IssueDraft
	err   error
}

func (m *mockIssueService) Create(
	_ context.Context, ref domain.RepoRef, draft domain.IssueDraft,
) (domain.IssueResult, error) {
	m.ref, m.draft = ref, draft
	if m.err != nil {
		return domain.IssueResult{}, m.err
	}
	if err := draft.Validate(); err != nil {
		return domain.IssueResult{}, err
	}
	return domain.IssueResult{
		Number: 7,
		Title:  draft.Title,
		URL:    "https://github.com/" + ref.String() + "/issues/7",
	}, nil
}

// mockSessionService holds a token in memory.
type mockSessionService struct {
	token      string
	profile    domain.UserProfile
	profileErr error
	loginErr   error
	logouts    int
}

func (m *mockSessionService) AuthCodeURL(state, _, redirectURI string) string {
	return "https://github.com/login/oauth/authorize?state=" + state + "&redirect_uri=" + redirectURI
}

func (m *mockSessionService) LoginWithCode(context.Context, string, string, string) error {
	return m.loginErr
}

func (m *mockSessionService) LoginWithToken(_ context.Context, token string) (domain.UserProfile, error) {
	if m.loginErr != nil {
		return domain.UserProfile{}, m.loginErr
	}
	m.token = token
	return m.profile, nil
}

func (m *mockSessionService) Logout(context.Context) error {
	m.logouts++
	m.token = ""
	return nil
}

func (m *mockSessionService) Profile(context.Context) (domain.UserProfile, error) {
	return m.profile, m.profileErr
}

func (m *mockSessionService) IsAuthenticated() bool {
	return m.token != ""
}

// mockSettingsService stores settings in memory.
type mockSettingsService struct {
	settings domain.Settings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() domain.Settings {
	return m.settings
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = map[string]string{}
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"api.url", "pagination.page_size"}
}

type testServices struct {
	repos    *mockRepoService
	detail   *mockRepoDetail
	issues   *mockIssueService
	session  *mockSessionService
	settings *mockSettingsService
}

// setupTestServices installs mocks and resets flag variables, which persist
// between executions of rootCmd.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		repos:    &mockRepoService{pageCount: 1},
		detail:   &mockRepoDetail{repo: domain.RepoSummary{Stars: 5, HTMLURL: "https://github.com/octocat/hello"}},
		issues:   &mockIssueService{},
		session:  &mockSessionService{profile: domain.UserProfile{Login: "octocat", Name: "The Octocat"}},
		settings: &mockSettingsService{settings: domain.DefaultSettings()},
	}
	SetServices(Services{
		Repos:     ts.repos,
		Issues:    ts.issues,
		Session:   ts.session,
		Settings:  ts.settings,
		NewDetail: func() driving.RepoDetail { return ts.detail },
	})

	searchLimit, searchSort, searchOrder, searchJSON = 30, "", domain.OrderDesc, false
	repoJSON = false
	issueTitle, issueBody = "", ""
	loginWithToken, loginNoBrowser = false, false

	t.Cleanup(func() { SetServices(Services{}) })
	return ts
}

// execute runs rootCmd with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
