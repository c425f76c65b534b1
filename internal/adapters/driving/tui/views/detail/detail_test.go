package detail

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/octoscope/internal/core/domain"
)

type fakeDetail struct {
	repo      domain.RepoSummary
	loadErr   error
	toggleErr error
	loads     []domain.RepoRef
	toggles   int
}

func (f *fakeDetail) Load(_ context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	f.loads = append(f.loads, ref)
	if f.loadErr != nil {
		return domain.RepoSummary{}, f.loadErr
	}
	return f.repo, nil
}

func (f *fakeDetail) ToggleStar(context.Context) (domain.RepoSummary, error) {
	f.toggles++
	if f.toggleErr != nil {
		return f.repo, f.toggleErr
	}
	f.repo.IsStarred = !f.repo.IsStarred
	return f.repo, nil
}

func (f *fakeDetail) Current() (domain.RepoSummary, bool) {
	return f.repo, true
}

func hello() domain.RepoSummary {
	return domain.RepoSummary{
		Name:        "hello",
		FullName:    "octocat/hello",
		Description: "Hello world",
		Stars:       12,
		Language:    "Go",
		HTMLURL:     "https://github.com/octocat/hello",
		Owner:       domain.Owner{Login: "octocat"},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loggedIn(v *View) {
	v.Update(messages.SessionChanged{State: domain.TokenState{Token: "t", Present: true}})
}

func TestView_ShowLoadsRepository(t *testing.T) {
	full := hello()
	full.IsStarred = true
	full.Stars = 13
	fake := &fakeDetail{repo: full}
	v := NewView(nil, nil, fake, nil)
	loggedIn(v)

	cmd := v.Show(hello())
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "checking star")
	assert.Contains(t, v.View(), "Hello world")

	msg := cmd()
	assert.Equal(t, []domain.RepoRef{{Owner: "octocat", Name: "hello"}}, fake.loads)

	v.Update(msg)
	assert.False(t, v.Loading())
	assert.True(t, v.Repo().IsStarred)
	assert.Contains(t, v.View(), "★ starred")
	assert.Contains(t, v.View(), "13")
}

func TestView_AnonymousHidesStarState(t *testing.T) {
	fake := &fakeDetail{repo: hello()}
	v := NewView(nil, nil, fake, nil)

	v.Update(v.Show(hello())())

	assert.NotContains(t, v.View(), "starred")

	_, cmd := v.Update(key("s"))
	assert.Nil(t, cmd)
	assert.Zero(t, fake.toggles)
	assert.Contains(t, v.Status().Message(), "log in")
}

func TestView_StaleLoadIgnored(t *testing.T) {
	fake := &fakeDetail{repo: hello()}
	v := NewView(nil, nil, fake, nil)
	v.Show(hello())

	other := domain.RepoSummary{Name: "other", FullName: "octocat/other", Owner: domain.Owner{Login: "octocat"}}
	v.Show(other)
	v.Update(messages.DetailLoaded{Ref: domain.RepoRef{Owner: "octocat", Name: "hello"}, Repo: hello()})

	assert.True(t, v.Loading())
	assert.Equal(t, "octocat/other", v.Repo().FullName)
}

func TestView_LoadError(t *testing.T) {
	fake := &fakeDetail{loadErr: domain.ErrNotFound}
	v := NewView(nil, nil, fake, nil)

	v.Update(v.Show(hello())())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "not found")

	fake.loadErr = nil
	fake.repo = hello()
	_, cmd := v.Update(key("r"))
	require.NotNil(t, cmd)
	v.Update(cmd())
	assert.NoError(t, v.Err())
	assert.Len(t, fake.loads, 2)
}

func TestView_ToggleStar(t *testing.T) {
	fake := &fakeDetail{repo: hello()}
	v := NewView(nil, nil, fake, nil)
	loggedIn(v)
	v.Update(v.Show(hello())())

	_, cmd := v.Update(key("s"))
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "updating")

	// A second press while the request is in flight is ignored.
	_, again := v.Update(key("s"))
	assert.Nil(t, again)

	v.Update(cmd())
	assert.Equal(t, 1, fake.toggles)
	assert.True(t, v.Repo().IsStarred)
	assert.Equal(t, "Starred octocat/hello", v.Status().Message())
}

func TestView_ToggleStarError(t *testing.T) {
	fake := &fakeDetail{repo: hello(), toggleErr: domain.ErrRateLimited}
	v := NewView(nil, nil, fake, nil)
	loggedIn(v)
	v.Update(v.Show(hello())())

	_, cmd := v.Update(key("s"))
	v.Update(cmd())

	assert.False(t, v.Repo().IsStarred)
	assert.Contains(t, v.Status().Message(), "rate limit")
}

func TestView_Open(t *testing.T) {
	var opened string
	v := NewView(nil, nil, &fakeDetail{repo: hello()}, func(url string) error {
		opened = url
		return nil
	})
	v.Show(hello())

	v.Update(key("o"))
	assert.Equal(t, "https://github.com/octocat/hello", opened)

	v = NewView(nil, nil, &fakeDetail{}, func(string) error { return errors.New("no display") })
	v.Show(hello())
	v.Update(key("o"))
	assert.Contains(t, v.Status().Message(), "no display")
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, nil, &fakeDetail{}, nil)

	tests := []struct {
		key  tea.KeyMsg
		want tea.Msg
	}{
		{tea.KeyMsg{Type: tea.KeyEsc}, messages.ViewChanged{View: messages.ViewSearch}},
		{key("?"), messages.ViewChanged{View: messages.ViewHelp}},
		{key("q"), messages.Quit{}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			_, cmd := v.Update(tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}
