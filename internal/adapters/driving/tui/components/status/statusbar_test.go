package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    []string
		notWant []string
	}{
		{
			name:  "ready",
			setup: func(*Bar) {},
			want:  []string{"anonymous", "Ready", "enter: search"},
		},
		{
			name:  "loading",
			setup: func(b *Bar) { b.SetState(StateLoading) },
			want:  []string{"Loading..."},
		},
		{
			name: "results",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetCount(42)
			},
			want: []string{"42 repositories", "h: hot"},
		},
		{
			name: "error",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("network error")
			},
			want: []string{"Error: network error", "r: retry"},
		},
		{
			name: "detail while logged in",
			setup: func(b *Bar) {
				b.SetState(StateDetail)
				b.SetLoggedIn(true)
				b.SetMessage("Starred octocat/hello")
			},
			want:    []string{"logged in", "Starred octocat/hello", "s: star"},
			notWant: []string{"anonymous"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, view, w)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCount(3)
	bar.SetLoggedIn(true)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Count())
	assert.Contains(t, bar.View(), "logged in")
}
