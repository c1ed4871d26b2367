package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
)

func TestParseViewState(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/cards?search=foo&dir=DESC&filter%5Bregion%5D=US&filter%5Bregion%5D=EU&filter%5Bteam%5D=&filter%5B%5D=x&other=1", nil)

	state := parseViewState(r)

	assert.Equal(t, "foo", state.Search)
	assert.Equal(t, core.SortDesc, state.SortDirection)
	assert.Equal(t, map[string][]string{"region": {"US", "EU"}}, state.Filters)
}

func TestParseViewState_Empty(t *testing.T) {
	state := parseViewState(httptest.NewRequest(http.MethodGet, "/api/cards", nil))
	assert.True(t, state.IsZero())
	assert.Nil(t, state.Filters)
}

func TestParseDirection(t *testing.T) {
	tests := map[string]string{
		"asc":     core.SortAsc,
		" Desc ":  core.SortDesc,
		"":        "",
		"sideway": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseDirection(in), "input %q", in)
	}
}

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore(config.SessionConfig{MaxAge: time.Hour, Secure: true})
	require.NotNil(t, store.Options)
	assert.Equal(t, 3600, store.Options.MaxAge)
	assert.True(t, store.Options.Secure)
	assert.True(t, store.Options.HttpOnly)
}

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"), "limits are per client")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.allow("a"), "new window resets the count")
}

func TestRateLimiter_EvictStale(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(3 * time.Minute)
	rl.allow("b")
	rl.evictStale()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", clientIP(r))

	r.RemoteAddr = "10.0.0.2"
	assert.Equal(t, "10.0.0.2", clientIP(r))
}

func TestWantsJSON(t *testing.T) {
	api := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	assert.True(t, wantsJSON(api))

	page := httptest.NewRequest(http.MethodGet, "/cards/1", nil)
	assert.False(t, wantsJSON(page))

	page.Header.Set("Datastar-Request", "true")
	assert.True(t, wantsJSON(page))
}
