package web

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
)

const (
	sessionName       = "cardbrowser"
	sessionKeyState   = "view"
	sessionKeyVersion = "version"
)

// NewSessionStore builds the cookie store holding each browser's view state.
// Without a configured secret a random key is used, so sessions do not
// survive a restart.
func NewSessionStore(cfg config.SessionConfig) *sessions.CookieStore {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("session key: " + err.Error())
		}
		slog.Warn("SESSION_SECRET not set; using a random key")
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// loadState returns the session's view state for the given snapshot
// version. State saved against another version is discarded.
func (s *Server) loadState(r *http.Request, version string) core.ViewState {
	// Get returns a fresh session when the cookie is missing or invalid.
	sess, _ := s.sessions.Get(r, sessionName)

	if saved, _ := sess.Values[sessionKeyVersion].(string); saved != version {
		return core.ViewState{}
	}
	raw, _ := sess.Values[sessionKeyState].(string)
	if raw == "" {
		return core.ViewState{}
	}

	var state core.ViewState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return core.ViewState{}
	}
	return state
}

// saveState stores state for version in the session cookie. It must run
// before anything is written to w.
func (s *Server) saveState(w http.ResponseWriter, r *http.Request, state core.ViewState, version string) {
	sess, _ := s.sessions.Get(r, sessionName)

	data, err := json.Marshal(state)
	if err != nil {
		slog.Warn("encode view state", "error", err)
		return
	}
	sess.Values[sessionKeyState] = string(data)
	sess.Values[sessionKeyVersion] = version

	if err := sess.Save(r, w); err != nil {
		slog.Warn("save session", "error", err)
	}
}

// parseViewState reads a view state from API query parameters:
// search=term, filter[key]=value (repeatable, OR within a key) and dir.
func parseViewState(r *http.Request) core.ViewState {
	q := r.URL.Query()
	state := core.ViewState{
		Search:        q.Get("search"),
		SortDirection: parseDirection(q.Get("dir")),
	}

	for key, values := range q {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := key[len("filter[") : len(key)-1]
		if name == "" {
			continue
		}
		for _, v := range values {
			if v == "" {
				continue
			}
			if state.Filters == nil {
				state.Filters = make(map[string][]string)
			}
			state.Filters[name] = append(state.Filters[name], v)
		}
	}
	return state
}

// parseDirection returns "asc" or "desc", or "" for anything else.
func parseDirection(dir string) string {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case core.SortAsc:
		return core.SortAsc
	case core.SortDesc:
		return core.SortDesc
	default:
		return ""
	}
}
