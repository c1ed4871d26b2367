package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/web/templates"
)

// browseSignals are the client-side signals sent with every datastar request.
type browseSignals struct {
	Search string `json:"search"`
}

// handleIndex renders the browser page with the session's view state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Current()
	state := s.loadState(r, snap.Version)
	s.saveState(w, r, state, snap.Version)

	view := s.service.ViewOf(snap, state)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.BrowserPage(templates.BrowserData{View: view}).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render browser page", "error", err)
	}
}

// handleBrowseView applies a search, filter toggle, direction change or reset
// to the session state and patches the browser region.
func (s *Server) handleBrowseView(w http.ResponseWriter, r *http.Request) {
	// Signals must be read before the SSE writer takes over the response.
	var signals browseSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	// One snapshot for the whole request, so the saved state and the
	// rendered view agree on the version.
	snap := s.service.Current()
	state := s.loadState(r, snap.Version)

	q := r.URL.Query()
	toolbarChanged := false
	if q.Get("reset") != "" {
		state = core.ViewState{}
		toolbarChanged = true
	}
	state.Search = signals.Search
	if dir := parseDirection(q.Get("dir")); dir != "" {
		state.SortDirection = dir
		toolbarChanged = true
	}
	if key := q.Get("toggle"); key != "" {
		state = state.ToggleFilter(key, q.Get("value"))
	}

	s.saveState(w, r, state, snap.Version)

	sse := datastar.NewSSE(w, r)
	data := templates.BrowserData{View: s.service.ViewOf(snap, state)}
	if toolbarChanged {
		if err := sse.PatchElementTempl(templates.Toolbar(data)); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
	if err := sse.PatchElementTempl(templates.Browser(data)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// handleBrowseUpdates is the long-lived stream that re-renders the browser
// whenever a data-update publishes a new snapshot. A new snapshot resets the
// view state, so the stream clears the search signal and renders unfiltered.
// The stream ends with the request or when the server shuts down.
func (s *Server) handleBrowseUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.service.Subscribe()
	defer s.service.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case version, ok := <-updates:
			if !ok {
				return
			}
			logging.FromContext(ctx).Debug("pushing snapshot to browser", "version", version)

			data := templates.BrowserData{View: s.service.View(core.ViewState{})}
			if err := sse.MarshalAndPatchSignals(browseSignals{}); err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(templates.Toolbar(data)); err != nil {
				_ = sse.ConsoleError(err)
			}
			if err := sse.PatchElementTempl(templates.Browser(data)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// handleBrowseExport downloads the session's current view as CSV.
func (s *Server) handleBrowseExport(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Current()
	s.exportView(w, r, snap, s.loadState(r, snap.Version))
}

// handleReader renders the detail page of one card.
func (s *Server) handleReader(w http.ResponseWriter, r *http.Request) {
	card, ok := s.service.Card(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, r, core.ErrCardNotFound, http.StatusNotFound)
		return
	}

	settings := s.service.Current().Settings
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ReaderPage(card, settings).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render reader", "error", err)
	}
}
