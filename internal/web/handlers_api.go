package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/source"
)

// UpdateResponse acknowledges a data-update.
type UpdateResponse struct {
	Version string   `json:"version"`
	Cards   int      `json:"cards"`
	Missing []string `json:"missingColumns,omitempty"`
	Warning string   `json:"warning,omitempty"`
}

// ColumnsResponse reports how the current result set was resolved.
type ColumnsResponse struct {
	Version    string          `json:"version"`
	Resolution core.Resolution `json:"resolution"`
	Missing    []string        `json:"missingColumns"`
}

// handleUpdate applies a data-update posted by the host.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	format, err := source.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, r, err, http.StatusUnsupportedMediaType)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.Browser.MaxUpdateSize)
	payload, err := source.DecodePayload(body, format)
	if err != nil {
		status, err := decodeStatus(err)
		respondError(w, r, err, status)
		return
	}

	resp := UpdateResponse{}
	settings, err := payload.ParsedSettings()
	if err != nil {
		logging.FromContext(r.Context()).Warn("settings fell back to defaults", "error", err)
		resp.Warning = core.FormatUserError(err)
	}

	snap := s.service.Update(r.Context(), payload.ResultSet(), settings)

	resp.Version = snap.Version
	resp.Cards = snap.Dataset.Len()
	resp.Missing = snap.Resolution.Missing(s.service.Names())
	writeJSON(w, resp)
}

// handleCards returns the filtered view for the query's search, filters and direction.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.View(parseViewState(r)))
}

// handleCard returns one card by id.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	card, ok := s.service.Card(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, r, core.ErrCardNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, card)
}

// handleFacets lists metadata keys and values over the whole snapshot.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Current()
	writeJSON(w, core.Facets(snap.Dataset.Cards, s.service.Locale()))
}

func (s *Server) handleFormattingModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Current().Settings.FormattingModel())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Current().Settings.Serialize())
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Current()
	writeJSON(w, ColumnsResponse{
		Version:    snap.Version,
		Resolution: snap.Resolution,
		Missing:    snap.Resolution.Missing(s.service.Names()),
	})
}

// handleExport streams the filtered view as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.exportView(w, r, s.service.Current(), parseViewState(r))
}

func (s *Server) exportView(w http.ResponseWriter, r *http.Request, snap *core.Snapshot, state core.ViewState) {
	view := s.service.ViewOf(snap, state)
	if !view.Settings.Card.EnableExport {
		respondError(w, r, core.ErrExportDisabled, http.StatusNotFound)
		return
	}

	filename := fmt.Sprintf("cards_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := core.WriteCSV(w, view.Cards); err != nil {
		// Headers are sent; all that is left is to log.
		logging.FromContext(r.Context()).Error("export failed", "error", err, "version", view.Version)
	}
}

// handleHealth reports liveness and the published snapshot.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Current()
	writeJSON(w, map[string]any{
		"status":    "ok",
		"version":   snap.Version,
		"cards":     snap.Dataset.Len(),
		"updatedAt": snap.UpdatedAt,
	})
}
