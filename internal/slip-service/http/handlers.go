package httpapi

import (
	"net/http"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/session"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
)

// matchView acrescenta o rótulo de exibição "<nome> - <data>"
type matchView struct {
	market.Match
	Label string `json:"label"`
}

func (a *API) matchViews(ms []market.Match) []matchView {
	out := make([]matchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, matchView{Match: m, Label: m.DisplayLabel(a.Location)})
	}
	return out
}

func (a *API) fetchMatches(w http.ResponseWriter, r *http.Request, s *session.Session) {
	ms, err := s.FetchMatches(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": a.matchViews(ms)})
}

func (a *API) listMatches(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"matches": a.matchViews(s.Matches())})
}

type selectMatchRequest struct {
	MatchID int64 `json:"matchId"`
}

func (a *API) selectMatch(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req selectMatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"selected": s.SelectMatch(req.MatchID)})
}

func (a *API) fetchOdds(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if _, err := s.FetchOdds(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": s.Markets()})
}

func (a *API) listMarkets(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"groups": s.Markets()})
}

type addMarketRequest struct {
	MarketID int64 `json:"marketId"`
}

func (a *API) addMarket(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req addMarketRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	added := s.AddMarket(req.MarketID)
	writeJSON(w, http.StatusOK, map[string]any{
		"added":       added,
		"marketCount": s.Stats().MarketCount,
	})
}

func (a *API) table(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"rows": nonNil(s.Table())})
}

func (a *API) getPreview(w http.ResponseWriter, r *http.Request, s *session.Session) {
	rows, ok := s.Preview()
	if !ok {
		a.fail(w, r, session.ErrNoPreview)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "editMode": s.Stats().EditMode})
}

func (a *API) openPreview(w http.ResponseWriter, r *http.Request, s *session.Session) {
	rows, err := s.OpenPreview()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "editMode": false})
}

func (a *API) hidePreview(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	s.HidePreview()
	w.WriteHeader(http.StatusNoContent)
}

type editModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (a *API) setEditMode(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req editModeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.SetEditMode(req.Enabled); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"editMode": req.Enabled})
}

// setCellRequest identifica a coluna pelo rótulo ("1", "Line", "GR") ou pela chave ("one")
type setCellRequest struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (a *API) setCell(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req setCellRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	col, err := slip.ParseColumn(req.Column)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.SetCell(req.Row, col, req.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (a *API) commitPreview(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := s.CommitPreview(); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) export(w http.ResponseWriter, r *http.Request, s *session.Session) {
	res, err := s.Export(r.Context(), a.Exporter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("X-Export-Id", res.ExportID)
	writeCSV(w, res.Filename, res.Content)
}

func (a *API) reset(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	s.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) stats(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeJSON(w, http.StatusOK, s.Stats())
}

func nonNil(rows []slip.Row) []slip.Row {
	if rows == nil {
		return []slip.Row{}
	}
	return rows
}
