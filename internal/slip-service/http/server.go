package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/session"
)

// ExportHistory consulta exportações já gravadas (Postgres)
type ExportHistory interface {
	List(ctx context.Context, limit int) ([]export.Record, error)
	Content(ctx context.Context, id string) (string, []byte, error)
}

// API expõe o pipeline de geração do boletim por sessão
type API struct {
	Sessions    *session.Manager
	Exporter    session.Exporter
	History     ExportHistory // opcional
	WS          http.Handler  // opcional, servido em /ws
	Location    *time.Location
	CORSOrigins []string
	Log         *zap.Logger
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", a.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", a.deleteSession)

			r.Post("/matches:fetch", a.withSession(a.fetchMatches))
			r.Get("/matches", a.withSession(a.listMatches))
			r.Put("/match", a.withSession(a.selectMatch))
			r.Post("/odds:fetch", a.withSession(a.fetchOdds))
			r.Get("/markets", a.withSession(a.listMarkets))
			r.Post("/selection", a.withSession(a.addMarket))
			r.Get("/table", a.withSession(a.table))

			r.Get("/preview", a.withSession(a.getPreview))
			r.Post("/preview", a.withSession(a.openPreview))
			r.Delete("/preview", a.withSession(a.hidePreview))
			r.Put("/preview/edit-mode", a.withSession(a.setEditMode))
			r.Patch("/preview/cells", a.withSession(a.setCell))
			r.Post("/preview/commit", a.withSession(a.commitPreview))

			r.Get("/export", a.withSession(a.export))
			r.Post("/reset", a.withSession(a.reset))
			r.Get("/stats", a.withSession(a.stats))
		})
	})

	if a.History != nil {
		r.Get("/v1/exports", a.listExports)
		r.Get("/v1/exports/{exportID}", a.downloadExport)
	}
	if a.WS != nil {
		r.Handle("/ws", a.WS)
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor traduz os erros da sessão em status HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrNoPreview),
		errors.Is(err, session.ErrNotEditing):
		return http.StatusConflict
	case errors.Is(err, session.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrNoMatchSelected),
		errors.Is(err, session.ErrNothingSelected),
		errors.Is(err, session.ErrReadOnlyRow),
		errors.Is(err, export.ErrNoRows):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		a.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *session.Session)

// withSession resolve o {id} da rota e responde 404 se a sessão não existe
func (a *API) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		h(w, r, s)
	}
}

func (a *API) createSession(w http.ResponseWriter, _ *http.Request) {
	s := a.Sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.ID})
}

func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) exportLimit(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}

func (a *API) listExports(w http.ResponseWriter, r *http.Request) {
	recs, err := a.History.List(r.Context(), a.exportLimit(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": recs})
}

func (a *API) downloadExport(w http.ResponseWriter, r *http.Request) {
	filename, content, err := a.History.Content(r.Context(), chi.URLParam(r, "exportID"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeCSV(w, filename, content)
}

func writeCSV(w http.ResponseWriter, filename string, content []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
