package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/session"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
)

type stubSource struct{ err error }

func (s stubSource) ListMatches(context.Context) ([]market.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []market.Match{{
		ID:       1021,
		Name:     "Jon Jones - Stipe Miocic",
		HomeName: "Jon Jones",
		AwayName: "Stipe Miocic",
		Start:    time.Date(2024, 11, 16, 3, 0, 0, 0, time.UTC),
	}}, nil
}

func (s stubSource) MatchMarkets(context.Context, int64) ([]market.Market, error) {
	return []market.Market{
		{ID: 1, Label: "Moneyline", Outcomes: []market.Outcome{{Label: "A", Odds: 1500}, {Label: "B", Odds: 2500}}},
	}, nil
}

func newTestServer(t *testing.T, src session.Source) *httptest.Server {
	t.Helper()
	api := &API{
		Sessions: session.NewManager(session.Deps{Source: src}),
		Exporter: export.NewService(slip.HeaderEnglish, nil, nil, nil, zap.NewNop()),
		Location: time.UTC,
		Log:      zap.NewNop(),
	}
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, b
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	res, body := do(t, http.MethodPost, base+"/v1/sessions", "")
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", res.StatusCode)
	}
	var out map[string]string
	json.Unmarshal(body, &out)
	return out["id"]
}

func TestAPI_FullFlow(t *testing.T) {
	srv := newTestServer(t, stubSource{})
	base := srv.URL + "/v1/sessions/" + createSession(t, srv.URL)

	steps := []struct {
		method, path, body string
		wantStatus         int
		wantContains       string
	}{
		{http.MethodPost, "/matches:fetch", "", http.StatusOK, `"label":"Jon Jones - Stipe Miocic - 16/11/2024"`},
		{http.MethodPut, "/match", `{"matchId":1021}`, http.StatusOK, `"selected":true`},
		{http.MethodPost, "/odds:fetch", "", http.StatusOK, `"section":"Match Winner"`},
		{http.MethodPost, "/selection", `{"marketId":1}`, http.StatusOK, `"added":true`},
		{http.MethodPost, "/selection", `{"marketId":1}`, http.StatusOK, `"added":false`},
		{http.MethodGet, "/markets", "", http.StatusOK, `"added":true`},
		{http.MethodGet, "/table", "", http.StatusOK, `"one":"1.50"`},
		{http.MethodPost, "/preview", "", http.StatusOK, `"isMatchName":true`},
		{http.MethodPatch, "/preview/cells", `{"row":2,"column":"1","value":"1.55"}`, http.StatusConflict, "edit mode"},
		{http.MethodPut, "/preview/edit-mode", `{"enabled":true}`, http.StatusOK, `"editMode":true`},
		{http.MethodPatch, "/preview/cells", `{"row":0,"column":"Home","value":"x"}`, http.StatusBadRequest, "read-only"},
		{http.MethodPatch, "/preview/cells", `{"row":2,"column":"bogus","value":"x"}`, http.StatusBadRequest, "unknown column"},
		{http.MethodPatch, "/preview/cells", `{"row":2,"column":"1","value":"1.55"}`, http.StatusOK, `"updated":true`},
		{http.MethodPost, "/preview/commit", "", http.StatusNoContent, ""},
		{http.MethodGet, "/export", "", http.StatusOK, `"Moneyline","DA","1.55"`},
		{http.MethodGet, "/stats", "", http.StatusOK, `"marketCount":1`},
		{http.MethodPost, "/reset", "", http.StatusNoContent, ""},
		{http.MethodGet, "/export", "", http.StatusBadRequest, "no markets selected"},
	}

	for _, st := range steps {
		res, body := do(t, st.method, base+st.path, st.body)
		if res.StatusCode != st.wantStatus {
			t.Fatalf("%s %s status = %d, want %d (body %s)", st.method, st.path, res.StatusCode, st.wantStatus, body)
		}
		if st.wantContains != "" && !strings.Contains(string(body), st.wantContains) {
			t.Fatalf("%s %s body = %s, want to contain %s", st.method, st.path, body, st.wantContains)
		}
	}
}

func TestAPI_ExportHeaders(t *testing.T) {
	srv := newTestServer(t, stubSource{})
	base := srv.URL + "/v1/sessions/" + createSession(t, srv.URL)

	do(t, http.MethodPost, base+"/matches:fetch", "")
	do(t, http.MethodPut, base+"/match", `{"matchId":1021}`)
	do(t, http.MethodPost, base+"/odds:fetch", "")
	do(t, http.MethodPost, base+"/selection", `{"marketId":1}`)

	res, body := do(t, http.MethodGet, base+"/export", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, "mma_odds_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if res.Header.Get("X-Export-Id") == "" {
		t.Error("X-Export-Id missing")
	}
	if !strings.HasPrefix(string(body), `"Date","Time","Code"`) {
		t.Errorf("body = %s", body)
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	srv := newTestServer(t, stubSource{err: errors.New("provider down")})

	res, _ := do(t, http.MethodGet, srv.URL+"/v1/sessions/does-not-exist/stats", "")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", res.StatusCode)
	}

	base := srv.URL + "/v1/sessions/" + createSession(t, srv.URL)

	if res, _ := do(t, http.MethodPost, base+"/matches:fetch", ""); res.StatusCode != http.StatusBadGateway {
		t.Errorf("upstream failure status = %d, want 502", res.StatusCode)
	}
	if res, _ := do(t, http.MethodPost, base+"/odds:fetch", ""); res.StatusCode != http.StatusBadRequest {
		t.Errorf("odds without match status = %d, want 400", res.StatusCode)
	}
	if res, _ := do(t, http.MethodPost, base+"/preview", ""); res.StatusCode != http.StatusBadRequest {
		t.Errorf("empty preview status = %d, want 400", res.StatusCode)
	}
	if res, _ := do(t, http.MethodPut, base+"/match", "{bad"); res.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", res.StatusCode)
	}
	if res, body := do(t, http.MethodPut, base+"/match", `{"matchId":5}`); res.StatusCode != http.StatusOK || !strings.Contains(string(body), `"selected":false`) {
		t.Errorf("lookup miss = %d %s", res.StatusCode, body)
	}

	if res, _ := do(t, http.MethodDelete, base, ""); res.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", res.StatusCode)
	}
	if res, _ := do(t, http.MethodDelete, base, ""); res.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", res.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrNotFound, http.StatusNotFound},
		{session.ErrBusy, http.StatusConflict},
		{session.ErrNotEditing, http.StatusConflict},
		{session.ErrNoPreview, http.StatusConflict},
		{session.ErrUpstream, http.StatusBadGateway},
		{session.ErrNothingSelected, http.StatusBadRequest},
		{session.ErrReadOnlyRow, http.StatusBadRequest},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type fakeHistory struct {
	content map[string]string
	err     error
}

func (f fakeHistory) List(context.Context, int) ([]export.Record, error) { return nil, f.err }

func (f fakeHistory) Content(_ context.Context, id string) (string, []byte, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	c, ok := f.content[id]
	if !ok {
		return "", nil, sql.ErrNoRows
	}
	return "mma_odds_2024-11-16.csv", []byte(c), nil
}

func TestAPI_DownloadExportErrors(t *testing.T) {
	tests := []struct {
		name    string
		history fakeHistory
		id      string
		want    int
	}{
		{"found", fakeHistory{content: map[string]string{"e-1": `"Date"`}}, "e-1", http.StatusOK},
		{"missing row", fakeHistory{content: map[string]string{}}, "e-2", http.StatusNotFound},
		{"database down", fakeHistory{err: errors.New("connection refused")}, "e-1", http.StatusInternalServerError},
		{"wrapped no rows", fakeHistory{err: fmt.Errorf("content: %w", sql.ErrNoRows)}, "e-1", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &API{
				Sessions: session.NewManager(session.Deps{Source: stubSource{}}),
				History:  tt.history,
				Location: time.UTC,
				Log:      zap.NewNop(),
			}
			srv := httptest.NewServer(api.Router())
			defer srv.Close()

			res, body := do(t, http.MethodGet, srv.URL+"/v1/exports/"+tt.id, "")
			if res.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d: %s", res.StatusCode, tt.want, body)
			}
			if tt.want == http.StatusOK && !strings.Contains(res.Header.Get("Content-Disposition"), "mma_odds_2024-11-16.csv") {
				t.Errorf("Content-Disposition = %q", res.Header.Get("Content-Disposition"))
			}
		})
	}
}
