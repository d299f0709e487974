package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

var fightStart = time.Date(2024, 11, 16, 3, 0, 0, 0, time.UTC)

type fakeSource struct {
	matches    []market.Match
	markets    map[int64][]market.Market
	err        error
	block      chan struct{}
	entered    chan struct{}
	enterOnce  sync.Once
	marketHits int
}

func (f *fakeSource) wait() {
	if f.block == nil {
		return
	}
	f.enterOnce.Do(func() { close(f.entered) })
	<-f.block
}

func (f *fakeSource) ListMatches(context.Context) ([]market.Match, error) {
	f.wait()
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeSource) MatchMarkets(_ context.Context, id int64) ([]market.Market, error) {
	f.wait()
	f.marketHits++
	if f.err != nil {
		return nil, f.err
	}
	return f.markets[id], nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotifier) Notify(_ context.Context, upd events.SessionUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, upd.Kind)
	return nil
}

func newSource() *fakeSource {
	return &fakeSource{
		matches: []market.Match{
			{ID: 1021, Name: "Jon Jones - Stipe Miocic", HomeName: "Jon Jones", AwayName: "Stipe Miocic", Start: fightStart},
			{ID: 1022, Name: "Other - Fight", Start: fightStart},
		},
		markets: map[int64][]market.Market{
			1021: {
				{ID: 1, Label: "Moneyline", Outcomes: []market.Outcome{{Label: "A", Odds: 1500}, {Label: "B", Odds: 2500}}},
				{ID: 2, Label: "Total Rounds", TypeID: market.TypeOverUnder, Outcomes: []market.Outcome{
					{Label: "Over", Odds: 2500, Kind: market.KindOver},
					{Label: "Under", Odds: 1800, Kind: market.KindUnder},
				}},
			},
		},
	}
}

// loaded devolve uma sessão com lutas carregadas, luta 1021 escolhida e odds carregadas
func loaded(t *testing.T, src *fakeSource, n Notifier) *Session {
	t.Helper()
	s := New("s-1", Deps{Source: src, Notifier: n})
	if _, err := s.FetchMatches(context.Background()); err != nil {
		t.Fatalf("FetchMatches() error = %v", err)
	}
	if !s.SelectMatch(1021) {
		t.Fatal("SelectMatch(1021) = false")
	}
	if _, err := s.FetchOdds(context.Background()); err != nil {
		t.Fatalf("FetchOdds() error = %v", err)
	}
	return s
}

func TestSession_EndToEndMoneyline(t *testing.T) {
	s := loaded(t, newSource(), nil)

	if !s.AddMarket(1) {
		t.Fatal("AddMarket(1) = false")
	}
	rows := s.Table()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Home != "MATCH_NAME:Jon Jones - Stipe Miocic" || rows[1].Home != "LEAGUE_NAME:Match Winner" {
		t.Errorf("headers = %q / %q", rows[0].Home, rows[1].Home)
	}
	if rows[2].Home != "Moneyline" || rows[2].One != "1.50" || rows[2].Date != "16/11/2024" {
		t.Errorf("data row = %+v", rows[2])
	}
}

func TestSession_FetchMatchesBusy(t *testing.T) {
	src := newSource()
	src.block = make(chan struct{})
	src.entered = make(chan struct{})
	s := New("s-1", Deps{Source: src})

	done := make(chan error, 1)
	go func() {
		_, err := s.FetchMatches(context.Background())
		done <- err
	}()
	<-src.entered

	if _, err := s.FetchMatches(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second FetchMatches() error = %v, want ErrBusy", err)
	}
	if !s.Stats().LoadingMatches {
		t.Error("Stats().LoadingMatches = false during fetch")
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("first FetchMatches() error = %v", err)
	}
	if s.Stats().LoadingMatches || len(s.Matches()) != 2 {
		t.Errorf("after fetch: %+v", s.Stats())
	}
}

func TestSession_FetchMatchesFailureKeepsState(t *testing.T) {
	src := newSource()
	s := loaded(t, src, nil)

	src.err = errors.New("boom")
	if _, err := s.FetchMatches(context.Background()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("FetchMatches() error = %v, want ErrUpstream", err)
	}
	if len(s.Matches()) != 2 {
		t.Error("matches changed after failed fetch")
	}
	if _, ok := s.SelectedMatch(); !ok {
		t.Error("selected match cleared after failed fetch")
	}
}

func TestSession_FetchMatchesClearsSelection(t *testing.T) {
	s := loaded(t, newSource(), nil)
	if _, err := s.FetchMatches(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.SelectedMatch(); ok {
		t.Error("selected match should be cleared")
	}
	if s.Markets() != nil {
		t.Error("markets should be cleared")
	}
}

func TestSession_SelectMatchMissIsNoop(t *testing.T) {
	s := loaded(t, newSource(), nil)
	if s.SelectMatch(9999) {
		t.Error("SelectMatch(9999) = true")
	}
	if m, ok := s.SelectedMatch(); !ok || m.ID != 1021 {
		t.Errorf("selected = %+v, %v", m, ok)
	}
	if len(s.Markets()) == 0 {
		t.Error("markets dropped by a missed selection")
	}
}

func TestSession_FetchOddsRequiresMatch(t *testing.T) {
	s := New("s-1", Deps{Source: newSource()})
	if _, err := s.FetchOdds(context.Background()); !errors.Is(err, ErrNoMatchSelected) {
		t.Errorf("FetchOdds() error = %v, want ErrNoMatchSelected", err)
	}
}

func TestSession_MarketsGroupedWithAddedFlag(t *testing.T) {
	s := loaded(t, newSource(), nil)
	s.AddMarket(2)

	groups := s.Markets()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Category != market.CategoryMoneyline || groups[1].Category != market.CategoryRoundDistance {
		t.Errorf("group order = %s, %s", groups[0].Category, groups[1].Category)
	}
	if groups[0].Markets[0].Added || !groups[1].Markets[0].Added {
		t.Error("Added flags wrong")
	}
}

func TestSession_AddMarket(t *testing.T) {
	s := loaded(t, newSource(), nil)

	if s.AddMarket(404) {
		t.Error("AddMarket(unknown) = true")
	}
	if !s.AddMarket(1) {
		t.Fatal("AddMarket(1) = false")
	}
	if s.AddMarket(1) {
		t.Error("duplicate AddMarket(1) = true")
	}
	if s.Stats().MarketCount != 1 {
		t.Errorf("MarketCount = %d, want 1", s.Stats().MarketCount)
	}
}

func TestSession_AddMarketDiscardsStaging(t *testing.T) {
	s := loaded(t, newSource(), nil)
	s.AddMarket(1)

	if _, err := s.OpenPreview(); err != nil {
		t.Fatal(err)
	}
	s.SetEditMode(true)
	s.SetCell(2, slip.ColOne, "9.99")
	s.CommitPreview()

	s.AddMarket(2)
	if _, ok := s.Preview(); ok {
		t.Error("staging should be discarded after AddMarket")
	}
	rows, edited, err := s.ExportRows()
	if err != nil || edited {
		t.Fatalf("ExportRows() edited=%v err=%v", edited, err)
	}
	for _, r := range rows {
		if r.One == "9.99" {
			t.Error("stale edit exported")
		}
	}
}

func TestSession_PreviewEditing(t *testing.T) {
	s := loaded(t, newSource(), nil)

	if _, err := s.OpenPreview(); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("OpenPreview() on empty selection error = %v", err)
	}
	if err := s.SetEditMode(true); !errors.Is(err, ErrNoPreview) {
		t.Errorf("SetEditMode() without preview error = %v", err)
	}

	s.AddMarket(1)
	if _, err := s.OpenPreview(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SetCell(2, slip.ColOne, "2.00"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("SetCell() outside edit mode error = %v", err)
	}
	if err := s.SetEditMode(true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetCell(0, slip.ColHome, "x"); !errors.Is(err, ErrReadOnlyRow) {
		t.Errorf("SetCell(header) error = %v, want ErrReadOnlyRow", err)
	}
	if ok, err := s.SetCell(99, slip.ColOne, "x"); ok || err != nil {
		t.Errorf("SetCell(out of range) = %v, %v", ok, err)
	}
	if ok, err := s.SetCell(2, slip.ColOne, "2.00"); !ok || err != nil {
		t.Fatalf("SetCell() = %v, %v", ok, err)
	}

	// staging não vaza para a tabela regenerada
	if s.Table()[2].One != "1.50" {
		t.Error("edit leaked into regenerated table")
	}

	rows, edited, err := s.ExportRows()
	if err != nil || !edited || rows[2].One != "2.00" {
		t.Errorf("ExportRows() = %v, edited=%v, err=%v", rows[2].One, edited, err)
	}

	if err := s.CommitPreview(); err != nil {
		t.Fatal(err)
	}
	if s.Stats().EditMode {
		t.Error("commit should leave edit mode")
	}

	s.HidePreview()
	rows, edited, _ = s.ExportRows()
	if !edited || rows[2].One != "2.00" {
		t.Error("committed edits should survive HidePreview")
	}
	if _, ok := s.Preview(); ok {
		t.Error("Preview() should report hidden after HidePreview")
	}
	if st := s.Stats(); st.PreviewActive || !st.EditedCopy {
		t.Errorf("Stats() after hide = previewActive %v, editedCopy %v", st.PreviewActive, st.EditedCopy)
	}
	if err := s.SetEditMode(true); !errors.Is(err, ErrNoPreview) {
		t.Errorf("SetEditMode() on hidden preview error = %v", err)
	}
	if _, err := s.SetCell(2, slip.ColOne, "9.99"); !errors.Is(err, ErrNoPreview) {
		t.Errorf("SetCell() on hidden preview error = %v", err)
	}

	// reabrir tira um snapshot novo
	rows, _ = s.OpenPreview()
	if rows[2].One != "1.50" {
		t.Errorf("reopened preview = %q, want fresh 1.50", rows[2].One)
	}
}

func TestSession_HideUncommittedPreview(t *testing.T) {
	s := loaded(t, newSource(), nil)
	s.AddMarket(1)
	s.OpenPreview()
	s.SetEditMode(true)
	s.SetCell(2, slip.ColOne, "7.77")
	s.HidePreview()

	rows, edited, err := s.ExportRows()
	if err != nil || edited || rows[2].One != "1.50" {
		t.Errorf("ExportRows() after hide = %q, edited=%v, err=%v", rows[2].One, edited, err)
	}
}

func TestSession_SetCellNormalizesLineBreaks(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"lone cr", "a\rb", "a\nb"},
		{"lf kept", "a\nb", "a\nb"},
		{"mixed", "a\r\nb\rc", "a\nb\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, newSource(), nil)
			s.AddMarket(1)
			if _, err := s.OpenPreview(); err != nil {
				t.Fatal(err)
			}
			if err := s.SetEditMode(true); err != nil {
				t.Fatal(err)
			}
			if ok, err := s.SetCell(2, slip.ColHome, tt.in); !ok || err != nil {
				t.Fatalf("SetCell() = %v, %v", ok, err)
			}
			rows, _ := s.Preview()
			if rows[2].Home != tt.want {
				t.Errorf("Home = %q, want %q", rows[2].Home, tt.want)
			}
		})
	}
}

func TestSession_ExportRowsEmpty(t *testing.T) {
	s := New("s-1", Deps{Source: newSource()})
	if _, _, err := s.ExportRows(); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("ExportRows() error = %v, want ErrNothingSelected", err)
	}
}

type fakeExporter struct{ got export.Request }

func (f *fakeExporter) Export(_ context.Context, req export.Request) (export.Result, error) {
	f.got = req
	return export.Result{ExportID: "e-1", Filename: "mma_odds_2024-11-16.csv", RowCount: len(req.Rows)}, nil
}

func TestSession_Export(t *testing.T) {
	n := &recordingNotifier{}
	s := loaded(t, newSource(), n)
	s.AddMarket(1)
	s.AddMarket(2)

	exp := &fakeExporter{}
	res, err := s.Export(context.Background(), exp)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.ExportID != "e-1" {
		t.Errorf("result = %+v", res)
	}
	if exp.got.SessionID != "s-1" || exp.got.Match.ID != 1021 || exp.got.MarketCount != 2 || exp.got.Edited {
		t.Errorf("request = %+v", exp.got)
	}

	n.mu.Lock()
	last := n.kinds[len(n.kinds)-1]
	n.mu.Unlock()
	if last != events.SessionExported {
		t.Errorf("last notification = %q, want %q", last, events.SessionExported)
	}

	if _, err := New("s-2", Deps{Source: newSource()}).Export(context.Background(), exp); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Export() on empty session error = %v", err)
	}
}

func TestSession_ResetAndStats(t *testing.T) {
	s := loaded(t, newSource(), nil)
	s.AddMarket(1)
	s.OpenPreview()

	st := s.Stats()
	if st.MatchCount != 2 || st.SelectedMatch != "Jon Jones - Stipe Miocic" || st.MarketCount != 1 || !st.PreviewActive || st.LastUpdated == nil {
		t.Errorf("Stats() = %+v", st)
	}

	s.Reset()
	st = s.Stats()
	if st.MatchCount != 0 || st.SelectedMatch != "None" || st.MarketCount != 0 || st.PreviewActive || st.LastUpdated != nil {
		t.Errorf("Stats() after Reset = %+v", st)
	}
	if len(s.Table()) != 0 {
		t.Error("table should be empty after Reset")
	}
}
