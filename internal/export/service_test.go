package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

type fakeStore struct {
	saved   []Record
	content []byte
	err     error
}

func (f *fakeStore) Save(_ context.Context, rec Record, content []byte) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	f.content = content
	return nil
}

type fakePublisher struct {
	events []events.SlipExported
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, e events.SlipExported) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

var fixedNow = time.Date(2024, 11, 16, 10, 0, 0, 0, time.UTC)

func newTestService(store HistoryStore, pub EventPublisher, m *metrics.Pipeline) *Service {
	s := NewService(slip.HeaderEnglish, store, pub, m, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func sampleRequest() Request {
	return Request{
		SessionID:   "s-1",
		Match:       market.Match{ID: 1021, Name: "Jon Jones vs Stipe Miocic"},
		MarketCount: 1,
		Rows: []slip.Row{
			{Home: "MATCH_NAME:Jon Jones vs Stipe Miocic", MatchHeader: true},
			{Home: "LEAGUE_NAME:Match Winner", SectionHeader: true},
			{Date: "16/11/2024", Time: "03:00", Home: "Moneyline", Away: "DA", One: "1.50"},
		},
	}
}

func TestService_Export(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := newTestService(store, pub, nil)

	res, err := svc.Export(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if res.Filename != "mma_odds_2024-11-16.csv" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.RowCount != 3 || res.ExportID == "" {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(string(res.Content), `"Moneyline","DA","1.50"`) {
		t.Errorf("content missing moneyline row:\n%s", res.Content)
	}

	if len(store.saved) != 1 || store.saved[0].ID != res.ExportID || store.saved[0].MatchID != 1021 {
		t.Errorf("saved = %+v", store.saved)
	}
	if string(store.content) != string(res.Content) {
		t.Error("stored content differs from result")
	}
	if len(pub.events) != 1 || pub.events[0].ExportID != res.ExportID || pub.events[0].RowCount != 3 {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestService_ExportNoRows(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	if _, err := svc.Export(context.Background(), Request{}); !errors.Is(err, ErrNoRows) {
		t.Errorf("Export() error = %v, want ErrNoRows", err)
	}
}

func TestService_RecorderFailuresAreNotFatal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewPipeline(reg)

	store := &fakeStore{err: errors.New("db down")}
	pub := &fakePublisher{err: errors.New("kafka down")}
	svc := newTestService(store, pub, m)

	req := sampleRequest()
	req.Edited = true
	res, err := svc.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("Export() error = %v, want nil", err)
	}
	if len(res.Content) == 0 {
		t.Error("content should still be produced")
	}

	if n, err := testutil.GatherAndCount(reg, "slip_export_recorder_errors_total"); err != nil || n != 2 {
		t.Errorf("recorder error series = %d (err %v), want 2", n, err)
	}
	if n, err := testutil.GatherAndCount(reg, "slip_exports_total"); err != nil || n != 1 {
		t.Errorf("export series = %d (err %v), want 1", n, err)
	}
}
