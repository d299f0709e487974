package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

// ErrNoRows indica uma exportação sem linhas
var ErrNoRows = errors.New("export: no rows")

// HistoryStore grava o histórico de exportações (Postgres em produção)
type HistoryStore interface {
	Save(ctx context.Context, rec Record, content []byte) error
}

// EventPublisher publica o evento de exportação (Kafka em produção)
type EventPublisher interface {
	Publish(ctx context.Context, e events.SlipExported) error
}

// Request descreve uma exportação já montada pela sessão
type Request struct {
	SessionID   string
	Match       market.Match
	Rows        []slip.Row
	MarketCount int
	Edited      bool
}

// Result traz o CSV pronto para download ou gravação em disco
type Result struct {
	ExportID string
	Filename string
	Content  []byte
	RowCount int
}

// Service gera o CSV e registra a exportação.
// Store, Publisher e Metrics são opcionais.
type Service struct {
	Header    slip.HeaderStyle
	Store     HistoryStore
	Publisher EventPublisher
	Metrics   *metrics.Pipeline
	Log       *zap.Logger

	now func() time.Time
}

func NewService(header slip.HeaderStyle, store HistoryStore, pub EventPublisher, m *metrics.Pipeline, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Header: header, Store: store, Publisher: pub, Metrics: m, Log: log, now: time.Now}
}

// Export codifica as linhas e registra histórico/evento/métricas.
// Falhas de registro são logadas e contadas, mas não falham a exportação.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if len(req.Rows) == 0 {
		return Result{}, ErrNoRows
	}

	var buf bytes.Buffer
	if err := Encode(&buf, req.Rows, slip.Header(s.Header)); err != nil {
		return Result{}, fmt.Errorf("encode csv: %w", err)
	}

	now := s.now()
	res := Result{
		ExportID: uuid.NewString(),
		Filename: Filename(now),
		Content:  buf.Bytes(),
		RowCount: len(req.Rows),
	}

	s.Metrics.Exported(res.RowCount, req.Edited)
	s.record(ctx, req, res, now)

	s.Log.Info("slip exported",
		zap.String("export_id", res.ExportID),
		zap.String("session_id", req.SessionID),
		zap.String("filename", res.Filename),
		zap.Int("rows", res.RowCount),
		zap.Bool("edited", req.Edited),
	)
	return res, nil
}

func (s *Service) record(ctx context.Context, req Request, res Result, now time.Time) {
	if s.Store != nil {
		rec := Record{
			ID:          res.ExportID,
			SessionID:   req.SessionID,
			MatchID:     req.Match.ID,
			MatchName:   req.Match.Name,
			Filename:    res.Filename,
			RowCount:    res.RowCount,
			MarketCount: req.MarketCount,
			Edited:      req.Edited,
			CreatedAt:   now.UTC(),
		}
		if err := s.Store.Save(ctx, rec, res.Content); err != nil {
			s.Metrics.RecorderError("postgres")
			s.Log.Warn("failed to save export history", zap.String("export_id", res.ExportID), zap.Error(err))
		}
	}

	if s.Publisher != nil {
		ev := events.SlipExported{
			ExportID:    res.ExportID,
			SessionID:   req.SessionID,
			MatchID:     req.Match.ID,
			MatchName:   req.Match.Name,
			Filename:    res.Filename,
			RowCount:    res.RowCount,
			MarketCount: req.MarketCount,
			Edited:      req.Edited,
			Ts:          now.UTC(),
		}
		if err := s.Publisher.Publish(ctx, ev); err != nil {
			s.Metrics.RecorderError("kafka")
			s.Log.Warn("failed to publish slip_exported", zap.String("export_id", res.ExportID), zap.Error(err))
		}
	}
}
