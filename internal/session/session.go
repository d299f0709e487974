package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

// Source fornece lutas e mercados (Kambi, com ou sem cache)
type Source interface {
	ListMatches(ctx context.Context) ([]market.Match, error)
	MatchMarkets(ctx context.Context, matchID int64) ([]market.Market, error)
}

// Notifier recebe as mudanças de estado da sessão (Redis pub/sub em produção)
type Notifier interface {
	Notify(ctx context.Context, upd events.SessionUpdate) error
}

// Exporter gera o CSV final e registra a exportação
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Result, error)
}

// Deps agrupa as dependências compartilhadas por todas as sessões
type Deps struct {
	Source   Source
	Options  slip.Options
	Notifier Notifier
	Metrics  *metrics.Pipeline
	Log      *zap.Logger
}

// Session guarda todo o estado de uma geração de boletim:
// lutas carregadas, luta escolhida, mercados, seleção e cópia editável.
//
// O mutex nunca fica preso durante chamadas ao fornecedor; as flags
// de carregamento garantem no máximo uma chamada em voo por tipo.
type Session struct {
	ID string

	deps Deps

	mu          sync.Mutex
	matches     []market.Match
	selected    *market.Match
	markets     []market.Market
	selection   *slip.Selection
	staging     *slip.Staging
	editMode    bool
	lastUpdated time.Time

	loadingMatches atomic.Bool
	loadingOdds    atomic.Bool
}

func New(id string, deps Deps) *Session {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Session{
		ID:        id,
		deps:      deps,
		selection: slip.NewSelection(),
		staging:   slip.NewStaging(),
	}
}

// FetchMatches recarrega a lista de lutas e limpa a luta escolhida e seus mercados.
// Em caso de falha o estado anterior é mantido.
func (s *Session) FetchMatches(ctx context.Context) ([]market.Match, error) {
	if !s.loadingMatches.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.loadingMatches.Store(false)

	matches, err := s.deps.Source.ListMatches(ctx)
	if err != nil {
		s.deps.Log.Warn("fetch matches failed", zap.String("session_id", s.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.mu.Lock()
	s.matches = matches
	s.selected = nil
	s.markets = nil
	s.lastUpdated = time.Now()
	out := append([]market.Match(nil), matches...)
	s.mu.Unlock()

	s.notify(ctx, events.SessionMatchesLoaded, 0, fmt.Sprintf("%d matches", len(out)))
	return out, nil
}

func (s *Session) Matches() []market.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]market.Match(nil), s.matches...)
}

// SelectMatch escolhe a luta pelo id; id desconhecido não altera nada
func (s *Session) SelectMatch(id int64) bool {
	s.mu.Lock()
	var found *market.Match
	for i := range s.matches {
		if s.matches[i].ID == id {
			m := s.matches[i]
			found = &m
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return false
	}
	s.selected = found
	s.markets = nil
	s.mu.Unlock()

	s.notify(context.Background(), events.SessionMatchSelected, id, found.Name)
	return true
}

// SelectedMatch devolve a luta escolhida, se houver
func (s *Session) SelectedMatch() (market.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return market.Match{}, false
	}
	return *s.selected, true
}

// FetchOdds carrega os mercados da luta escolhida.
// Se a escolha mudar durante a chamada, o resultado não é guardado.
func (s *Session) FetchOdds(ctx context.Context) ([]market.Market, error) {
	if !s.loadingOdds.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.loadingOdds.Store(false)

	match, ok := s.SelectedMatch()
	if !ok {
		return nil, ErrNoMatchSelected
	}

	markets, err := s.deps.Source.MatchMarkets(ctx, match.ID)
	if err != nil {
		s.deps.Log.Warn("fetch odds failed", zap.String("session_id", s.ID), zap.Int64("match_id", match.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.mu.Lock()
	if s.selected != nil && s.selected.ID == match.ID {
		s.markets = markets
		s.lastUpdated = time.Now()
	}
	s.mu.Unlock()

	s.notify(ctx, events.SessionOddsLoaded, match.ID, fmt.Sprintf("%d markets", len(markets)))
	return append([]market.Market(nil), markets...), nil
}

// MarketView é um mercado na listagem, marcado quando já está na seleção
type MarketView struct {
	market.Market
	Category market.Category `json:"category"`
	Added    bool            `json:"added"`
}

// MarketGroup é um bloco da listagem de mercados
type MarketGroup struct {
	Category market.Category `json:"category"`
	Section  string          `json:"section"`
	Markets  []MarketView    `json:"markets"`
}

// Markets devolve os mercados da luta escolhida agrupados para exibição
func (s *Session) Markets() []MarketGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil || len(s.markets) == 0 {
		return nil
	}

	var out []MarketGroup
	for _, g := range market.GroupForDisplay(s.markets) {
		mg := MarketGroup{Category: g.Category, Section: g.Section}
		for _, m := range g.Markets {
			mg.Markets = append(mg.Markets, MarketView{
				Market:   m,
				Category: g.Category,
				Added:    s.selection.Contains(s.selected.ID, m.ID),
			})
		}
		out = append(out, mg)
	}
	return out
}

// AddMarket inclui um mercado da luta escolhida na seleção.
// Id desconhecido ou já incluído devolve false sem efeito.
// Qualquer inclusão descarta a cópia em staging.
func (s *Session) AddMarket(marketID int64) bool {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return false
	}

	var found *market.Market
	for i := range s.markets {
		if s.markets[i].ID == marketID {
			found = &s.markets[i]
			break
		}
	}
	if found == nil || !s.selection.Add(*s.selected, *found) {
		s.mu.Unlock()
		return false
	}

	s.staging.Discard()
	s.editMode = false
	matchID, label, count := s.selected.ID, found.Label, s.selection.Len()
	s.mu.Unlock()

	s.deps.Metrics.MarketAdded(string(market.Classify(label)))
	s.deps.Log.Debug("market added", zap.String("session_id", s.ID), zap.Int64("market_id", marketID), zap.Int("selected", count))
	s.notify(context.Background(), events.SessionMarketAdded, matchID, label)
	return true
}

// Table regenera a tabela de exportação a partir da seleção
func (s *Session) Table() []slip.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slip.Assemble(s.selection.Entries(), s.deps.Options)
}

// OpenPreview tira um novo snapshot da tabela e desliga o modo de edição
func (s *Session) OpenPreview() ([]slip.Row, error) {
	s.mu.Lock()
	rows := slip.Assemble(s.selection.Entries(), s.deps.Options)
	if len(rows) == 0 {
		s.mu.Unlock()
		return nil, ErrNothingSelected
	}
	s.staging.Open(rows)
	s.editMode = false
	out := s.staging.Rows()
	s.mu.Unlock()

	s.notify(context.Background(), events.SessionPreview, 0, "opened")
	return out, nil
}

// Preview devolve as linhas em staging; false se o preview não está aberto
func (s *Session) Preview() ([]slip.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.staging.Visible() {
		return nil, false
	}
	return s.staging.Rows(), true
}

// HidePreview fecha o preview; alterações já salvas continuam valendo
func (s *Session) HidePreview() {
	s.mu.Lock()
	s.staging.Close()
	s.editMode = false
	s.mu.Unlock()
}

func (s *Session) SetEditMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.staging.Visible() {
		return ErrNoPreview
	}
	s.editMode = on
	return nil
}

// quebras CR/CRLF não sobrevivem ao Parse do CSV exportado
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SetCell altera uma célula da cópia em staging.
// Índice fora do intervalo devolve false sem erro.
func (s *Session) SetCell(row int, col slip.Column, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.staging.Visible() {
		return false, ErrNoPreview
	}
	if !s.editMode {
		return false, ErrNotEditing
	}
	r, ok := s.staging.Row(row)
	if !ok {
		return false, nil
	}
	if r.IsHeader() {
		return false, ErrReadOnlyRow
	}
	return s.staging.SetCell(row, col, lineBreaks.Replace(value)), nil
}

// CommitPreview torna a cópia editada a fonte da exportação e sai do modo de edição
func (s *Session) CommitPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.staging.Visible() {
		return ErrNoPreview
	}
	s.staging.Commit()
	s.editMode = false
	return nil
}

// ExportRows devolve as linhas a exportar: a cópia em staging quando existe,
// senão a tabela regenerada. edited indica que veio do staging.
func (s *Session) ExportRows() (rows []slip.Row, edited bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportRowsLocked()
}

func (s *Session) exportRowsLocked() ([]slip.Row, bool, error) {
	if s.staging.Active() && s.staging.Len() > 0 {
		return s.staging.Rows(), true, nil
	}
	rows := slip.Assemble(s.selection.Entries(), s.deps.Options)
	if len(rows) == 0 {
		return nil, false, ErrNothingSelected
	}
	return rows, false, nil
}

// Export monta o pedido de exportação e delega ao Exporter
func (s *Session) Export(ctx context.Context, exp Exporter) (export.Result, error) {
	s.mu.Lock()
	rows, edited, err := s.exportRowsLocked()
	if err != nil {
		s.mu.Unlock()
		return export.Result{}, err
	}
	entries := s.selection.Entries()
	if len(entries) == 0 {
		s.mu.Unlock()
		return export.Result{}, ErrNothingSelected
	}
	req := export.Request{
		SessionID:   s.ID,
		Match:       entries[0].Match,
		Rows:        rows,
		MarketCount: len(entries),
		Edited:      edited,
	}
	s.mu.Unlock()

	res, err := exp.Export(ctx, req)
	if err != nil {
		return export.Result{}, err
	}
	s.notify(ctx, events.SessionExported, req.Match.ID, res.Filename)
	return res, nil
}

// Reset limpa lutas, seleção e staging
func (s *Session) Reset() {
	s.mu.Lock()
	s.matches = nil
	s.selected = nil
	s.markets = nil
	s.selection.Clear()
	s.staging.Discard()
	s.editMode = false
	s.lastUpdated = time.Time{}
	s.mu.Unlock()

	s.notify(context.Background(), events.SessionReset, 0, "")
}

// Stats resume o estado da sessão para o painel
type Stats struct {
	MatchCount     int        `json:"matchCount"`
	SelectedMatch  string     `json:"selectedMatch"`
	MarketCount    int        `json:"marketCount"`
	LastUpdated    *time.Time `json:"lastUpdated,omitempty"`
	PreviewActive  bool       `json:"previewActive"`
	EditedCopy     bool       `json:"editedCopy"` // cópia commitada retida para exportação
	EditMode       bool       `json:"editMode"`
	LoadingMatches bool       `json:"loadingMatches"`
	LoadingOdds    bool       `json:"loadingOdds"`
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		MatchCount:     len(s.matches),
		SelectedMatch:  "None",
		MarketCount:    s.selection.Len(),
		PreviewActive:  s.staging.Visible(),
		EditedCopy:     s.staging.Committed(),
		EditMode:       s.editMode,
		LoadingMatches: s.loadingMatches.Load(),
		LoadingOdds:    s.loadingOdds.Load(),
	}
	if s.selected != nil {
		st.SelectedMatch = s.selected.Name
	}
	if !s.lastUpdated.IsZero() {
		t := s.lastUpdated
		st.LastUpdated = &t
	}
	return st
}

func (s *Session) notify(ctx context.Context, kind string, matchID int64, detail string) {
	if s.deps.Notifier == nil {
		return
	}

	s.mu.Lock()
	count := s.selection.Len()
	s.mu.Unlock()

	upd := events.SessionUpdate{
		SessionID:   s.ID,
		Kind:        kind,
		MatchID:     matchID,
		MarketCount: count,
		Detail:      detail,
		Ts:          time.Now().UTC(),
	}
	if err := s.deps.Notifier.Notify(ctx, upd); err != nil {
		s.deps.Log.Warn("session notify failed", zap.String("session_id", s.ID), zap.String("kind", kind), zap.Error(err))
	}
}
