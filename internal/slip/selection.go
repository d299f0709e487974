package slip

import "github.com/damirmikic/ufc-specijal-generator/internal/market"

// Entry é um par (luta, mercado) escolhido para exportação
type Entry struct {
	Key    string        `json:"key"`
	Match  market.Match  `json:"match"`
	Market market.Market `json:"market"`
}

// Selection mantém os mercados escolhidos na ordem de inclusão,
// sem duplicatas pela chave composta (luta, mercado)
type Selection struct {
	entries []Entry
	index   map[string]int
}

func NewSelection() *Selection {
	return &Selection{index: make(map[string]int)}
}

// Add inclui o par; devolve false se a chave já existe (no-op)
func (s *Selection) Add(match market.Match, m market.Market) bool {
	key := market.Key(match.ID, m.ID)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, Match: match, Market: m})
	return true
}

func (s *Selection) Contains(matchID, marketID int64) bool {
	_, ok := s.index[market.Key(matchID, marketID)]
	return ok
}

func (s *Selection) Len() int { return len(s.entries) }

// Entries devolve uma cópia da lista na ordem de inclusão
func (s *Selection) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Selection) Clear() {
	s.entries = nil
	s.index = make(map[string]int)
}
