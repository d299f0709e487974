package events

import "time"

// Tipos de SessionUpdate
const (
	SessionMatchesLoaded = "matches_loaded"
	SessionMatchSelected = "match_selected"
	SessionOddsLoaded    = "odds_loaded"
	SessionMarketAdded   = "market_added"
	SessionPreview       = "preview"
	SessionExported      = "exported"
	SessionReset         = "reset"
)

// Evento publicado no canal Redis "slip_session_updates" e repassado aos clientes WS
type SessionUpdate struct {
	SessionID   string    `json:"session_id"`
	Kind        string    `json:"kind"`
	MatchID     int64     `json:"match_id,omitempty"`
	MarketCount int       `json:"market_count"`
	Detail      string    `json:"detail,omitempty"`
	Ts          time.Time `json:"ts"`
}
