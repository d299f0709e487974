package events

import "time"

// Evento publicado no tópico "slip_exported" a cada CSV gerado
type SlipExported struct {
	ExportID    string    `json:"export_id"`
	SessionID   string    `json:"session_id"`
	MatchID     int64     `json:"match_id"`
	MatchName   string    `json:"match_name"`
	Filename    string    `json:"filename"`
	RowCount    int       `json:"row_count"`
	MarketCount int       `json:"market_count"`
	Edited      bool      `json:"edited"` // true quando a cópia de staging foi exportada
	Ts          time.Time `json:"ts"`
}
