package export

import (
	"context"
	"database/sql"
	"time"
)

// Record é uma linha do histórico de exportações
type Record struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	MatchID     int64     `json:"matchId"`
	MatchName   string    `json:"matchName"`
	Filename    string    `json:"filename"`
	RowCount    int       `json:"rowCount"`
	MarketCount int       `json:"marketCount"`
	Edited      bool      `json:"edited"`
	CreatedAt   time.Time `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS slip_exports (
	id           UUID PRIMARY KEY,
	session_id   TEXT NOT NULL,
	match_id     BIGINT NOT NULL,
	match_name   TEXT NOT NULL,
	filename     TEXT NOT NULL,
	row_count    INT NOT NULL,
	market_count INT NOT NULL,
	edited       BOOLEAN NOT NULL DEFAULT FALSE,
	content      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres persiste o histórico de exportações na tabela slip_exports
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela se ainda não existir
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// Save grava o registro e o conteúdo CSV exportado
func (p *Postgres) Save(ctx context.Context, rec Record, content []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO slip_exports (id,session_id,match_id,match_name,filename,row_count,market_count,edited,content,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.SessionID, rec.MatchID, rec.MatchName, rec.Filename,
		rec.RowCount, rec.MarketCount, rec.Edited, string(content), rec.CreatedAt,
	)
	return err
}

// List devolve as exportações mais recentes primeiro
func (p *Postgres) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,session_id,match_id,match_name,filename,row_count,market_count,edited,created_at
		FROM slip_exports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SessionID, &r.MatchID, &r.MatchName, &r.Filename,
			&r.RowCount, &r.MarketCount, &r.Edited, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Content devolve o CSV gravado de uma exportação
func (p *Postgres) Content(ctx context.Context, id string) (string, []byte, error) {
	var filename, content string
	err := p.db.QueryRowContext(ctx, `SELECT filename, content FROM slip_exports WHERE id=$1`, id).
		Scan(&filename, &content)
	if err != nil {
		return "", nil, err
	}
	return filename, []byte(content), nil
}
