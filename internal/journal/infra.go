package journal

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_queries (
	id          BIGSERIAL PRIMARY KEY,
	chat_id     BIGINT      NOT NULL,
	kind        TEXT        NOT NULL,
	match_mode  TEXT        NOT NULL,
	value       TEXT        NOT NULL DEFAULT '',
	"offset"    INTEGER     NOT NULL,
	returned    INTEGER     NOT NULL,
	total       INTEGER     NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS search_queries_chat_idx ON search_queries (chat_id, created_at DESC);
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Journal {
	return &repo{db: db}
}

// EnsureSchema creates the journal table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *repo) Record(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_queries (chat_id, kind, match_mode, value, "offset", returned, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		e.ChatID,
		e.Kind,
		e.Match,
		e.Value,
		e.Offset,
		e.Returned,
		e.Total,
	)
	return err
}

func (r *repo) Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, kind, match_mode, value, "offset", returned, total, extract(epoch from created_at)::bigint
		FROM search_queries
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.ChatID,
			&e.Kind,
			&e.Match,
			&e.Value,
			&e.Offset,
			&e.Returned,
			&e.Total,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
