package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightmark/brightmark-core/internal/question"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, raw map[string]any) (question.Question, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	q := question.Normalize(raw)
	if q.ID == "" {
		q.ID = uuid.NewString()
		raw["id"] = q.ID
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return question.Question{}, err
	}
	normJSON, err := json.Marshal(q)
	if err != nil {
		return question.Question{}, err
	}
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,subject,interaction_type,raw_json,normalized_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		ON CONFLICT (id) DO UPDATE SET subject=EXCLUDED.subject, interaction_type=EXCLUDED.interaction_type,
			raw_json=EXCLUDED.raw_json, normalized_json=EXCLUDED.normalized_json, updated_at=EXCLUDED.updated_at`,
		q.ID, q.Subject, string(q.Type), string(rawJSON), string(normJSON), now)
	if err != nil {
		return question.Question{}, err
	}
	return q, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (question.Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT raw_json FROM questions WHERE id=$1`, id)
	var rawJSON string
	if err := row.Scan(&rawJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return question.Question{}, ErrNotFound
		}
		return question.Question{}, err
	}
	// Re-normalize from the raw record; the cached normalized_json column is
	// for external consumers.
	return question.NormalizeJSON([]byte(rawJSON)), nil
}

func (s *SQLStore) List(ctx context.Context, subject string, limit, offset int) ([]question.Question, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var (
		rows *sql.Rows
		err  error
	)
	if subject != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT raw_json FROM questions WHERE subject=$1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
			subject, limit, offset)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT raw_json FROM questions ORDER BY created_at, id LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []question.Question
	for rows.Next() {
		var rawJSON string
		if err := rows.Scan(&rawJSON); err != nil {
			return nil, err
		}
		out = append(out, question.NormalizeJSON([]byte(rawJSON)))
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
