package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const sessionsTable = "interview_sessions"

var sessionColumns = []string{
	"id", "user_email", "role", "type", "difficulty", "config", "questions",
	"overall_score", "score_scale", "started_at", "ended_at",
}

// sessionRepo implements SessionRepo with ent's SQL builder.
type sessionRepo struct {
	db  *sql.DB
	sql *entsql.DialectBuilder
}

func (r *sessionRepo) Create(ctx context.Context, s *SessionRecord) error {
	if s.ID == "" {
		return fmt.Errorf("create session: missing id")
	}

	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	config := s.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	query, args := r.sql.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			s.ID, s.UserEmail, s.Role, s.Type, s.Difficulty, string(config), string(questions),
			s.OverallScore, s.ScoreScale, s.StartedAt.UnixMilli(), s.EndedAt.UnixMilli(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	query, args := r.sql.Select(sessionColumns...).
		From(r.sql.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query session: %w", err)
		}
		return nil, ErrNotFound
	}
	rec, err := scanSession(rows)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, email string, opts ListOpts) ([]SessionRecord, error) {
	sel := r.sql.Select(sessionColumns...).
		From(r.sql.Table(sessionsTable)).
		Where(entsql.EQ("user_email", email)).
		OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	// SQLite rejects OFFSET without LIMIT, so the offset only applies to
	// bounded pages.
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
		if opts.Offset > 0 {
			sel = sel.Offset(opts.Offset)
		}
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) CountByUser(ctx context.Context, email string) (int, error) {
	query, args := r.sql.Select(entsql.Count("*")).
		From(r.sql.Table(sessionsTable)).
		Where(entsql.EQ("user_email", email)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func scanSession(rows *sql.Rows) (*SessionRecord, error) {
	var (
		rec                SessionRecord
		config, questions  []byte
		startedAt, endedAt int64
	)
	err := rows.Scan(
		&rec.ID, &rec.UserEmail, &rec.Role, &rec.Type, &rec.Difficulty, &config, &questions,
		&rec.OverallScore, &rec.ScoreScale, &startedAt, &endedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	rec.Config = json.RawMessage(config)
	if err := json.Unmarshal(questions, &rec.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions of session %s: %w", rec.ID, err)
	}
	rec.StartedAt = time.UnixMilli(startedAt).UTC()
	rec.EndedAt = time.UnixMilli(endedAt).UTC()
	return &rec, nil
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
