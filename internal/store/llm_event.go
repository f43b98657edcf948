package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const eventsTable = "llm_events"

var eventColumns = []string{
	"id", "created_at", "provider", "model", "purpose", "session_id",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

// eventRepo implements LLMEventRepo with ent's SQL builder.
type eventRepo struct {
	db  *sql.DB
	sql *entsql.DialectBuilder
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := r.sql.Insert(eventsTable).
		Columns(eventColumns[1:]...).
		Values(
			time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.SessionID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, q LLMEventQuery) ([]LLMEvent, error) {
	sel := r.sql.Select(eventColumns...).
		From(r.sql.Table(eventsTable)).
		OrderBy(entsql.Desc("id"))

	var preds []*entsql.Predicate
	if q.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", q.Purpose))
	}
	if q.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", q.SessionID))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error) {
	query, args := r.sql.Select(eventColumns...).
		From(r.sql.Table(eventsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get LLM event: %w", err)
		}
		return nil, ErrNotFound
	}
	return scanEvent(rows)
}

func (r *eventRepo) UsageStats(ctx context.Context) ([]LLMUsage, error) {
	query, args := r.sql.Select(
		"model", "purpose",
		entsql.Count("*"),
		"SUM(CASE WHEN success THEN 0 ELSE 1 END)",
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(r.sql.Table(eventsTable)).
		GroupBy("model", "purpose").
		OrderBy("model", "purpose").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("llm usage stats: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Model, &u.Purpose, &u.Requests, &u.Failures,
			&u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("llm usage stats: %w", err)
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (*LLMEvent, error) {
	var (
		ev        LLMEvent
		createdAt int64
	)
	err := rows.Scan(
		&ev.ID, &createdAt, &ev.Provider, &ev.Model, &ev.Purpose, &ev.SessionID,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage,
		&ev.RequestBody, &ev.ResponseBody,
	)
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	ev.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &ev, nil
}
