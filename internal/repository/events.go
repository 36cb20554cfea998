package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// eventRepo is the append-only journal. Events are immutable rows except for
// comment content edits, which rewrite the doc in place.
type eventRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *eventRepo) InsertEvent(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event document: %w", err)
	}

	query := `
		INSERT INTO events (
			id, institute, case_id, category, verb, variant_id, created_at, doc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		e.ID, e.Institute, e.CaseID, e.Category, e.Verb, e.VariantID,
		e.CreatedAt, doc,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"case_id": e.CaseID,
			"verb":    e.Verb,
			"error":   err,
		}).Error("Failed to insert event")
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func (r *eventRepo) Events(ctx context.Context, caseID, category, variantID string) ([]*domain.Event, error) {
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if caseID != "" {
		add("case_id = $%d", caseID)
	}
	if category != "" {
		add("category = $%d", category)
	}
	if variantID != "" {
		add("variant_id = $%d", variantID)
	}

	query := "SELECT doc FROM events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting events: %w", err)
	}
	return collectDocs[domain.Event](rows)
}

func (r *eventRepo) Event(ctx context.Context, eventID string) (*domain.Event, error) {
	return fetchDoc[domain.Event](ctx, r.db, "SELECT doc FROM events WHERE id = $1", eventID)
}

func (r *eventRepo) UpdateEventContent(ctx context.Context, eventID, content string) error {
	query := `
		UPDATE events SET doc = jsonb_set(
			jsonb_set(doc, '{content}', to_jsonb($2::text), true),
			'{updated_at}', to_jsonb(now()), true)
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, eventID, content)
	if err != nil {
		return fmt.Errorf("updating event content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update event %s: %w", eventID, domain.ErrNotFound)
	}
	return nil
}

func (r *eventRepo) DeleteEvent(ctx context.Context, eventID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM events WHERE id = $1", eventID); err != nil {
		return fmt.Errorf("deleting event %s: %w", eventID, err)
	}
	return nil
}
