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

type filterRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func filterDoc(f *domain.Filter) ([]byte, error) {
	doc, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding filter document: %w", err)
	}
	return doc, nil
}

func (r *filterRepo) InsertFilter(ctx context.Context, f *domain.Filter) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	doc, err := filterDoc(f)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO filters (id, institute, category, display_name, doc)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(ctx, query, f.ID, f.Institute, string(f.Category), f.DisplayName, doc)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"institute": f.Institute,
			"filter":    f.DisplayName,
			"error":     err,
		}).Error("Failed to insert filter")
		return fmt.Errorf("inserting filter: %w", err)
	}
	return nil
}

func (r *filterRepo) Filter(ctx context.Context, filterID string) (*domain.Filter, error) {
	return fetchDoc[domain.Filter](ctx, r.db, "SELECT doc FROM filters WHERE id = $1", filterID)
}

func (r *filterRepo) Filters(ctx context.Context, institute string, category domain.Category) ([]*domain.Filter, error) {
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if institute != "" {
		add("institute = $%d", institute)
	}
	if category != "" {
		add("category = $%d", string(category))
	}

	query := "SELECT doc FROM filters"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY display_name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting filters: %w", err)
	}
	return collectDocs[domain.Filter](rows)
}

func (r *filterRepo) UpdateFilter(ctx context.Context, f *domain.Filter) error {
	doc, err := filterDoc(f)
	if err != nil {
		return err
	}

	query := `
		UPDATE filters SET institute = $2, category = $3, display_name = $4, doc = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, f.ID, f.Institute, string(f.Category), f.DisplayName, doc)
	if err != nil {
		return fmt.Errorf("updating filter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update filter %s: %w", f.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *filterRepo) DeleteFilter(ctx context.Context, filterID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM filters WHERE id = $1", filterID); err != nil {
		return fmt.Errorf("deleting filter %s: %w", filterID, err)
	}
	return nil
}
