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

// evaluationRepo stores classification submissions; the scheme column keeps
// the germline and oncogenicity histories apart.
type evaluationRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *evaluationRepo) InsertEvaluation(ctx context.Context, scheme string, ev *domain.Evaluation) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	doc, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding evaluation document: %w", err)
	}

	query := `
		INSERT INTO evaluations (
			id, scheme, case_id, variant_id, created_at, doc
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		ev.ID, scheme, ev.CaseID, ev.VariantID, ev.CreatedAt, doc,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"scheme":  scheme,
			"variant": ev.VariantID,
			"error":   err,
		}).Error("Failed to insert evaluation")
		return fmt.Errorf("inserting evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepo) Evaluations(ctx context.Context, scheme, caseID, variantID string) ([]*domain.Evaluation, error) {
	conds := []string{"scheme = $1"}
	args := []any{scheme}
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if caseID != "" {
		add("case_id = $%d", caseID)
	}
	if variantID != "" {
		add("variant_id = $%d", variantID)
	}

	query := "SELECT doc FROM evaluations WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting evaluations: %w", err)
	}
	return collectDocs[domain.Evaluation](rows)
}

func (r *evaluationRepo) Evaluation(ctx context.Context, scheme, evaluationID string) (*domain.Evaluation, error) {
	return fetchDoc[domain.Evaluation](ctx, r.db,
		"SELECT doc FROM evaluations WHERE scheme = $1 AND id = $2", scheme, evaluationID)
}

func (r *evaluationRepo) DeleteEvaluation(ctx context.Context, scheme, evaluationID string) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM evaluations WHERE scheme = $1 AND id = $2", scheme, evaluationID)
	if err != nil {
		return fmt.Errorf("deleting evaluation %s: %w", evaluationID, err)
	}
	return nil
}
