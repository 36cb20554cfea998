package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

type caseRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// analysisTypes extracts the distinct analysis types of the case individuals
// for the indexed column.
func analysisTypes(c *domain.Case) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ind := range c.Individuals {
		if ind.AnalysisType == "" {
			continue
		}
		if _, ok := seen[ind.AnalysisType]; ok {
			continue
		}
		seen[ind.AnalysisType] = struct{}{}
		out = append(out, ind.AnalysisType)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func caseColumns(c *domain.Case) ([]any, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding case document: %w", err)
	}
	collaborators := c.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}
	groups := c.GroupIDs
	if groups == nil {
		groups = []string{}
	}
	args := []any{
		c.ID, c.Owner, collaborators, string(c.Status), groups,
		analysisTypes(c), c.AnalysisDate, doc,
	}
	return args, nil
}

func (r *caseRepo) InsertCase(ctx context.Context, c *domain.Case) error {
	args, err := caseColumns(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cases (
			id, owner, collaborators, status, group_ids, analysis_types,
			analysis_date, doc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("case %s already exists: %w", c.ID, domain.ErrConflict)
		}
		r.log.WithFields(logrus.Fields{
			"case_id": c.ID,
			"error":   err,
		}).Error("Failed to insert case")
		return fmt.Errorf("inserting case: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"case_id": c.ID,
		"owner":   c.Owner,
	}).Info("Case inserted")
	return nil
}

func (r *caseRepo) UpdateCase(ctx context.Context, c *domain.Case) error {
	args, err := caseColumns(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE cases SET
			owner = $2, collaborators = $3, status = $4, group_ids = $5,
			analysis_types = $6, analysis_date = $7, doc = $8
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating case: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update case %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *caseRepo) Case(ctx context.Context, caseID string) (*domain.Case, error) {
	return fetchDoc[domain.Case](ctx, r.db, "SELECT doc FROM cases WHERE id = $1", caseID)
}

func (r *caseRepo) Cases(ctx context.Context, sel store.CaseSelection) ([]*domain.Case, error) {
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if sel.Institute != "" {
		add("(owner = $%[1]d OR $%[1]d = ANY(collaborators))", sel.Institute)
	}
	if sel.Status != "" {
		add("status = $%d", string(sel.Status))
	}
	if sel.OlderThan != nil {
		add("analysis_date < $%d", *sel.OlderThan)
	}
	if sel.AnalysisType != "" {
		add("$%d = ANY(analysis_types)", sel.AnalysisType)
	}
	if sel.GroupID != "" {
		add("$%d = ANY(group_ids)", sel.GroupID)
	}

	query := "SELECT doc FROM cases"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting cases: %w", err)
	}
	return collectDocs[domain.Case](rows)
}

func (r *caseRepo) DeleteCase(ctx context.Context, caseID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM cases WHERE id = $1", caseID); err != nil {
		return fmt.Errorf("deleting case %s: %w", caseID, err)
	}
	return nil
}
