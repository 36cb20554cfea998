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
	"github.com/scout-genomics/scout/internal/store"
)

// variantRepo serves one variant collection. The clinical/research stream and
// the omics stream use two instances over different tables.
type variantRepo struct {
	db    *pgxpool.Pool
	table string
	log   *logrus.Logger
}

func (r *variantRepo) InsertVariant(ctx context.Context, v *domain.Variant) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding variant document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, case_id, category, variant_type, variant_id, simple_id,
			chromosome, rank_score, hgnc_ids, assessed, doc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			case_id = EXCLUDED.case_id, category = EXCLUDED.category,
			variant_type = EXCLUDED.variant_type, variant_id = EXCLUDED.variant_id,
			simple_id = EXCLUDED.simple_id, chromosome = EXCLUDED.chromosome,
			rank_score = EXCLUDED.rank_score, hgnc_ids = EXCLUDED.hgnc_ids,
			assessed = EXCLUDED.assessed, doc = EXCLUDED.doc`, r.table)

	_, err = r.db.Exec(ctx, query,
		v.ID, v.CaseID, string(v.Category), string(v.VariantType), v.VariantID,
		v.SimpleID, v.Chromosome, v.RankScore, int4Array(v.HgncIDs),
		v.HasAssessment(), doc,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"variant": v.VariantID,
			"case_id": v.CaseID,
			"error":   err,
		}).Error("Failed to insert variant")
		return fmt.Errorf("inserting variant: %w", err)
	}
	return nil
}

func (r *variantRepo) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding variant document: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			case_id = $2, category = $3, variant_type = $4, variant_id = $5,
			simple_id = $6, chromosome = $7, rank_score = $8, hgnc_ids = $9,
			assessed = $10, doc = $11
		WHERE id = $1`, r.table)

	result, err := r.db.Exec(ctx, query,
		v.ID, v.CaseID, string(v.Category), string(v.VariantType), v.VariantID,
		v.SimpleID, v.Chromosome, v.RankScore, int4Array(v.HgncIDs),
		v.HasAssessment(), doc,
	)
	if err != nil {
		return fmt.Errorf("updating variant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update variant %s: %w", v.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *variantRepo) VariantByDocID(ctx context.Context, docID string) (*domain.Variant, error) {
	query := fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", r.table)
	return fetchDoc[domain.Variant](ctx, r.db, query, docID)
}

func (r *variantRepo) VariantByID(ctx context.Context, caseID, variantID string, typ domain.VariantType) (*domain.Variant, error) {
	query := fmt.Sprintf(`
		SELECT doc FROM %s
		WHERE case_id = $1 AND variant_id = $2 AND ($3 = '' OR variant_type = $3)
		ORDER BY id LIMIT 1`, r.table)
	return fetchDoc[domain.Variant](ctx, r.db, query, caseID, variantID, string(typ))
}

func (r *variantRepo) VariantsBySimpleID(ctx context.Context, simpleID string, typ domain.VariantType) ([]*domain.Variant, error) {
	query := fmt.Sprintf(`
		SELECT doc FROM %s
		WHERE simple_id = $1 AND ($2 = '' OR variant_type = $2)
		ORDER BY id`, r.table)
	rows, err := r.db.Query(ctx, query, simpleID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("querying variants by simple id: %w", err)
	}
	return collectDocs[domain.Variant](rows)
}

func (r *variantRepo) Select(ctx context.Context, sel store.VariantSelection) ([]*domain.Variant, error) {
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if sel.CaseID != "" {
		add("case_id = $%d", sel.CaseID)
	}
	if sel.Category != "" {
		add("category = $%d", string(sel.Category))
	}
	if sel.VariantType != "" {
		add("variant_type = $%d", string(sel.VariantType))
	}
	if sel.SimpleID != "" {
		add("simple_id = $%d", sel.SimpleID)
	}
	if sel.Chromosome != "" {
		// A breakend may finish on the selected chromosome; either side
		// matches.
		add("(chromosome = $%[1]d OR doc->>'end_chrom' = $%[1]d)", sel.Chromosome)
	}
	if sel.MinRankScore != nil {
		add("rank_score >= $%d", *sel.MinRankScore)
	}
	if sel.OnlyAssessed {
		conds = append(conds, "assessed")
	}
	if len(sel.VariantIDs) > 0 {
		add("variant_id = ANY($%d)", sel.VariantIDs)
	}
	if len(sel.HgncIDs) > 0 {
		add("hgnc_ids && $%d", int4Array(sel.HgncIDs))
	}

	query := fmt.Sprintf("SELECT doc FROM %s", r.table)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if sel.SortRankScoreDesc {
		query += " ORDER BY rank_score DESC, id ASC"
	} else {
		query += " ORDER BY id ASC"
	}
	if sel.Skip > 0 {
		query += fmt.Sprintf(" OFFSET %d", sel.Skip)
	}
	if sel.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", sel.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"case_id": sel.CaseID,
			"error":   err,
		}).Error("Failed to select variants")
		return nil, fmt.Errorf("selecting variants: %w", err)
	}
	return collectDocs[domain.Variant](rows)
}

func (r *variantRepo) DeleteVariants(ctx context.Context, caseID string, keepDocIDs []string, keepAboveRank *float64) (int, error) {
	if keepDocIDs == nil {
		// A nil slice would encode as SQL NULL and void the predicate.
		keepDocIDs = []string{}
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE case_id = $1 AND NOT (id = ANY($2))", r.table)
	args := []any{caseID, keepDocIDs}
	if keepAboveRank != nil {
		query += " AND rank_score < $3"
		args = append(args, *keepAboveRank)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting variants of case %s: %w", caseID, err)
	}
	deleted := int(result.RowsAffected())
	r.log.WithFields(logrus.Fields{
		"case_id": caseID,
		"deleted": deleted,
	}).Info("Variants deleted")
	return deleted, nil
}
