// Package repository implements the document store on Postgres. Documents
// persist as JSONB with the coarse selection criteria extracted into indexed
// columns; the fine-grained filter predicates stay in the query layer.
//
// Read misses return (nil, nil), matching the store contract.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/database"
	"github.com/scout-genomics/scout/internal/store"
)

// Repository aggregates the per-collection repositories into a store.Store.
type Repository struct {
	variants    *variantRepo
	omics       *variantRepo
	cases       *caseRepo
	events      *eventRepo
	evaluations *evaluationRepo
	filters     *filterRepo
	genes       *geneRepo
	panels      *panelRepo
	terms       *termRepo
	transcripts *transcriptRepo
	managed     *managedRepo
	institutes  *instituteRepo
	users       *userRepo
}

var _ store.Store = (*Repository)(nil)

// New creates the Postgres-backed store.
func New(db *database.DB, logger *logrus.Logger) *Repository {
	pool := db.Pool
	return &Repository{
		variants:    &variantRepo{db: pool, table: "variants", log: logger},
		omics:       &variantRepo{db: pool, table: "omics_variants", log: logger},
		cases:       &caseRepo{db: pool, log: logger},
		events:      &eventRepo{db: pool, log: logger},
		evaluations: &evaluationRepo{db: pool, log: logger},
		filters:     &filterRepo{db: pool, log: logger},
		genes:       &geneRepo{db: pool, log: logger},
		panels:      &panelRepo{db: pool, log: logger},
		terms:       &termRepo{db: pool, log: logger},
		transcripts: &transcriptRepo{db: pool, log: logger},
		managed:     &managedRepo{db: pool, log: logger},
		institutes:  &instituteRepo{db: pool, log: logger},
		users:       &userRepo{db: pool, log: logger},
	}
}

func (r *Repository) Variants() store.VariantStore               { return r.variants }
func (r *Repository) OmicsVariants() store.VariantStore          { return r.omics }
func (r *Repository) Cases() store.CaseStore                     { return r.cases }
func (r *Repository) Events() store.EventStore                   { return r.events }
func (r *Repository) Evaluations() store.EvaluationStore         { return r.evaluations }
func (r *Repository) Filters() store.FilterStore                 { return r.filters }
func (r *Repository) Genes() store.GeneStore                     { return r.genes }
func (r *Repository) Panels() store.PanelStore                   { return r.panels }
func (r *Repository) Terms() store.TermStore                     { return r.terms }
func (r *Repository) Transcripts() store.TranscriptStore         { return r.transcripts }
func (r *Repository) ManagedVariants() store.ManagedVariantStore { return r.managed }
func (r *Repository) Institutes() store.InstituteStore           { return r.institutes }
func (r *Repository) Users() store.UserStore                     { return r.users }

// fetchDoc runs a single-document query. A miss returns (nil, nil).
func fetchDoc[T any](ctx context.Context, db *pgxpool.Pool, query string, args ...any) (*T, error) {
	var raw []byte
	err := db.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

// collectDocs drains a doc-column result set.
func collectDocs[T any](rows pgx.Rows) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		doc := new(T)
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func int4Array(ids []int) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}
