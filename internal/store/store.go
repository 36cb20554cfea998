// Package store defines the document-store boundary of the interpretation
// core. The engine treats storage as a black box with per-collection
// find/update/delete; the fine-grained filter predicates run in the query
// layer, so selections here only carry the indexed, coarse criteria.
//
// Read misses return (nil, nil). Errors are reserved for store failures.
package store

import (
	"context"
	"time"

	"github.com/scout-genomics/scout/internal/domain"
)

// VariantSelection is the coarse, index-backed part of a variant query.
type VariantSelection struct {
	CaseID      string
	Category    domain.Category
	VariantType domain.VariantType
	VariantIDs  []string
	SimpleID    string
	HgncIDs     []int
	Chromosome  string
	// MinRankScore keeps only variants with rank_score >= the value.
	MinRankScore *float64
	// OnlyAssessed keeps only variants carrying any manual assessment.
	OnlyAssessed bool

	Skip  int
	Limit int
	// SortRankScoreDesc orders by rank_score descending, the list-view
	// default. Otherwise insertion order applies.
	SortRankScoreDesc bool
}

// VariantStore is one variant collection (clinical/research share it; omics
// variants use a second instance of the same interface).
type VariantStore interface {
	// VariantByDocID fetches by document id.
	VariantByDocID(ctx context.Context, docID string) (*domain.Variant, error)
	// VariantByID fetches by (case, common variant id, type).
	VariantByID(ctx context.Context, caseID, variantID string, typ domain.VariantType) (*domain.Variant, error)
	// VariantsBySimpleID fetches all variants sharing a simple id across
	// cases, optionally restricted to one variant type.
	VariantsBySimpleID(ctx context.Context, simpleID string, typ domain.VariantType) ([]*domain.Variant, error)
	Select(ctx context.Context, sel VariantSelection) ([]*domain.Variant, error)
	InsertVariant(ctx context.Context, v *domain.Variant) error
	UpdateVariant(ctx context.Context, v *domain.Variant) error
	// DeleteVariants removes variants of a case, keeping the listed
	// document ids and any variant with rank_score >= keepAboveRank when
	// keepAboveRank is non-nil.
	DeleteVariants(ctx context.Context, caseID string, keepDocIDs []string, keepAboveRank *float64) (int, error)
}

// CaseSelection filters case listings.
type CaseSelection struct {
	Institute    string
	Status       domain.CaseStatus
	OlderThan    *time.Time
	AnalysisType string
	GroupID      string
}

// CaseStore is the case collection.
type CaseStore interface {
	Case(ctx context.Context, caseID string) (*domain.Case, error)
	Cases(ctx context.Context, sel CaseSelection) ([]*domain.Case, error)
	InsertCase(ctx context.Context, c *domain.Case) error
	UpdateCase(ctx context.Context, c *domain.Case) error
	DeleteCase(ctx context.Context, caseID string) error
}

// EventStore is the append-only journal.
type EventStore interface {
	InsertEvent(ctx context.Context, e *domain.Event) error
	// Events lists case-level or variant-level events for a case, newest
	// first. variantID narrows to one variant when non-empty.
	Events(ctx context.Context, caseID, category, variantID string) ([]*domain.Event, error)
	Event(ctx context.Context, eventID string) (*domain.Event, error)
	// UpdateEventContent edits a comment event's content in place.
	UpdateEventContent(ctx context.Context, eventID, content string) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// EvaluationStore holds ACMG and CCV evaluations; scheme is "acmg" or "ccv".
type EvaluationStore interface {
	InsertEvaluation(ctx context.Context, scheme string, ev *domain.Evaluation) error
	Evaluations(ctx context.Context, scheme, caseID, variantID string) ([]*domain.Evaluation, error)
	Evaluation(ctx context.Context, scheme, evaluationID string) (*domain.Evaluation, error)
	DeleteEvaluation(ctx context.Context, scheme, evaluationID string) error
}

// FilterStore holds saved filters.
type FilterStore interface {
	InsertFilter(ctx context.Context, f *domain.Filter) error
	Filter(ctx context.Context, filterID string) (*domain.Filter, error)
	Filters(ctx context.Context, institute string, category domain.Category) ([]*domain.Filter, error)
	UpdateFilter(ctx context.Context, f *domain.Filter) error
	DeleteFilter(ctx context.Context, filterID string) error
}

// GeneStore holds the per-build HGNC reference genes.
type GeneStore interface {
	GeneByHgncID(ctx context.Context, hgncID int, build string) (*domain.HGNCGene, error)
	GenesBySymbol(ctx context.Context, symbol, build string) ([]*domain.HGNCGene, error)
	GenesByAlias(ctx context.Context, symbol, build string) ([]*domain.HGNCGene, error)
	InsertGene(ctx context.Context, g *domain.HGNCGene) error
}

// PanelStore holds gene panel versions.
type PanelStore interface {
	// Panel returns the given version, or the latest when version is nil.
	Panel(ctx context.Context, name string, version *float64) (*domain.GenePanel, error)
	Panels(ctx context.Context, institute string) ([]*domain.GenePanel, error)
	InsertPanel(ctx context.Context, p *domain.GenePanel) error
}

// TermStore holds HPO and disease terms.
type TermStore interface {
	HPOTerm(ctx context.Context, hpoID string) (*domain.HPOTerm, error)
	DiseaseTerm(ctx context.Context, diseaseID string) (*domain.DiseaseTerm, error)
	InsertHPOTerm(ctx context.Context, t *domain.HPOTerm) error
	InsertDiseaseTerm(ctx context.Context, t *domain.DiseaseTerm) error
}

// TranscriptStore holds reference transcripts and exons.
type TranscriptStore interface {
	TranscriptsByGene(ctx context.Context, hgncID int, build string) ([]*domain.RefTranscript, error)
	ExonsByGene(ctx context.Context, hgncID int, build string) ([]*domain.Exon, error)
	InsertTranscript(ctx context.Context, t *domain.RefTranscript) error
	InsertExon(ctx context.Context, e *domain.Exon) error
}

// ManagedVariantStore holds institute-wide flagged variants.
type ManagedVariantStore interface {
	// InsertManagedVariant returns domain.ErrConflict on a duplicate key.
	InsertManagedVariant(ctx context.Context, m *domain.ManagedVariant) error
	ManagedVariant(ctx context.Context, chrom string, pos int, ref, alt, build string) (*domain.ManagedVariant, error)
	ManagedVariants(ctx context.Context) ([]*domain.ManagedVariant, error)
	DeleteManagedVariant(ctx context.Context, id string) error
}

// InstituteStore holds institutes.
type InstituteStore interface {
	Institute(ctx context.Context, instituteID string) (*domain.Institute, error)
	Institutes(ctx context.Context) ([]*domain.Institute, error)
	UpsertInstitute(ctx context.Context, i *domain.Institute) error
}

// UserStore holds user accounts.
type UserStore interface {
	User(ctx context.Context, email string) (*domain.User, error)
	Users(ctx context.Context, institute string) ([]*domain.User, error)
	UpsertUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, email string) error
}

// Store aggregates the collections. Implementations: the in-memory store in
// this package and the Postgres repository.
type Store interface {
	Variants() VariantStore
	OmicsVariants() VariantStore
	Cases() CaseStore
	Events() EventStore
	Evaluations() EvaluationStore
	Filters() FilterStore
	Genes() GeneStore
	Panels() PanelStore
	Terms() TermStore
	Transcripts() TranscriptStore
	ManagedVariants() ManagedVariantStore
	Institutes() InstituteStore
	Users() UserStore
}
