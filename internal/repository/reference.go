package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// The reference collections are bulk loaded and read heavy; symbol and alias
// lookups are case insensitive.

type geneRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *geneRepo) InsertGene(ctx context.Context, g *domain.HGNCGene) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding gene document: %w", err)
	}

	aliases := g.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	query := `
		INSERT INTO genes (hgnc_id, build, symbol, aliases, doc)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hgnc_id, build) DO UPDATE SET
			symbol = EXCLUDED.symbol, aliases = EXCLUDED.aliases, doc = EXCLUDED.doc`

	_, err = r.db.Exec(ctx, query,
		g.HgncID, domain.NormalizeBuild(g.Build), g.Symbol, aliases, doc)
	if err != nil {
		return fmt.Errorf("inserting gene %d: %w", g.HgncID, err)
	}
	return nil
}

func (r *geneRepo) GeneByHgncID(ctx context.Context, hgncID int, build string) (*domain.HGNCGene, error) {
	return fetchDoc[domain.HGNCGene](ctx, r.db,
		"SELECT doc FROM genes WHERE hgnc_id = $1 AND build = $2",
		hgncID, domain.NormalizeBuild(build))
}

func (r *geneRepo) GenesBySymbol(ctx context.Context, symbol, build string) ([]*domain.HGNCGene, error) {
	rows, err := r.db.Query(ctx,
		"SELECT doc FROM genes WHERE lower(symbol) = lower($1) AND build = $2 ORDER BY hgnc_id",
		symbol, domain.NormalizeBuild(build))
	if err != nil {
		return nil, fmt.Errorf("querying genes by symbol: %w", err)
	}
	return collectDocs[domain.HGNCGene](rows)
}

func (r *geneRepo) GenesByAlias(ctx context.Context, symbol, build string) ([]*domain.HGNCGene, error) {
	query := `
		SELECT doc FROM genes
		WHERE build = $2
		  AND EXISTS (SELECT 1 FROM unnest(aliases) alias WHERE lower(alias) = lower($1))
		ORDER BY hgnc_id`
	rows, err := r.db.Query(ctx, query, symbol, domain.NormalizeBuild(build))
	if err != nil {
		return nil, fmt.Errorf("querying genes by alias: %w", err)
	}
	return collectDocs[domain.HGNCGene](rows)
}

type panelRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *panelRepo) InsertPanel(ctx context.Context, p *domain.GenePanel) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding panel document: %w", err)
	}

	query := `
		INSERT INTO panels (id, name, version, institute, is_archived, doc)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query, p.ID, p.Name, p.Version, p.Institute, p.IsArchived, doc)
	if err != nil {
		return fmt.Errorf("inserting panel %s: %w", p.Name, err)
	}

	r.log.WithFields(logrus.Fields{
		"panel":   p.Name,
		"version": p.Version,
		"genes":   len(p.Genes),
	}).Info("Gene panel inserted")
	return nil
}

func (r *panelRepo) Panel(ctx context.Context, name string, version *float64) (*domain.GenePanel, error) {
	if version != nil {
		return fetchDoc[domain.GenePanel](ctx, r.db,
			"SELECT doc FROM panels WHERE name = $1 AND version = $2 ORDER BY id LIMIT 1",
			name, *version)
	}
	// Latest non-archived version.
	return fetchDoc[domain.GenePanel](ctx, r.db,
		"SELECT doc FROM panels WHERE name = $1 AND NOT is_archived ORDER BY version DESC LIMIT 1",
		name)
}

func (r *panelRepo) Panels(ctx context.Context, institute string) ([]*domain.GenePanel, error) {
	query := "SELECT doc FROM panels WHERE $1 = '' OR institute = $1 ORDER BY name, version DESC"
	rows, err := r.db.Query(ctx, query, institute)
	if err != nil {
		return nil, fmt.Errorf("selecting panels: %w", err)
	}
	return collectDocs[domain.GenePanel](rows)
}

type termRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *termRepo) InsertHPOTerm(ctx context.Context, t *domain.HPOTerm) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding HPO term: %w", err)
	}
	query := `
		INSERT INTO hpo_terms (hpo_id, doc) VALUES ($1, $2)
		ON CONFLICT (hpo_id) DO UPDATE SET doc = EXCLUDED.doc`
	if _, err := r.db.Exec(ctx, query, t.HpoID, doc); err != nil {
		return fmt.Errorf("inserting HPO term %s: %w", t.HpoID, err)
	}
	return nil
}

func (r *termRepo) HPOTerm(ctx context.Context, hpoID string) (*domain.HPOTerm, error) {
	return fetchDoc[domain.HPOTerm](ctx, r.db,
		"SELECT doc FROM hpo_terms WHERE hpo_id = $1", hpoID)
}

func (r *termRepo) InsertDiseaseTerm(ctx context.Context, t *domain.DiseaseTerm) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding disease term: %w", err)
	}
	query := `
		INSERT INTO disease_terms (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	if _, err := r.db.Exec(ctx, query, t.ID, doc); err != nil {
		return fmt.Errorf("inserting disease term %s: %w", t.ID, err)
	}
	return nil
}

func (r *termRepo) DiseaseTerm(ctx context.Context, diseaseID string) (*domain.DiseaseTerm, error) {
	return fetchDoc[domain.DiseaseTerm](ctx, r.db,
		"SELECT doc FROM disease_terms WHERE id = $1", diseaseID)
}

type transcriptRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *transcriptRepo) InsertTranscript(ctx context.Context, t *domain.RefTranscript) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}
	query := "INSERT INTO transcripts (hgnc_id, build, doc) VALUES ($1, $2, $3)"
	if _, err := r.db.Exec(ctx, query, t.HgncID, domain.NormalizeBuild(t.Build), doc); err != nil {
		return fmt.Errorf("inserting transcript %s: %w", t.EnsemblID, err)
	}
	return nil
}

func (r *transcriptRepo) TranscriptsByGene(ctx context.Context, hgncID int, build string) ([]*domain.RefTranscript, error) {
	rows, err := r.db.Query(ctx,
		"SELECT doc FROM transcripts WHERE hgnc_id = $1 AND build = $2 ORDER BY id",
		hgncID, domain.NormalizeBuild(build))
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}
	return collectDocs[domain.RefTranscript](rows)
}

func (r *transcriptRepo) InsertExon(ctx context.Context, e *domain.Exon) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding exon: %w", err)
	}
	query := "INSERT INTO exons (hgnc_id, build, rank, doc) VALUES ($1, $2, $3, $4)"
	if _, err := r.db.Exec(ctx, query, e.HgncID, domain.NormalizeBuild(e.Build), e.Rank, doc); err != nil {
		return fmt.Errorf("inserting exon %s: %w", e.ID, err)
	}
	return nil
}

func (r *transcriptRepo) ExonsByGene(ctx context.Context, hgncID int, build string) ([]*domain.Exon, error) {
	rows, err := r.db.Query(ctx,
		"SELECT doc FROM exons WHERE hgnc_id = $1 AND build = $2 ORDER BY rank",
		hgncID, domain.NormalizeBuild(build))
	if err != nil {
		return nil, fmt.Errorf("querying exons: %w", err)
	}
	return collectDocs[domain.Exon](rows)
}
