// Package reference implements the reference resolver: build-parameterized,
// read-only lookups of HGNC genes, transcripts, exons, gene panels and
// ontology terms, with an LRU cache in front of the store. Lookup misses
// return (nil, nil).
package reference

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

const defaultCacheSize = 4096

// Resolver resolves reference entities for a genome build. "37"/"GRCh37"
// and "38"/"GRCh38" are synonyms.
type Resolver struct {
	store  store.Store
	cache  *lru.Cache[string, any]
	logger *logrus.Logger
}

// NewResolver creates a resolver with an LRU cache of the given size; size
// <= 0 selects the default.
func NewResolver(s store.Store, cacheSize int, logger *logrus.Logger) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, any](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference cache: %w", err)
	}
	return &Resolver{store: s, cache: cache, logger: logger}, nil
}

// GeneByHgncID resolves one reference gene.
func (r *Resolver) GeneByHgncID(ctx context.Context, hgncID int, build string) (*domain.HGNCGene, error) {
	build = domain.NormalizeBuild(build)
	key := "gene:" + build + ":" + strconv.Itoa(hgncID)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*domain.HGNCGene), nil
	}
	gene, err := r.store.Genes().GeneByHgncID(ctx, hgncID, build)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gene %d: %w", hgncID, err)
	}
	if gene != nil {
		r.cache.Add(key, gene)
	}
	return gene, nil
}

// SymbolLookup is the result of a symbol resolution. UsedAliases is true
// when the exact symbol missed and the genes were found through their alias
// lists, so callers can flag outdated symbols.
type SymbolLookup struct {
	Genes       []*domain.HGNCGene
	UsedAliases bool
}

// GenesBySymbolOrAliases resolves genes by symbol, falling back to alias
// search on an exact miss.
func (r *Resolver) GenesBySymbolOrAliases(ctx context.Context, symbol, build string) (SymbolLookup, error) {
	build = domain.NormalizeBuild(build)
	genes, err := r.store.Genes().GenesBySymbol(ctx, symbol, build)
	if err != nil {
		return SymbolLookup{}, fmt.Errorf("failed to fetch genes for symbol %s: %w", symbol, err)
	}
	if len(genes) > 0 {
		return SymbolLookup{Genes: genes}, nil
	}
	aliased, err := r.store.Genes().GenesByAlias(ctx, symbol, build)
	if err != nil {
		return SymbolLookup{}, fmt.Errorf("failed to fetch genes for alias %s: %w", symbol, err)
	}
	if len(aliased) > 0 {
		r.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"build":  build,
		}).Debug("Gene symbol resolved through aliases")
		return SymbolLookup{Genes: aliased, UsedAliases: true}, nil
	}
	return SymbolLookup{}, nil
}

// Panel resolves a gene panel by name; the latest non-archived version when
// version is nil. Hidden panels are returned with their Hidden flag set.
func (r *Resolver) Panel(ctx context.Context, name string, version *float64) (*domain.GenePanel, error) {
	panel, err := r.store.Panels().Panel(ctx, name, version)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch panel %s: %w", name, err)
	}
	return panel, nil
}

// TranscriptsOf resolves the reference transcripts of a gene.
func (r *Resolver) TranscriptsOf(ctx context.Context, hgncID int, build string) ([]*domain.RefTranscript, error) {
	build = domain.NormalizeBuild(build)
	key := "transcripts:" + build + ":" + strconv.Itoa(hgncID)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]*domain.RefTranscript), nil
	}
	transcripts, err := r.store.Transcripts().TranscriptsByGene(ctx, hgncID, build)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcripts for gene %d: %w", hgncID, err)
	}
	if len(transcripts) > 0 {
		r.cache.Add(key, transcripts)
	}
	return transcripts, nil
}

// ExonsOf resolves the reference exons of a gene, ordered by rank.
func (r *Resolver) ExonsOf(ctx context.Context, hgncID int, build string) ([]*domain.Exon, error) {
	build = domain.NormalizeBuild(build)
	exons, err := r.store.Transcripts().ExonsByGene(ctx, hgncID, build)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exons for gene %d: %w", hgncID, err)
	}
	return exons, nil
}

// HPOTerm resolves one HPO term.
func (r *Resolver) HPOTerm(ctx context.Context, hpoID string) (*domain.HPOTerm, error) {
	key := "hpo:" + hpoID
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*domain.HPOTerm), nil
	}
	term, err := r.store.Terms().HPOTerm(ctx, hpoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HPO term %s: %w", hpoID, err)
	}
	if term != nil {
		r.cache.Add(key, term)
	}
	return term, nil
}

// DiseaseTerm resolves one OMIM/ORPHA disease term.
func (r *Resolver) DiseaseTerm(ctx context.Context, diseaseID string) (*domain.DiseaseTerm, error) {
	term, err := r.store.Terms().DiseaseTerm(ctx, diseaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch disease term %s: %w", diseaseID, err)
	}
	return term, nil
}

// HPONode is one node of an ordered HPO subtree.
type HPONode struct {
	Term     *domain.HPOTerm
	Children []*HPONode
}

// HPOTree builds the ordered tree of a root term with its descendants, for
// phenotype-model checkbox groups. Missing children are skipped.
func (r *Resolver) HPOTree(ctx context.Context, rootID string) (*HPONode, error) {
	root, err := r.HPOTerm(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	node := &HPONode{Term: root}
	for _, childID := range root.Children {
		child, err := r.HPOTree(ctx, childID)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}
