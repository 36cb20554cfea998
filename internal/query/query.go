package query

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

// Service runs variant list queries.
type Service struct {
	store    store.Store
	resolver *reference.Resolver
	logger   *logrus.Logger
}

// NewService creates a query service.
func NewService(s store.Store, resolver *reference.Resolver, logger *logrus.Logger) *Service {
	return &Service{store: s, resolver: resolver, logger: logger}
}

// Result is one page of a variant list.
type Result struct {
	Variants []*domain.Variant
	// MoreVariants is true when pages remain after this one.
	MoreVariants bool
	// Flashes are user-facing notes produced while resolving the filter,
	// e.g. unknown gene symbols.
	Flashes []string
}

// Run executes a filter over one case's variants of a category. Page counts
// from 1; page 0 disables paging and caps at the export limit.
func (s *Service) Run(ctx context.Context, kase *domain.Case, category domain.Category,
	spec FilterSpec, page int) (*Result, error) {
	result := &Result{}

	scope, err := s.geneScope(ctx, kase, spec, result)
	if err != nil {
		return nil, err
	}

	typ := spec.VariantType
	if !typ.IsValid() {
		typ = domain.TypeClinical
	}
	selection := store.VariantSelection{
		CaseID:            kase.ID,
		Category:          category,
		VariantType:       typ,
		HgncIDs:           scope,
		Chromosome:        spec.Chrom,
		SortRankScoreDesc: true,
	}

	candidates, err := s.variantStore(category).Select(ctx, selection)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants of case %s: %w", kase.ID, err)
	}

	preds := Predicates(spec, affectedSampleIDs(kase))
	var matched []*domain.Variant
	for _, variant := range candidates {
		if matchesAll(preds, variant) {
			matched = append(matched, variant)
			continue
		}
		if spec.ClinSigConfidentAlwaysReturned && len(spec.ClinSig) > 0 &&
			MatchesConfidentClinSig(variant, spec.ClinSig) {
			matched = append(matched, variant)
		}
	}

	if page <= 0 {
		if len(matched) > ExportedVariantsLimit {
			matched = matched[:ExportedVariantsLimit]
		}
		result.Variants = matched
	} else {
		offset := (page - 1) * PageSize
		if offset > len(matched) {
			offset = len(matched)
		}
		limit := offset + PageSize
		if limit > len(matched) {
			limit = len(matched)
		}
		result.Variants = matched[offset:limit]
		result.MoreVariants = len(matched) > limit
	}

	s.followCompounds(ctx, kase, spec, preds, result.Variants)
	return result, nil
}

// variantStore picks the collection a category lives in. WTS outlier and
// fusion streams are kept apart from the DNA variants.
func (s *Service) variantStore(category domain.Category) store.VariantStore {
	if category == domain.CategoryOutlier || category == domain.CategoryFusion {
		return s.store.OmicsVariants()
	}
	return s.store.Variants()
}

func matchesAll(preds []Predicate, v *domain.Variant) bool {
	for _, p := range preds {
		if !p.MatchesPrimary(v) {
			return false
		}
	}
	return true
}

// geneScope resolves the filter's gene constraints into an hgnc id list for
// the coarse selection. Panels named "hpo" select the case's dynamic gene
// list. Unknown symbols are flashed, not fatal.
func (s *Service) geneScope(ctx context.Context, kase *domain.Case, spec FilterSpec, result *Result) ([]int, error) {
	if len(spec.GenePanels) == 0 && len(spec.HgncSymbols) == 0 {
		return nil, nil
	}
	build := domain.NormalizeBuild(kase.GenomeBuild)
	ids := make(map[int]struct{})

	for _, panelName := range spec.GenePanels {
		if panelName == "hpo" {
			for _, gene := range kase.DynamicGeneList {
				ids[gene.HgncID] = struct{}{}
			}
			continue
		}
		panel, err := s.resolver.Panel(ctx, panelName, nil)
		if err != nil {
			return nil, err
		}
		if panel == nil {
			result.Flashes = append(result.Flashes, fmt.Sprintf("Gene panel %s could not be found", panelName))
			continue
		}
		for id := range panel.HgncIDs() {
			ids[id] = struct{}{}
		}
	}

	for _, symbol := range spec.HgncSymbols {
		// Numeric entries are HGNC ids expanded to their current gene.
		if hgncID, err := strconv.Atoi(symbol); err == nil {
			gene, err := s.resolver.GeneByHgncID(ctx, hgncID, build)
			if err != nil {
				return nil, err
			}
			if gene == nil {
				result.Flashes = append(result.Flashes, fmt.Sprintf("HGNC id %d could not be found", hgncID))
				continue
			}
			ids[gene.HgncID] = struct{}{}
			continue
		}
		lookup, err := s.resolver.GenesBySymbolOrAliases(ctx, symbol, build)
		if err != nil {
			return nil, err
		}
		if len(lookup.Genes) == 0 {
			result.Flashes = append(result.Flashes, fmt.Sprintf("Gene symbol %s could not be found", symbol))
			continue
		}
		if lookup.UsedAliases {
			result.Flashes = append(result.Flashes,
				fmt.Sprintf("Symbol %s is an alias of %s", symbol, lookup.Genes[0].Symbol))
		}
		for _, gene := range lookup.Genes {
			ids[gene.HgncID] = struct{}{}
		}
	}

	out := make([]int, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	if len(out) == 0 {
		// A gene filter that resolved to nothing must not widen the scope
		// to every gene.
		out = []int{-1}
	}
	return out, nil
}

// followCompounds marks compounds dismissed by the filter's scalar
// constraints or below the compound rank score threshold. Partners no longer
// in the store are left untouched.
func (s *Service) followCompounds(ctx context.Context, kase *domain.Case, spec FilterSpec,
	preds []Predicate, variants []*domain.Variant) {
	follow := spec.CompoundFollowFilter
	if !follow && spec.CompoundRankScore == nil {
		return
	}
	for _, variant := range variants {
		for i := range variant.Compounds {
			compound := &variant.Compounds[i]
			if spec.CompoundRankScore != nil && compound.RankScore <= *spec.CompoundRankScore {
				compound.IsDismissed = true
				continue
			}
			if !follow {
				continue
			}
			partner, err := s.store.Variants().VariantByID(ctx, kase.ID, compound.VariantID, variant.VariantType)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"case_id":    kase.ID,
					"variant_id": compound.VariantID,
					"error":      err.Error(),
				}).Warning("Could not fetch compound partner for follow filter")
				continue
			}
			if partner == nil {
				compound.NotLoaded = true
				continue
			}
			for _, p := range preds {
				if p.FollowsCompound() && !p.MatchesCompound(partner) {
					compound.IsDismissed = true
					break
				}
			}
		}
	}
}

// affectedSampleIDs returns the sample ids of the case's affected
// individuals.
func affectedSampleIDs(kase *domain.Case) map[string]struct{} {
	out := make(map[string]struct{})
	for i := range kase.Individuals {
		if kase.Individuals[i].IsAffected() {
			out[kase.Individuals[i].ID] = struct{}{}
		}
	}
	return out
}
