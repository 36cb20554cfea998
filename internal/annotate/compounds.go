package annotate

import (
	"context"
	"fmt"
	"sort"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

// DecorateCompounds refreshes the materialized compound partners of a
// variant: sorted by combined score descending, with current gene
// annotations and dismissal status. Partners whose documents are gone,
// typically research variants of a reverted case, keep their stored summary
// and are marked not loaded.
func (a *Annotator) DecorateCompounds(ctx context.Context, kase *domain.Case, variant *domain.Variant) error {
	if len(variant.Compounds) == 0 {
		return nil
	}
	dismissed, err := a.dismissedVariantIDs(ctx, kase.ID)
	if err != nil {
		return err
	}
	for i := range variant.Compounds {
		compound := &variant.Compounds[i]
		_, compound.IsDismissed = dismissed[compound.VariantID]

		partner, err := a.store.Variants().VariantByID(ctx, kase.ID, compound.VariantID, variant.VariantType)
		if err != nil {
			return fmt.Errorf("failed to fetch compound partner %s: %w", compound.VariantID, err)
		}
		if partner == nil {
			compound.NotLoaded = true
			continue
		}
		compound.NotLoaded = false
		compound.DisplayName = partner.DisplayName
		compound.RankScore = partner.RankScore
		compound.Genes = partner.Genes
		compound.RegionAnnotations = RegionAnnotations(partner)
		compound.FunctionalAnnotations = FunctionalAnnotations(partner)
	}
	sort.SliceStable(variant.Compounds, func(i, j int) bool {
		return variant.Compounds[i].CombinedScore > variant.Compounds[j].CombinedScore
	})
	return nil
}

// dismissedVariantIDs returns the ids of the case's dismissed variants.
func (a *Annotator) dismissedVariantIDs(ctx context.Context, caseID string) (map[string]struct{}, error) {
	assessed, err := a.store.Variants().Select(ctx, store.VariantSelection{
		CaseID:       caseID,
		OnlyAssessed: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assessed variants of case %s: %w", caseID, err)
	}
	dismissed := make(map[string]struct{})
	for _, v := range assessed {
		if len(v.DismissVariant) > 0 {
			dismissed[v.VariantID] = struct{}{}
		}
	}
	return dismissed, nil
}
