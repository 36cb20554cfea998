// Package evidence aggregates cross-case evidence for a variant: matching
// manual assessments from other cases, causatives seen elsewhere, managed
// variant matches and allele observations from the external observation
// service.
package evidence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
	"github.com/scout-genomics/scout/pkg/loqus"
)

// Aggregator collects cross-case evidence.
type Aggregator struct {
	store    store.Store
	registry *loqus.Registry
	logger   *logrus.Logger
}

// New creates an evidence aggregator. The registry may be nil when no
// observation service is configured.
func New(s store.Store, registry *loqus.Registry, logger *logrus.Logger) *Aggregator {
	return &Aggregator{store: s, registry: registry, logger: logger}
}

// Assessment is one display-ready manual assessment from another case.
type Assessment struct {
	Kind            string `json:"type"`
	CaseID          string `json:"case_id"`
	CaseDisplayName string `json:"case_display_name,omitempty"`
	Label           string `json:"label"`
	LabelClass      string `json:"label_class,omitempty"`
}

// MatchingAssessments collects the manual assessments of the same variant in
// other cases the user can access. The current case's own assessments are
// never part of the answer. Cases sharing a group with the current case are
// returned separately so the view can highlight them.
func (a *Aggregator) MatchingAssessments(ctx context.Context, user *domain.User,
	kase *domain.Case, variant *domain.Variant) (matching, group []Assessment, err error) {
	if variant.SimpleID == "" {
		return nil, nil, nil
	}
	siblings, err := a.store.Variants().VariantsBySimpleID(ctx, variant.SimpleID, variant.VariantType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch variants for %s: %w", variant.SimpleID, err)
	}
	for _, sibling := range siblings {
		if sibling.CaseID == kase.ID || !sibling.HasAssessment() {
			continue
		}
		otherCase, err := a.store.Cases().Case(ctx, sibling.CaseID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch case %s: %w", sibling.CaseID, err)
		}
		if otherCase == nil {
			continue
		}
		accessible := false
		for _, institute := range user.Institutes {
			if otherCase.HasCollaborator(institute) {
				accessible = true
				break
			}
		}
		inGroup := kase.SharesGroupWith(otherCase)
		if !accessible && !inGroup {
			continue
		}
		entries := variantAssessments(sibling, otherCase)
		if inGroup {
			group = append(group, entries...)
		} else {
			matching = append(matching, entries...)
		}
	}
	return matching, group, nil
}

// ClinicalSiblingAssessments returns the assessments of the clinical sibling
// of a research variant in the same case. Research views label the variant
// with the clinical stream's assessments when it carries none itself.
func (a *Aggregator) ClinicalSiblingAssessments(ctx context.Context, kase *domain.Case,
	variant *domain.Variant) ([]Assessment, error) {
	if variant.VariantType != domain.TypeResearch || variant.SimpleID == "" {
		return nil, nil
	}
	siblings, err := a.store.Variants().VariantsBySimpleID(ctx, variant.SimpleID, domain.TypeClinical)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clinical sibling of %s: %w", variant.SimpleID, err)
	}
	for _, sibling := range siblings {
		if sibling.CaseID != kase.ID || !sibling.HasAssessment() {
			continue
		}
		return variantAssessments(sibling, kase), nil
	}
	return nil, nil
}

// variantAssessments renders a variant's manual assessments with labels and
// CSS classes from the fixed vocabularies.
func variantAssessments(variant *domain.Variant, kase *domain.Case) []Assessment {
	var out []Assessment
	add := func(kind, label, class string) {
		out = append(out, Assessment{
			Kind:            kind,
			CaseID:          kase.ID,
			CaseDisplayName: kase.DisplayName,
			Label:           label,
			LabelClass:      class,
		})
	}

	if variant.ACMGClassification != "" {
		if option, ok := constants.ACMGCompleteMap[variant.ACMGClassification]; ok {
			add("acmg_classification", option.Label, option.Color)
		}
	}
	if variant.CCVClassification != "" {
		if option, ok := constants.CCVCompleteMap[variant.CCVClassification]; ok {
			add("ccv_classification", option.Label, option.Color)
		}
	}
	if variant.ManualRank != nil {
		if option, ok := constants.ManualRankOptions[*variant.ManualRank]; ok {
			add("manual_rank", option.Name, option.LabelClass)
		}
	}
	if variant.CancerTier != "" {
		if option, ok := constants.CancerTierOptions[variant.CancerTier]; ok {
			add("cancer_tier", option.Label, option.LabelClass)
		}
	}
	for _, code := range variant.DismissVariant {
		option, ok := constants.DismissVariantOptions[code]
		if !ok {
			option, ok = constants.CancerDismissVariantOptions[code]
		}
		if ok {
			add("dismiss_variant", option.Label, option.LabelClass)
		} else {
			add("dismiss_variant", strconv.Itoa(code), "info")
		}
	}
	for _, code := range variant.MosaicTags {
		if option, ok := constants.MosaicismOptions[code]; ok {
			add("mosaic_tags", option.Label, "default")
		}
	}
	return out
}
