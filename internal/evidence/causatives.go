package evidence

import (
	"context"
	"fmt"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

// CausativeMatch is one variant marked causative in another case.
type CausativeMatch struct {
	CaseID          string          `json:"case_id"`
	CaseDisplayName string          `json:"case_display_name,omitempty"`
	Variant         *domain.Variant `json:"variant"`
}

// OtherCausatives returns the variants marked causative in other cases the
// user can access that match the given variant: by common id for point
// variants, by coordinate and subtype overlap for structural ones.
func (a *Aggregator) OtherCausatives(ctx context.Context, user *domain.User,
	kase *domain.Case, variant *domain.Variant) ([]CausativeMatch, error) {
	var matches []CausativeMatch
	seenCases := make(map[string]struct{})

	for _, institute := range user.Institutes {
		cases, err := a.store.Cases().Cases(ctx, store.CaseSelection{Institute: institute})
		if err != nil {
			return nil, fmt.Errorf("failed to list cases of %s: %w", institute, err)
		}
		for _, otherCase := range cases {
			if otherCase.ID == kase.ID || len(otherCase.Causatives) == 0 {
				continue
			}
			if _, done := seenCases[otherCase.ID]; done {
				continue
			}
			seenCases[otherCase.ID] = struct{}{}
			for _, causativeDocID := range otherCase.Causatives {
				causative, err := a.store.Variants().VariantByDocID(ctx, causativeDocID)
				if err != nil {
					return nil, fmt.Errorf("failed to fetch causative %s: %w", causativeDocID, err)
				}
				if causative == nil {
					continue
				}
				if causativeMatches(variant, causative) {
					matches = append(matches, CausativeMatch{
						CaseID:          otherCase.ID,
						CaseDisplayName: otherCase.DisplayName,
						Variant:         causative,
					})
				}
			}
		}
	}
	return matches, nil
}

// causativeMatches reports whether two variants describe the same event.
func causativeMatches(variant, other *domain.Variant) bool {
	if variant.VariantID != "" && variant.VariantID == other.VariantID {
		return true
	}
	if isStructural(variant) && isStructural(other) {
		return overlappingSV(variant, other)
	}
	return false
}

func isStructural(v *domain.Variant) bool {
	return v.Category == domain.CategorySV || v.Category == domain.CategoryCancerSV
}

// overlappingSV reports whether two structural variants share subtype and
// overlap in coordinates.
func overlappingSV(a, b *domain.Variant) bool {
	if a.SubCategory != b.SubCategory || a.Chromosome != b.Chromosome {
		return false
	}
	return a.Position <= b.EndPosition() && b.Position <= a.EndPosition()
}

// ManagedVariantMatch returns the managed variant entry matching the given
// variant for a genome build, or nil. Matches are surfaced in views but
// never journaled.
func (a *Aggregator) ManagedVariantMatch(ctx context.Context, variant *domain.Variant,
	build string) (*domain.ManagedVariant, error) {
	managed, err := a.store.ManagedVariants().ManagedVariant(ctx,
		variant.Chromosome, variant.Position, variant.Reference, variant.Alternative,
		domain.NormalizeBuild(build))
	if err != nil {
		return nil, fmt.Errorf("failed to match managed variant: %w", err)
	}
	return managed, nil
}
