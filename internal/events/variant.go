package events

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func (j *Journal) updateVariant(ctx context.Context, v *domain.Variant) error {
	if err := j.store.Variants().UpdateVariant(ctx, v); err != nil {
		return fmt.Errorf("failed to update variant %s: %w", v.ID, err)
	}
	return nil
}

// UpdateManualRank sets or clears (nil) the manual rank of a variant and
// journals a manual_rank event.
func (j *Journal) UpdateManualRank(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant, rank *int) (*domain.Variant, error) {
	if rank != nil {
		if _, ok := constants.ManualRankOptions[*rank]; !ok {
			return nil, fmt.Errorf("unknown manual rank %d: %w", *rank, domain.ErrInvalidInput)
		}
	}
	variant.ManualRank = rank
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "manual_rank",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateCancerTier sets or clears ("") the cancer tier of a variant and
// journals a cancer_tier event.
func (j *Journal) UpdateCancerTier(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant, tier string) (*domain.Variant, error) {
	if tier != "" {
		if _, ok := constants.CancerTierOptions[tier]; !ok {
			return nil, fmt.Errorf("unknown cancer tier %q: %w", tier, domain.ErrInvalidInput)
		}
	}
	variant.CancerTier = tier
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "cancer_tier",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// DismissVariant sets the dismissal reason codes on a variant and journals a
// dismiss_variant event. Cancer track cases accept the cancer-specific codes
// in addition to the common vocabulary.
func (j *Journal) DismissVariant(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant, reasons []int) (*domain.Variant, error) {
	for _, code := range reasons {
		if _, ok := constants.DismissVariantOptions[code]; ok {
			continue
		}
		if _, ok := constants.CancerDismissVariantOptions[code]; ok && kase.Track == "cancer" {
			continue
		}
		return nil, fmt.Errorf("unknown dismissal code %d: %w", code, domain.ErrInvalidInput)
	}
	variant.DismissVariant = reasons
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "dismiss_variant",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// ResetDismissVariant clears the dismissal of one variant and journals a
// reset_dismiss_variant event.
func (j *Journal) ResetDismissVariant(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Variant, error) {
	variant.DismissVariant = nil
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "reset_dismiss_variant",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// ResetAllDismissedVariants clears every dismissed variant of a case. One
// case-level event plus one event per cleared variant is journaled.
func (j *Journal) ResetAllDismissedVariants(ctx context.Context, institute *domain.Institute,
	kase *domain.Case, user *domain.User, link string) (int, error) {
	variants, err := j.store.Variants().Select(ctx, store.VariantSelection{CaseID: kase.ID})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch variants for case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "reset_dismiss_all_variants",
		Subject:  kase.DisplayName,
	}); err != nil {
		return 0, err
	}
	cleared := 0
	for _, v := range variants {
		if len(v.DismissVariant) == 0 {
			continue
		}
		if _, err := j.ResetDismissVariant(ctx, institute, kase, user, link, v); err != nil {
			return cleared, err
		}
		cleared++
	}
	j.logger.WithFields(logrus.Fields{
		"case_id": kase.ID,
		"cleared": cleared,
		"user":    user.Email,
	}).Info("Reset all dismissed variants")
	return cleared, nil
}

// UpdateMosaicTags sets the mosaicism tags of a variant and journals a
// mosaic_tags event.
func (j *Journal) UpdateMosaicTags(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant, tags []int) (*domain.Variant, error) {
	for _, tag := range tags {
		if _, ok := constants.MosaicismOptions[tag]; !ok {
			return nil, fmt.Errorf("unknown mosaicism tag %d: %w", tag, domain.ErrInvalidInput)
		}
	}
	variant.MosaicTags = tags
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "mosaic_tags",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// OrderSanger marks a variant for Sanger sequencing and journals a sanger
// event at global level so the order shows up across cases.
func (j *Journal) OrderSanger(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Variant, error) {
	if variant.Sanger == "True" {
		return nil, fmt.Errorf("sanger already ordered for variant %s: %w", variant.ID, domain.ErrConflict)
	}
	variant.Sanger = "True"
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "sanger",
		Subject:   variant.DisplayName,
		Level:     domain.EventLevelGlobal,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// CancelSanger withdraws a Sanger order and journals a cancel_sanger event.
func (j *Journal) CancelSanger(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Variant, error) {
	variant.Sanger = ""
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "cancel_sanger",
		Subject:   variant.DisplayName,
		Level:     domain.EventLevelGlobal,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}

// Validate records the verification outcome of a variant call and journals a
// validate event.
func (j *Journal) Validate(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant, status string) (*domain.Variant, error) {
	valid := false
	for _, s := range constants.VariantCalls {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown validation status %q: %w", status, domain.ErrInvalidInput)
	}
	variant.ValidationStatus = status
	if err := j.updateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "validate",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return variant, nil
}
