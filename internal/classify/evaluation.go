package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/events"
	"github.com/scout-genomics/scout/internal/store"
)

// Classification schemes.
const (
	SchemeACMG = "acmg"
	SchemeCCV  = "ccv"
)

// Engine runs the classification submission lifecycle: computing buckets
// from criteria, persisting evaluations, and keeping the classification
// field on the variant consistent with the remaining evaluations.
type Engine struct {
	store   store.Store
	journal *events.Journal
	logger  *logrus.Logger
	now     func() time.Time
}

// NewEngine creates a classification engine.
func NewEngine(s store.Store, journal *events.Journal, logger *logrus.Logger) *Engine {
	return &Engine{store: s, journal: journal, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Submission is one classification submission.
type Submission struct {
	Scheme    string
	Variant   *domain.Variant
	Institute *domain.Institute
	Case      *domain.Case
	User      *domain.User
	Link      string
	Criteria  []domain.EvaluationCriterion
	// Classification overrides the computed bucket when non-nil. An empty
	// string clears the classification from the variant.
	Classification *string
}

func terms(criteria []domain.EvaluationCriterion) []string {
	out := make([]string, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, c.Term)
	}
	return out
}

func schemeVerb(scheme string) string {
	if scheme == SchemeCCV {
		return "ccv"
	}
	return "acmg"
}

// SubmitEvaluation computes the classification (unless given), writes it to
// the variant, stores an evaluation document when a classification is set,
// and journals one event. Submitting an empty classification clears the
// variant's classification field without storing an evaluation.
func (e *Engine) SubmitEvaluation(ctx context.Context, sub Submission) (*domain.Evaluation, error) {
	if sub.Scheme != SchemeACMG && sub.Scheme != SchemeCCV {
		return nil, fmt.Errorf("unknown classification scheme %q: %w", sub.Scheme, domain.ErrInvalidInput)
	}

	classification := ""
	if sub.Classification != nil {
		classification = *sub.Classification
	} else if sub.Scheme == SchemeACMG {
		classification = ACMG(terms(sub.Criteria))
	} else {
		classification = CCV(terms(sub.Criteria))
	}

	variant := sub.Variant
	if sub.Scheme == SchemeACMG {
		variant.ACMGClassification = classification
	} else {
		variant.CCVClassification = classification
	}
	if err := e.store.Variants().UpdateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to update variant %s: %w", variant.ID, err)
	}

	var evaluation *domain.Evaluation
	if classification != "" {
		evaluation = &domain.Evaluation{
			ID:                uuid.NewString(),
			VariantID:         variant.VariantID,
			VariantSpecificID: variant.ID,
			CaseID:            sub.Case.ID,
			Institute:         sub.Institute.ID,
			UserID:            sub.User.Email,
			UserName:          sub.User.Name,
			Classification:    classification,
			Criteria:          sub.Criteria,
			CreatedAt:         e.now(),
		}
		if err := e.store.Evaluations().InsertEvaluation(ctx, sub.Scheme, evaluation); err != nil {
			return nil, fmt.Errorf("failed to insert evaluation: %w", err)
		}
	}

	if _, err := e.journal.CreateEvent(ctx, events.EventParams{
		Institute: sub.Institute,
		Case:      sub.Case,
		User:      sub.User,
		Link:      sub.Link,
		Category:  domain.EventCategoryVariant,
		Verb:      schemeVerb(sub.Scheme),
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"scheme":         sub.Scheme,
		"variant_id":     variant.VariantID,
		"case_id":        sub.Case.ID,
		"classification": classification,
		"user":           sub.User.Email,
	}).Info("Classification submitted")
	return evaluation, nil
}

// DeleteEvaluation removes an evaluation and, if it was the last one for the
// (variant, case), clears the classification from the variant by submitting
// an empty classification.
func (e *Engine) DeleteEvaluation(ctx context.Context, scheme, evaluationID string,
	institute *domain.Institute, kase *domain.Case, user *domain.User, link string) error {
	evaluation, err := e.store.Evaluations().Evaluation(ctx, scheme, evaluationID)
	if err != nil {
		return fmt.Errorf("failed to fetch evaluation %s: %w", evaluationID, err)
	}
	if evaluation == nil {
		return fmt.Errorf("evaluation %s: %w", evaluationID, domain.ErrNotFound)
	}
	if err := e.store.Evaluations().DeleteEvaluation(ctx, scheme, evaluationID); err != nil {
		return fmt.Errorf("failed to delete evaluation %s: %w", evaluationID, err)
	}
	return e.checkResetVariantClassification(ctx, scheme, evaluation, institute, kase, user, link)
}

// checkResetVariantClassification clears the variant's classification field
// when no evaluations remain for the (variant, case) pair.
func (e *Engine) checkResetVariantClassification(ctx context.Context, scheme string,
	evaluation *domain.Evaluation, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) error {
	remaining, err := e.store.Evaluations().Evaluations(ctx, scheme, evaluation.CaseID, evaluation.VariantID)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}
	if len(remaining) > 0 {
		return nil
	}
	variant, err := e.store.Variants().VariantByDocID(ctx, evaluation.VariantSpecificID)
	if err != nil {
		return fmt.Errorf("failed to fetch variant %s: %w", evaluation.VariantSpecificID, err)
	}
	if variant == nil {
		return nil
	}
	current := variant.ACMGClassification
	if scheme == SchemeCCV {
		current = variant.CCVClassification
	}
	if current == "" {
		return nil
	}
	empty := ""
	_, err = e.SubmitEvaluation(ctx, Submission{
		Scheme:         scheme,
		Variant:        variant,
		Institute:      institute,
		Case:           kase,
		User:           user,
		Link:           link,
		Classification: &empty,
	})
	return err
}

// Evaluations lists the stored evaluations for a variant in a case, newest
// first.
func (e *Engine) Evaluations(ctx context.Context, scheme, caseID, variantID string) ([]*domain.Evaluation, error) {
	return e.store.Evaluations().Evaluations(ctx, scheme, caseID, variantID)
}
