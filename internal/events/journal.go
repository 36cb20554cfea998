// Package events implements the case lifecycle and the append-only audit
// journal. Every mutation of case or variant curation state flows through
// here and produces exactly one event, except the dismissal reset which
// produces one case-level plus N variant-level events.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

// Journal writes events and mutates case/variant curation state.
type Journal struct {
	store  store.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewJournal creates a journal over the given store.
func NewJournal(s store.Store, logger *logrus.Logger) *Journal {
	return &Journal{store: s, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// EventParams describes one event to append.
type EventParams struct {
	Institute *domain.Institute
	Case      *domain.Case
	User      *domain.User
	Link      string
	Category  string
	Verb      string
	Subject   string
	Level     string
	VariantID string
	Content   string
	PanelName string
	HpoTerm   string
}

// CreateEvent appends one event. The verb must belong to the closed
// vocabulary.
func (j *Journal) CreateEvent(ctx context.Context, p EventParams) (*domain.Event, error) {
	if _, ok := constants.VerbsMap[p.Verb]; !ok {
		return nil, fmt.Errorf("unknown event verb %q: %w", p.Verb, domain.ErrInvalidInput)
	}
	level := p.Level
	if level == "" {
		level = domain.EventLevelSpecific
	}
	now := j.now()
	event := &domain.Event{
		ID:        uuid.NewString(),
		Institute: p.Institute.ID,
		CaseID:    p.Case.ID,
		UserID:    p.User.Email,
		UserName:  p.User.Name,
		Link:      p.Link,
		Category:  p.Category,
		Verb:      p.Verb,
		Subject:   p.Subject,
		Level:     level,
		VariantID: p.VariantID,
		Content:   p.Content,
		PanelName: p.PanelName,
		HpoTerm:   p.HpoTerm,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.store.Events().InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	j.logger.WithFields(logrus.Fields{
		"verb":     p.Verb,
		"category": p.Category,
		"case_id":  p.Case.ID,
		"user":     p.User.Email,
	}).Info("Event created")
	return event, nil
}

// CaseEvents lists the case-level events of a case, newest first.
func (j *Journal) CaseEvents(ctx context.Context, caseID string) ([]*domain.Event, error) {
	return j.store.Events().Events(ctx, caseID, domain.EventCategoryCase, "")
}

// VariantEvents lists the events of one variant in a case, newest first.
func (j *Journal) VariantEvents(ctx context.Context, caseID, variantID string) ([]*domain.Event, error) {
	return j.store.Events().Events(ctx, caseID, domain.EventCategoryVariant, variantID)
}

// Comment journals a comment on a case or, when variantID is non-empty, on a
// variant. Level "global" comments on a variant are visible wherever the
// same variant appears.
func (j *Journal) Comment(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link, variantID, content, level string) (*domain.Event, error) {
	category := domain.EventCategoryCase
	subject := kase.DisplayName
	if variantID != "" {
		category = domain.EventCategoryVariant
		subject = variantID
	}
	return j.CreateEvent(ctx, EventParams{
		Institute: institute,
		Case:      kase,
		User:      user,
		Link:      link,
		Category:  category,
		Verb:      "comment",
		Subject:   subject,
		Level:     level,
		VariantID: variantID,
		Content:   content,
	})
}

// UpdateComment edits a comment's content in place and journals a
// comment_update event referencing the original. The original subject is
// carried over unchanged.
func (j *Journal) UpdateComment(ctx context.Context, eventID, content, link string,
	institute *domain.Institute, kase *domain.Case, user *domain.User) (*domain.Event, error) {
	original, err := j.store.Events().Event(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	if original == nil {
		return nil, fmt.Errorf("comment %s: %w", eventID, domain.ErrNotFound)
	}
	if original.Verb != "comment" {
		return nil, fmt.Errorf("event %s is not a comment: %w", eventID, domain.ErrInvalidInput)
	}
	if err := j.store.Events().UpdateEventContent(ctx, eventID, content); err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", eventID, err)
	}
	return j.CreateEvent(ctx, EventParams{
		Institute: institute,
		Case:      kase,
		User:      user,
		Link:      link,
		Category:  original.Category,
		Verb:      "comment_update",
		Subject:   original.Subject,
		Level:     original.Level,
		VariantID: original.VariantID,
		Content:   eventID,
	})
}
