package query

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

// Filters manages saved filters: stash, load, advisory locks, audits.
type Filters struct {
	store   store.Store
	journal *events.Journal
	logger  *logrus.Logger
	now     func() time.Time
}

// NewFilters creates the saved-filter service.
func NewFilters(s store.Store, journal *events.Journal, logger *logrus.Logger) *Filters {
	return &Filters{store: s, journal: journal, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// StashFilter persists the submitted filter form under a display name and
// journals a filter_stash event on the case.
func (f *Filters) StashFilter(ctx context.Context, payload map[string][]string, displayName string,
	institute *domain.Institute, kase *domain.Case, user *domain.User,
	category domain.Category, link string) (*domain.Filter, error) {
	filter := &domain.Filter{
		ID:          uuid.NewString(),
		Institute:   institute.ID,
		Category:    category,
		DisplayName: displayName,
		Payload:     payload,
		CreatedAt:   f.now(),
	}
	if err := f.store.Filters().InsertFilter(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to stash filter: %w", err)
	}
	if _, err := f.journal.CreateEvent(ctx, events.EventParams{
		Institute: institute,
		Case:      kase,
		User:      user,
		Link:      link,
		Category:  domain.EventCategoryCase,
		Verb:      "filter_stash",
		Subject:   displayName,
	}); err != nil {
		return nil, err
	}
	f.logger.WithFields(logrus.Fields{
		"filter":    displayName,
		"institute": institute.ID,
		"user":      user.Email,
	}).Info("Filter stashed")
	return filter, nil
}

// LoadFilter fetches a saved filter for restoring into the form. Locked
// filters load for everyone; the lock only guards edits.
func (f *Filters) LoadFilter(ctx context.Context, filterID string) (*domain.Filter, error) {
	filter, err := f.store.Filters().Filter(ctx, filterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filter %s: %w", filterID, err)
	}
	return filter, nil
}

// InstituteFilters lists the saved filters of an institute and category.
func (f *Filters) InstituteFilters(ctx context.Context, institute string, category domain.Category) ([]*domain.Filter, error) {
	return f.store.Filters().Filters(ctx, institute, category)
}

// LockFilter takes the advisory lock for the user.
func (f *Filters) LockFilter(ctx context.Context, filterID string, user *domain.User) (*domain.Filter, error) {
	filter, err := f.editableFilter(ctx, filterID, user)
	if err != nil {
		return nil, err
	}
	filter.LockHolder = user.Email
	if err := f.store.Filters().UpdateFilter(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to lock filter %s: %w", filterID, err)
	}
	return filter, nil
}

// UnlockFilter releases the lock; only the holder may release it.
func (f *Filters) UnlockFilter(ctx context.Context, filterID string, user *domain.User) (*domain.Filter, error) {
	filter, err := f.editableFilter(ctx, filterID, user)
	if err != nil {
		return nil, err
	}
	filter.LockHolder = ""
	if err := f.store.Filters().UpdateFilter(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to unlock filter %s: %w", filterID, err)
	}
	return filter, nil
}

// DeleteFilter removes a saved filter unless it is locked by someone else.
func (f *Filters) DeleteFilter(ctx context.Context, filterID string, user *domain.User) error {
	if _, err := f.editableFilter(ctx, filterID, user); err != nil {
		return err
	}
	if err := f.store.Filters().DeleteFilter(ctx, filterID); err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", filterID, err)
	}
	return nil
}

// AuditFilter appends an immutable audit entry recording that the filter was
// applied on a case, and journals a filter_audit event.
func (f *Filters) AuditFilter(ctx context.Context, filterID string, institute *domain.Institute,
	kase *domain.Case, user *domain.User, link string) (*domain.Filter, error) {
	filter, err := f.store.Filters().Filter(ctx, filterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filter %s: %w", filterID, err)
	}
	if filter == nil {
		return nil, fmt.Errorf("filter %s: %w", filterID, domain.ErrNotFound)
	}
	filter.AuditTrail = append(filter.AuditTrail, domain.FilterAuditEntry{
		UserName:  user.Name,
		CaseID:    kase.ID,
		Link:      link,
		CreatedAt: f.now(),
	})
	if err := f.store.Filters().UpdateFilter(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to audit filter %s: %w", filterID, err)
	}
	if _, err := f.journal.CreateEvent(ctx, events.EventParams{
		Institute: institute,
		Case:      kase,
		User:      user,
		Link:      link,
		Category:  domain.EventCategoryCase,
		Verb:      "filter_audit",
		Subject:   filter.DisplayName,
	}); err != nil {
		return nil, err
	}
	return filter, nil
}

func (f *Filters) editableFilter(ctx context.Context, filterID string, user *domain.User) (*domain.Filter, error) {
	filter, err := f.store.Filters().Filter(ctx, filterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filter %s: %w", filterID, err)
	}
	if filter == nil {
		return nil, fmt.Errorf("filter %s: %w", filterID, domain.ErrNotFound)
	}
	if !filter.EditableBy(user.Email) {
		return nil, fmt.Errorf("filter %s is locked by %s: %w", filterID, filter.LockHolder, domain.ErrLocked)
	}
	return filter, nil
}
