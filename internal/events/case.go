package events

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

// UpdateStatus sets a case status and journals a status event.
func (j *Journal) UpdateStatus(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, status domain.CaseStatus, link string) (*domain.Case, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid case status %q: %w", status, domain.ErrInvalidInput)
	}
	kase.Status = status
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "status",
		Subject:  kase.DisplayName,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// AutoActivate flips an inactive case to active on first variant view by a
// non-admin user. Returns true when the status actually changed, so the
// caller can flash the notice exactly once.
func (j *Journal) AutoActivate(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) (bool, error) {
	if user.IsAdmin() || kase.Status != domain.StatusInactive {
		return false, nil
	}
	if _, err := j.UpdateStatus(ctx, institute, kase, user, domain.StatusActive, link); err != nil {
		return false, err
	}
	j.logger.WithFields(logrus.Fields{
		"case_id": kase.ID,
		"user":    user.Email,
	}).Info("Case activated on first variant view")
	return true, nil
}

// AssignUser adds an assignee and journals an assign event.
func (j *Journal) AssignUser(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) (*domain.Case, error) {
	for _, a := range kase.Assignees {
		if a == user.Email {
			return nil, fmt.Errorf("user %s already assigned to case %s: %w", user.Email, kase.ID, domain.ErrConflict)
		}
	}
	kase.Assignees = append(kase.Assignees, user.Email)
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "assign",
		Subject:  kase.DisplayName,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// UnassignUser removes an assignee and journals an unassign event. Removing
// the last assignee of an active case auto-reverts the case to inactive;
// solved cases keep their status.
func (j *Journal) UnassignUser(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) (*domain.Case, error) {
	kept := kase.Assignees[:0]
	found := false
	for _, a := range kase.Assignees {
		if a == user.Email {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, fmt.Errorf("user %s not assigned to case %s: %w", user.Email, kase.ID, domain.ErrNotFound)
	}
	kase.Assignees = kept
	if len(kase.Assignees) == 0 && kase.Status == domain.StatusActive {
		kase.Status = domain.StatusInactive
	}
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "unassign",
		Subject:  kase.DisplayName,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// PinVariant adds a variant to the case suspects and journals a pin event.
func (j *Journal) PinVariant(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Case, error) {
	for _, s := range kase.Suspects {
		if s == variant.ID {
			return nil, fmt.Errorf("variant %s already pinned in case %s: %w", variant.ID, kase.ID, domain.ErrConflict)
		}
	}
	kase.Suspects = append(kase.Suspects, variant.ID)
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "pin",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// UnpinVariant removes a pinned variant and journals an unpin event.
func (j *Journal) UnpinVariant(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Case, error) {
	kept := kase.Suspects[:0]
	found := false
	for _, s := range kase.Suspects {
		if s == variant.ID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return nil, fmt.Errorf("variant %s not pinned in case %s: %w", variant.ID, kase.ID, domain.ErrNotFound)
	}
	kase.Suspects = kept
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "unpin",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// MarkCausative flags a variant as causative for the case and journals a
// mark_causative event.
func (j *Journal) MarkCausative(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Case, error) {
	for _, c := range kase.Causatives {
		if c == variant.ID {
			return nil, fmt.Errorf("variant %s already causative in case %s: %w", variant.ID, kase.ID, domain.ErrConflict)
		}
	}
	kase.Causatives = append(kase.Causatives, variant.ID)
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "mark_causative",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// UnmarkCausative removes a causative flag and journals an unmark_causative
// event. Removing the last causative leaves the case status untouched.
func (j *Journal) UnmarkCausative(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string, variant *domain.Variant) (*domain.Case, error) {
	kept := kase.Causatives[:0]
	found := false
	for _, c := range kase.Causatives {
		if c == variant.ID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, fmt.Errorf("variant %s not causative in case %s: %w", variant.ID, kase.ID, domain.ErrNotFound)
	}
	kase.Causatives = kept
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category:  domain.EventCategoryVariant,
		Verb:      "unmark_causative",
		Subject:   variant.DisplayName,
		VariantID: variant.VariantID,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// RequestRerun flags the case for a pipeline rerun and journals a rerun
// event. The actual rerun dispatch is an external concern.
func (j *Journal) RequestRerun(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) (*domain.Case, error) {
	if kase.RerunRequested {
		return nil, fmt.Errorf("rerun already requested for case %s: %w", kase.ID, domain.ErrConflict)
	}
	kase.RerunRequested = true
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "rerun",
		Subject:  kase.DisplayName,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// OpenResearch journals a research-mode request for the case.
func (j *Journal) OpenResearch(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link string) (*domain.Case, error) {
	kase.ResearchRequested = true
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "open_research",
		Subject:  kase.DisplayName,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}

// UpdateSynopsis sets the case synopsis and journals a synopsis event.
func (j *Journal) UpdateSynopsis(ctx context.Context, institute *domain.Institute, kase *domain.Case,
	user *domain.User, link, content string) (*domain.Case, error) {
	kase.Synopsis = content
	kase.UpdatedAt = j.now()
	if err := j.store.Cases().UpdateCase(ctx, kase); err != nil {
		return nil, fmt.Errorf("failed to update case %s: %w", kase.ID, err)
	}
	if _, err := j.CreateEvent(ctx, EventParams{
		Institute: institute, Case: kase, User: user, Link: link,
		Category: domain.EventCategoryCase,
		Verb:     "synopsis",
		Subject:  kase.DisplayName,
		Content:  content,
	}); err != nil {
		return nil, err
	}
	return kase, nil
}
