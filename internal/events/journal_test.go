package events

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func testJournal(t *testing.T) (*Journal, store.Store, *domain.Institute, *domain.Case, *domain.User) {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	institute := &domain.Institute{ID: "cust000", DisplayName: "Clinical Genomics"}
	require.NoError(t, st.Institutes().UpsertInstitute(ctx, institute))

	user := &domain.User{Email: "anna@clinic.se", Name: "Anna", Institutes: []string{"cust000"}}
	require.NoError(t, st.Users().UpsertUser(ctx, user))

	kase := &domain.Case{
		ID:          "case-1",
		DisplayName: "F0001",
		Owner:       "cust000",
		Status:      domain.StatusInactive,
	}
	require.NoError(t, st.Cases().InsertCase(ctx, kase))

	return NewJournal(st, logger), st, institute, kase, user
}

func insertTestVariant(t *testing.T, st store.Store, docID string) *domain.Variant {
	t.Helper()
	variant := &domain.Variant{
		ID:          docID,
		VariantID:   docID + "-common",
		DisplayName: docID + "_display",
		CaseID:      "case-1",
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    1000,
	}
	require.NoError(t, st.Variants().InsertVariant(context.Background(), variant))
	return variant
}

func TestUpdateStatusJournalsEvent(t *testing.T) {
	journal, _, institute, kase, user := testJournal(t)
	ctx := context.Background()

	updated, err := journal.UpdateStatus(ctx, institute, kase, user, domain.StatusSolved, "/link")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSolved, updated.Status)

	evts, err := journal.CaseEvents(ctx, kase.ID)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, "status", evts[0].Verb)
	assert.Equal(t, user.Email, evts[0].UserID)

	_, err = journal.UpdateStatus(ctx, institute, kase, user, domain.CaseStatus("bogus"), "/link")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAutoActivate(t *testing.T) {
	journal, st, institute, kase, user := testJournal(t)
	ctx := context.Background()

	activated, err := journal.AutoActivate(ctx, institute, kase, user, "/link")
	require.NoError(t, err)
	assert.True(t, activated)

	stored, err := st.Cases().Case(ctx, kase.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)

	// Second visit is a no-op, the case is already active.
	activated, err = journal.AutoActivate(ctx, institute, stored, user, "/link")
	require.NoError(t, err)
	assert.False(t, activated)

	// Admin visits never touch the status.
	admin := &domain.User{Email: "root@clinic.se", Roles: []string{domain.RoleAdmin}}
	stored.Status = domain.StatusInactive
	require.NoError(t, st.Cases().UpdateCase(ctx, stored))
	activated, err = journal.AutoActivate(ctx, institute, stored, admin, "/link")
	require.NoError(t, err)
	assert.False(t, activated)
}

func TestAssignAndUnassign(t *testing.T) {
	journal, _, institute, kase, user := testJournal(t)
	ctx := context.Background()

	updated, err := journal.AssignUser(ctx, institute, kase, user, "/link")
	require.NoError(t, err)
	assert.Contains(t, updated.Assignees, user.Email)

	_, err = journal.AssignUser(ctx, institute, updated, user, "/link")
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err = journal.UnassignUser(ctx, institute, updated, user, "/link")
	require.NoError(t, err)
	assert.NotContains(t, updated.Assignees, user.Email)
}

func TestPinAndCausativeLifecycle(t *testing.T) {
	journal, st, institute, kase, user := testJournal(t)
	ctx := context.Background()
	variant := insertTestVariant(t, st, "doc-1")

	updated, err := journal.PinVariant(ctx, institute, kase, user, "/link", variant)
	require.NoError(t, err)
	assert.Contains(t, updated.Suspects, variant.ID)

	_, err = journal.PinVariant(ctx, institute, updated, user, "/link", variant)
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err = journal.MarkCausative(ctx, institute, updated, user, "/link", variant)
	require.NoError(t, err)
	assert.Contains(t, updated.Causatives, variant.ID)

	updated, err = journal.UnmarkCausative(ctx, institute, updated, user, "/link", variant)
	require.NoError(t, err)
	assert.Empty(t, updated.Causatives)

	evts, err := journal.VariantEvents(ctx, kase.ID, variant.VariantID)
	require.NoError(t, err)
	assert.Len(t, evts, 3)
}

func TestDismissAndResetAll(t *testing.T) {
	journal, st, institute, kase, user := testJournal(t)
	ctx := context.Background()
	first := insertTestVariant(t, st, "doc-1")
	second := insertTestVariant(t, st, "doc-2")

	_, err := journal.DismissVariant(ctx, institute, kase, user, "/link", first, []int{2, 3})
	require.NoError(t, err)
	_, err = journal.DismissVariant(ctx, institute, kase, user, "/link", second, []int{5})
	require.NoError(t, err)

	_, err = journal.DismissVariant(ctx, institute, kase, user, "/link", first, []int{999})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	reset, err := journal.ResetAllDismissedVariants(ctx, institute, kase, user, "/link")
	require.NoError(t, err)
	assert.Equal(t, 2, reset)

	stored, err := st.Variants().VariantByDocID(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DismissVariant)
}

func TestCommentUpdateKeepsSubject(t *testing.T) {
	journal, _, institute, kase, user := testJournal(t)
	ctx := context.Background()

	event, err := journal.Comment(ctx, institute, kase, user, "/link", "", "first take", "")
	require.NoError(t, err)
	assert.Equal(t, domain.EventCategoryCase, event.Category)

	updated, err := journal.UpdateComment(ctx, event.ID, "second take", "/link", institute, kase, user)
	require.NoError(t, err)
	assert.Equal(t, event.Subject, updated.Subject)

	evts, err := journal.CaseEvents(ctx, kase.ID)
	require.NoError(t, err)
	// The edit journals its own comment_update event.
	require.Len(t, evts, 2)

	_, err = journal.UpdateComment(ctx, "missing", "content", "/link", institute, kase, user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSangerOrderAndCancel(t *testing.T) {
	journal, st, institute, kase, user := testJournal(t)
	ctx := context.Background()
	variant := insertTestVariant(t, st, "doc-1")

	updated, err := journal.OrderSanger(ctx, institute, kase, user, "/link", variant)
	require.NoError(t, err)
	assert.Equal(t, "True", updated.Sanger)

	_, err = journal.OrderSanger(ctx, institute, kase, user, "/link", updated)
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err = journal.CancelSanger(ctx, institute, kase, user, "/link", updated)
	require.NoError(t, err)
	assert.Empty(t, updated.Sanger)
}
