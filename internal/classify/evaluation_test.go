package classify

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/events"
	"github.com/scout-genomics/scout/internal/store"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupEngine(t *testing.T) (*Engine, *store.MemStore, *domain.Institute, *domain.Case, *domain.User, *domain.Variant) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemStore()

	institute := &domain.Institute{ID: "cust000", DisplayName: "Test institute"}
	require.NoError(t, mem.Institutes().UpsertInstitute(ctx, institute))

	user := &domain.User{ID: "clark@mail.com", Email: "clark@mail.com", Name: "Clark Kent", Institutes: []string{"cust000"}}
	require.NoError(t, mem.Users().UpsertUser(ctx, user))

	kase := &domain.Case{ID: "internal-1", DisplayName: "case-1", Owner: "cust000", GenomeBuild: "37", Status: domain.StatusActive}
	require.NoError(t, mem.Cases().InsertCase(ctx, kase))

	variant := &domain.Variant{
		ID:          "doc-1",
		VariantID:   "1_880086_T_C",
		SimpleID:    "1_880086_T_C",
		DisplayName: "1_880086_T_C_clinical",
		CaseID:      kase.ID,
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    880086,
		RankScore:   15,
	}
	require.NoError(t, mem.Variants().InsertVariant(ctx, variant))

	logger := testLogger()
	journal := events.NewJournal(mem, logger)
	return NewEngine(mem, journal, logger), mem, institute, kase, user, variant
}

func TestSubmitEvaluation(t *testing.T) {
	ctx := context.Background()
	engine, mem, institute, kase, user, variant := setupEngine(t)

	criteria := []domain.EvaluationCriterion{
		{Term: "PVS1", Comment: "LOF established"},
		{Term: "PS1"},
	}
	evaluation, err := engine.SubmitEvaluation(ctx, Submission{
		Scheme:    SchemeACMG,
		Variant:   variant,
		Institute: institute,
		Case:      kase,
		User:      user,
		Link:      "/variant/doc-1",
		Criteria:  criteria,
	})
	require.NoError(t, err)
	require.NotNil(t, evaluation)
	assert.Equal(t, Pathogenic, evaluation.Classification)

	stored, err := mem.Variants().VariantByDocID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, Pathogenic, stored.ACMGClassification)

	eventList, err := mem.Events().Events(ctx, kase.ID, domain.EventCategoryVariant, variant.VariantID)
	require.NoError(t, err)
	require.Len(t, eventList, 1)
	assert.Equal(t, "acmg", eventList[0].Verb)
}

func TestSubmitEvaluationExplicitClassification(t *testing.T) {
	ctx := context.Background()
	engine, mem, institute, kase, user, variant := setupEngine(t)

	classification := LikelyOncogenic
	_, err := engine.SubmitEvaluation(ctx, Submission{
		Scheme:         SchemeCCV,
		Variant:        variant,
		Institute:      institute,
		Case:           kase,
		User:           user,
		Criteria:       []domain.EvaluationCriterion{{Term: "OVS1_Moderate"}, {Term: "OS1"}},
		Classification: &classification,
	})
	require.NoError(t, err)

	stored, err := mem.Variants().VariantByDocID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, LikelyOncogenic, stored.CCVClassification)
	assert.Empty(t, stored.ACMGClassification)
}

func TestDeleteEvaluationResetsClassification(t *testing.T) {
	ctx := context.Background()
	engine, mem, institute, kase, user, variant := setupEngine(t)

	evaluation, err := engine.SubmitEvaluation(ctx, Submission{
		Scheme:    SchemeACMG,
		Variant:   variant,
		Institute: institute,
		Case:      kase,
		User:      user,
		Criteria:  []domain.EvaluationCriterion{{Term: "PVS1"}, {Term: "PS1"}},
	})
	require.NoError(t, err)

	require.NoError(t, engine.DeleteEvaluation(ctx, SchemeACMG, evaluation.ID, institute, kase, user, ""))

	stored, err := mem.Variants().VariantByDocID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ACMGClassification)

	remaining, err := engine.Evaluations(ctx, SchemeACMG, kase.ID, variant.VariantID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// One event for the submission, one for the clearing submit.
	eventList, err := mem.Events().Events(ctx, kase.ID, domain.EventCategoryVariant, variant.VariantID)
	require.NoError(t, err)
	assert.Len(t, eventList, 2)
}

func TestDeleteEvaluationKeepsClassificationWhenOthersRemain(t *testing.T) {
	ctx := context.Background()
	engine, mem, institute, kase, user, variant := setupEngine(t)

	first, err := engine.SubmitEvaluation(ctx, Submission{
		Scheme: SchemeACMG, Variant: variant, Institute: institute, Case: kase, User: user,
		Criteria: []domain.EvaluationCriterion{{Term: "PVS1"}, {Term: "PS1"}},
	})
	require.NoError(t, err)
	_, err = engine.SubmitEvaluation(ctx, Submission{
		Scheme: SchemeACMG, Variant: variant, Institute: institute, Case: kase, User: user,
		Criteria: []domain.EvaluationCriterion{{Term: "PS1"}, {Term: "PM1"}},
	})
	require.NoError(t, err)

	require.NoError(t, engine.DeleteEvaluation(ctx, SchemeACMG, first.ID, institute, kase, user, ""))

	stored, err := mem.Variants().VariantByDocID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, LikelyPathogenic, stored.ACMGClassification)
}

func TestSubmitEvaluationUnknownScheme(t *testing.T) {
	ctx := context.Background()
	engine, _, institute, kase, user, variant := setupEngine(t)

	_, err := engine.SubmitEvaluation(ctx, Submission{
		Scheme: "amp", Variant: variant, Institute: institute, Case: kase, User: user,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
