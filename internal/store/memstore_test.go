package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
)

func seedVariant(t *testing.T, m *MemStore, docID string, rank float64, mutate func(*domain.Variant)) {
	t.Helper()
	variant := &domain.Variant{
		ID:          docID,
		VariantID:   docID + "-common",
		SimpleID:    docID + "-simple",
		CaseID:      "case-1",
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    1000,
		RankScore:   rank,
	}
	if mutate != nil {
		mutate(variant)
	}
	require.NoError(t, m.Variants().InsertVariant(context.Background(), variant))
}

func TestSelectSortsByRankScoreWithStableTieBreak(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	seedVariant(t, m, "b", 10, nil)
	seedVariant(t, m, "a", 10, nil)
	seedVariant(t, m, "c", 25, nil)

	variants, err := m.Variants().Select(ctx, VariantSelection{
		CaseID:            "case-1",
		Category:          domain.CategorySNV,
		VariantType:       domain.TypeClinical,
		SortRankScoreDesc: true,
	})
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, "c", variants[0].ID)
	assert.Equal(t, "a", variants[1].ID)
	assert.Equal(t, "b", variants[2].ID)
}

func TestSelectOnlyAssessed(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	rank := 4
	seedVariant(t, m, "assessed", 10, func(v *domain.Variant) { v.ManualRank = &rank })
	seedVariant(t, m, "plain", 20, nil)

	variants, err := m.Variants().Select(ctx, VariantSelection{
		CaseID:       "case-1",
		OnlyAssessed: true,
	})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "assessed", variants[0].ID)
}

func TestSelectChromosomeMatchesEitherEnd(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	seedVariant(t, m, "onto-1", 12, func(v *domain.Variant) {
		v.Category = domain.CategorySV
		v.SubCategory = "bnd"
		v.Chromosome = "2"
		v.EndChrom = "1"
	})
	seedVariant(t, m, "elsewhere", 15, func(v *domain.Variant) {
		v.Category = domain.CategorySV
		v.Chromosome = "3"
	})

	variants, err := m.Variants().Select(ctx, VariantSelection{
		CaseID:     "case-1",
		Category:   domain.CategorySV,
		Chromosome: "1",
	})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "onto-1", variants[0].ID)
}

func TestVariantByIDTypeWildcard(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	seedVariant(t, m, "doc-1", 10, func(v *domain.Variant) { v.VariantType = domain.TypeResearch })

	variant, err := m.Variants().VariantByID(ctx, "case-1", "doc-1-common", "")
	require.NoError(t, err)
	require.NotNil(t, variant)

	variant, err = m.Variants().VariantByID(ctx, "case-1", "doc-1-common", domain.TypeClinical)
	require.NoError(t, err)
	assert.Nil(t, variant)
}

func TestDeleteVariantsKeepRules(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	keepRank := 17.0
	seedVariant(t, m, "kept-by-id", 1, nil)
	seedVariant(t, m, "kept-by-rank", 30, nil)
	seedVariant(t, m, "dropped", 5, nil)

	deleted, err := m.Variants().DeleteVariants(ctx, "case-1", []string{"kept-by-id"}, &keepRank)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	variant, err := m.Variants().VariantByDocID(ctx, "dropped")
	require.NoError(t, err)
	assert.Nil(t, variant)
}

func TestCaseInsertConflictAndUpdateMiss(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	kase := &domain.Case{ID: "case-1", Owner: "cust000", Status: domain.StatusInactive}
	require.NoError(t, m.Cases().InsertCase(ctx, kase))
	assert.ErrorIs(t, m.Cases().InsertCase(ctx, kase), domain.ErrConflict)

	missing := &domain.Case{ID: "nope", Owner: "cust000"}
	assert.ErrorIs(t, m.Cases().UpdateCase(ctx, missing), domain.ErrNotFound)
}

func TestCasesSelectionByCollaborator(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	require.NoError(t, m.Cases().InsertCase(ctx, &domain.Case{
		ID: "owned", Owner: "cust000", Status: domain.StatusActive,
	}))
	require.NoError(t, m.Cases().InsertCase(ctx, &domain.Case{
		ID: "shared", Owner: "cust001", Collaborators: []string{"cust000"}, Status: domain.StatusActive,
	}))
	require.NoError(t, m.Cases().InsertCase(ctx, &domain.Case{
		ID: "foreign", Owner: "cust001", Status: domain.StatusActive,
	}))

	cases, err := m.Cases().Cases(ctx, CaseSelection{Institute: "cust000"})
	require.NoError(t, err)
	require.Len(t, cases, 2)
}

func TestEvaluationSchemesAreSeparate(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	require.NoError(t, m.Evaluations().InsertEvaluation(ctx, "acmg", &domain.Evaluation{
		ID: "ev-1", CaseID: "case-1", VariantID: "var-1",
	}))

	acmg, err := m.Evaluations().Evaluations(ctx, "acmg", "case-1", "var-1")
	require.NoError(t, err)
	assert.Len(t, acmg, 1)

	ccv, err := m.Evaluations().Evaluations(ctx, "ccv", "case-1", "var-1")
	require.NoError(t, err)
	assert.Empty(t, ccv)
}

func TestPanelLatestVersionSkipsArchived(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	require.NoError(t, m.Panels().InsertPanel(ctx, &domain.GenePanel{ID: "p1", Name: "cardio", Version: 1.0}))
	require.NoError(t, m.Panels().InsertPanel(ctx, &domain.GenePanel{ID: "p2", Name: "cardio", Version: 2.0}))
	require.NoError(t, m.Panels().InsertPanel(ctx, &domain.GenePanel{
		ID: "p3", Name: "cardio", Version: 3.0, IsArchived: true,
	}))

	panel, err := m.Panels().Panel(ctx, "cardio", nil)
	require.NoError(t, err)
	require.NotNil(t, panel)
	assert.Equal(t, 2.0, panel.Version)

	pinned := 1.0
	panel, err = m.Panels().Panel(ctx, "cardio", &pinned)
	require.NoError(t, err)
	require.NotNil(t, panel)
	assert.Equal(t, "p1", panel.ID)
}

func TestGeneLookupIsCaseInsensitive(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	require.NoError(t, m.Genes().InsertGene(ctx, &domain.HGNCGene{
		HgncID: 17284, Symbol: "POT1", Build: "37", Aliases: []string{"HPOT1"},
	}))

	genes, err := m.Genes().GenesBySymbol(ctx, "pot1", "GRCh37")
	require.NoError(t, err)
	require.Len(t, genes, 1)

	genes, err = m.Genes().GenesByAlias(ctx, "hpot1", "37")
	require.NoError(t, err)
	require.Len(t, genes, 1)
}

func TestManagedVariantNaturalKeyConflict(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	managed := &domain.ManagedVariant{
		Chromosome: "17", Position: 7577120, Reference: "C", Alternative: "T", Build: "37",
	}
	require.NoError(t, m.ManagedVariants().InsertManagedVariant(ctx, managed))

	dup := &domain.ManagedVariant{
		Chromosome: "17", Position: 7577120, Reference: "C", Alternative: "T", Build: "GRCh37",
	}
	assert.ErrorIs(t, m.ManagedVariants().InsertManagedVariant(ctx, dup), domain.ErrConflict)

	found, err := m.ManagedVariants().ManagedVariant(ctx, "17", 7577120, "C", "T", "GRCh37")
	require.NoError(t, err)
	assert.NotNil(t, found)
}
