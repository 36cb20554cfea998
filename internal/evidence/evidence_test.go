package evidence

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
	"github.com/scout-genomics/scout/pkg/loqus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func intPtr(i int) *int { return &i }

type fakeLoqus struct {
	id        string
	obs       *loqus.Observations
	caseCount int
	err       error
}

func (f *fakeLoqus) InstanceID() string { return f.id }

func (f *fakeLoqus) Variant(_ context.Context, _ *domain.Variant) (*loqus.Observations, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.obs, nil
}

func (f *fakeLoqus) CaseCount(_ context.Context, _ domain.Category) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.caseCount, nil
}

func seedCase(t *testing.T, mem *store.MemStore, id, owner string, groups ...string) *domain.Case {
	t.Helper()
	kase := &domain.Case{
		ID:          id,
		DisplayName: id,
		Owner:       owner,
		GenomeBuild: "37",
		Status:      domain.StatusActive,
		GroupIDs:    groups,
	}
	require.NoError(t, mem.Cases().InsertCase(context.Background(), kase))
	return kase
}

func assessedVariant(caseID, simpleID string, rank int) *domain.Variant {
	return &domain.Variant{
		ID:          caseID + "-" + simpleID,
		VariantID:   simpleID,
		SimpleID:    simpleID,
		CaseID:      caseID,
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    880086,
		ManualRank:  intPtr(rank),
	}
}

func TestMatchingAssessments(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	agg := New(mem, nil, testLogger())

	user := &domain.User{Email: "clark@mail.com", Institutes: []string{"cust000"}}
	current := seedCase(t, mem, "internal-1", "cust000")
	seedCase(t, mem, "internal-2", "cust000")
	seedCase(t, mem, "other-1", "cust999")
	grouped := seedCase(t, mem, "grouped-1", "cust999", "g1")
	current.GroupIDs = []string{"g1"}
	require.NoError(t, mem.Cases().UpdateCase(ctx, current))

	simpleID := "1_880086_T_C"
	// Own case assessment must never count as matching evidence.
	require.NoError(t, mem.Variants().InsertVariant(ctx, assessedVariant("internal-1", simpleID, 8)))
	require.NoError(t, mem.Variants().InsertVariant(ctx, assessedVariant("internal-2", simpleID, 7)))
	require.NoError(t, mem.Variants().InsertVariant(ctx, assessedVariant("other-1", simpleID, 6)))
	require.NoError(t, mem.Variants().InsertVariant(ctx, assessedVariant(grouped.ID, simpleID, 5)))

	variant := assessedVariant("internal-1", simpleID, 8)
	matching, group, err := agg.MatchingAssessments(ctx, user, current, variant)
	require.NoError(t, err)

	require.Len(t, matching, 1)
	assert.Equal(t, "internal-2", matching[0].CaseID)
	assert.Equal(t, "manual_rank", matching[0].Kind)
	assert.Equal(t, "Pathogenic", matching[0].Label)

	// The inaccessible case is invisible; the grouped one surfaces apart.
	require.Len(t, group, 1)
	assert.Equal(t, grouped.ID, group[0].CaseID)
}

func TestClinicalSiblingAssessments(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	agg := New(mem, nil, testLogger())

	kase := seedCase(t, mem, "internal-1", "cust000")
	simpleID := "1_880086_T_C"
	clinical := assessedVariant(kase.ID, simpleID, 4)
	require.NoError(t, mem.Variants().InsertVariant(ctx, clinical))

	research := assessedVariant(kase.ID, simpleID, 0)
	research.ID = "research-doc"
	research.VariantType = domain.TypeResearch
	research.ManualRank = nil

	labels, err := agg.ClinicalSiblingAssessments(ctx, kase, research)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "Likely pathogenic", labels[0].Label)

	// Clinical variants never shadow.
	labels, err = agg.ClinicalSiblingAssessments(ctx, kase, clinical)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestOtherCausatives(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	agg := New(mem, nil, testLogger())

	user := &domain.User{Email: "clark@mail.com", Institutes: []string{"cust000"}}
	current := seedCase(t, mem, "internal-1", "cust000")
	solved := seedCase(t, mem, "solved-1", "cust000")

	causative := assessedVariant(solved.ID, "1_880086_T_C", 8)
	require.NoError(t, mem.Variants().InsertVariant(ctx, causative))
	solved.Causatives = []string{causative.ID}
	require.NoError(t, mem.Cases().UpdateCase(ctx, solved))

	variant := assessedVariant(current.ID, "1_880086_T_C", 0)
	variant.ManualRank = nil
	matches, err := agg.OtherCausatives(ctx, user, current, variant)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, solved.ID, matches[0].CaseID)

	// A different variant does not match.
	unrelated := assessedVariant(current.ID, "2_100_G_A", 0)
	unrelated.ManualRank = nil
	matches, err = agg.OtherCausatives(ctx, user, current, unrelated)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestOtherCausativesSVOverlap(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	agg := New(mem, nil, testLogger())

	user := &domain.User{Email: "clark@mail.com", Institutes: []string{"cust000"}}
	current := seedCase(t, mem, "internal-1", "cust000")
	solved := seedCase(t, mem, "solved-1", "cust000")

	causative := &domain.Variant{
		ID: "sv-doc-1", VariantID: "1_1000_del", CaseID: solved.ID,
		Category: domain.CategorySV, SubCategory: "del", VariantType: domain.TypeClinical,
		Chromosome: "1", Position: 1000, End: 5000,
	}
	require.NoError(t, mem.Variants().InsertVariant(ctx, causative))
	solved.Causatives = []string{causative.ID}
	require.NoError(t, mem.Cases().UpdateCase(ctx, solved))

	overlapping := &domain.Variant{
		VariantID: "1_4000_del", CaseID: current.ID,
		Category: domain.CategorySV, SubCategory: "del",
		Chromosome: "1", Position: 4000, End: 6000,
	}
	matches, err := agg.OtherCausatives(ctx, user, current, overlapping)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	disjoint := &domain.Variant{
		VariantID: "1_9000_del", CaseID: current.ID,
		Category: domain.CategorySV, SubCategory: "del",
		Chromosome: "1", Position: 9000, End: 9500,
	}
	matches, err = agg.OtherCausatives(ctx, user, current, disjoint)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestObservations(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	registry, err := loqus.NewRegistry(nil, nil, testLogger())
	require.NoError(t, err)
	registry.Register(&fakeLoqus{
		id:        "default",
		obs:       &loqus.Observations{Observations: 4, Homozygotes: 1, Cases: []string{"visible-1", "hidden-1", "gone-1"}},
		caseCount: 230,
	})
	agg := New(mem, registry, testLogger())

	seedCase(t, mem, "visible-1", "cust000")
	seedCase(t, mem, "hidden-1", "cust999")

	user := &domain.User{Email: "clark@mail.com", Institutes: []string{"cust000"}}
	institute := &domain.Institute{ID: "cust000"}
	variant := assessedVariant("internal-1", "1_880086_T_C", 0)

	results := agg.Observations(ctx, user, institute, variant)
	require.Len(t, results, 1)
	assert.Equal(t, "230", results[0].Total)
	assert.Equal(t, 4, results[0].Observations)
	// Inaccessible and vanished cases are skipped silently.
	require.Len(t, results[0].Cases, 1)
	assert.Equal(t, "visible-1", results[0].Cases[0].CaseID)
}

func TestObservationsInstanceFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	registry, err := loqus.NewRegistry(nil, nil, testLogger())
	require.NoError(t, err)
	registry.Register(&fakeLoqus{id: "wgs", err: errors.New("connection refused")})
	agg := New(mem, registry, testLogger())

	user := &domain.User{Email: "clark@mail.com", Institutes: []string{"cust000"}}
	institute := &domain.Institute{ID: "cust000", LoqusIDs: []string{"wgs", "stale"}}
	variant := assessedVariant("internal-1", "1_880086_T_C", 0)

	results := agg.Observations(ctx, user, institute, variant)
	require.Len(t, results, 2)
	assert.Equal(t, TotalUnavailable, results[0].Total)
	assert.NotEmpty(t, results[0].Warning)
	// The unresolved instance also answers with N/A instead of failing.
	assert.Equal(t, TotalUnavailable, results[1].Total)
}
