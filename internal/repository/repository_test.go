package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/database"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	dbURL, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	runner, err := database.NewMigrationRunner(dbURL, "../../migrations", logger)
	require.NoError(t, err)
	require.NoError(t, runner.Up())
	require.NoError(t, runner.Close())

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.NewConnection(ctx, config.DatabaseSettings{
		Host: host, Port: port.Int(), Database: "testdb",
		Username: "testuser", Password: "testpass", SSLMode: "disable",
		MaxConns: 5, MinConns: 1,
		MaxConnLife: time.Hour, MaxConnIdle: 30 * time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return New(db, logger)
}

func testVariant(id, caseID string, rank float64, hgncIDs ...int) *domain.Variant {
	return &domain.Variant{
		ID:          id,
		VariantID:   "1_880086_T_C",
		SimpleID:    "1_880086_T_C",
		CaseID:      caseID,
		Category:    domain.CategorySNV,
		VariantType: domain.TypeClinical,
		Chromosome:  "1",
		Position:    880086,
		Reference:   "T",
		Alternative: "C",
		RankScore:   rank,
		HgncIDs:     hgncIDs,
	}
}

func TestVariantSelect(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := testVariant("doc-1", "internal-1", 20, 17284)
	second := testVariant("doc-2", "internal-1", 10, 29)
	second.VariantID = "2_100_G_A"
	second.SimpleID = "2_100_G_A"
	second.Chromosome = "2"
	other := testVariant("doc-3", "internal-2", 30, 17284)
	spanning := testVariant("doc-4", "internal-1", 14)
	spanning.VariantID = "4_900_N_N"
	spanning.SimpleID = "4_900_N_N"
	spanning.Category = domain.CategorySV
	spanning.SubCategory = "bnd"
	spanning.Chromosome = "4"
	spanning.EndChrom = "2"

	require.NoError(t, repo.Variants().InsertVariant(ctx, first))
	require.NoError(t, repo.Variants().InsertVariant(ctx, second))
	require.NoError(t, repo.Variants().InsertVariant(ctx, other))
	require.NoError(t, repo.Variants().InsertVariant(ctx, spanning))

	got, err := repo.Variants().Select(ctx, store.VariantSelection{
		CaseID:            "internal-1",
		Category:          domain.CategorySNV,
		VariantType:       domain.TypeClinical,
		SortRankScoreDesc: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "doc-1", got[0].ID)
	assert.Equal(t, "doc-2", got[1].ID)

	got, err = repo.Variants().Select(ctx, store.VariantSelection{
		CaseID:  "internal-1",
		HgncIDs: []int{17284},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "doc-1", got[0].ID)

	// Chromosome scoping matches either end, so the breakend landing on
	// chromosome 2 is kept.
	got, err = repo.Variants().Select(ctx, store.VariantSelection{
		CaseID: "internal-1", Chromosome: "2",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2_100_G_A", got[0].VariantID)
	assert.Equal(t, "4_900_N_N", got[1].VariantID)
}

func TestVariantSelectOnlyAssessed(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	plain := testVariant("doc-1", "internal-1", 10)
	rank := 8
	assessed := testVariant("doc-2", "internal-1", 12)
	assessed.VariantID = "3_500_A_T"
	assessed.ManualRank = &rank

	require.NoError(t, repo.Variants().InsertVariant(ctx, plain))
	require.NoError(t, repo.Variants().InsertVariant(ctx, assessed))

	got, err := repo.Variants().Select(ctx, store.VariantSelection{
		CaseID: "internal-1", OnlyAssessed: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "doc-2", got[0].ID)
}

func TestVariantLifecycle(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	v := testVariant("doc-1", "internal-1", 15, 17284)
	require.NoError(t, repo.Variants().InsertVariant(ctx, v))

	got, err := repo.Variants().VariantByDocID(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1_880086_T_C", got.VariantID)

	got, err = repo.Variants().VariantByID(ctx, "internal-1", "1_880086_T_C", domain.TypeClinical)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Misses come back as nil without an error.
	got, err = repo.Variants().VariantByDocID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	rank := 8
	v.ManualRank = &rank
	require.NoError(t, repo.Variants().UpdateVariant(ctx, v))
	got, err = repo.Variants().VariantByDocID(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got.ManualRank)
	assert.Equal(t, 8, *got.ManualRank)

	siblings, err := repo.Variants().VariantsBySimpleID(ctx, "1_880086_T_C", "")
	require.NoError(t, err)
	assert.Len(t, siblings, 1)
}

func TestDeleteVariantsKeepsAssessedAndHighRank(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	low := testVariant("doc-low", "internal-1", 5)
	high := testVariant("doc-high", "internal-1", 25)
	high.VariantID = "2_100_G_A"
	kept := testVariant("doc-kept", "internal-1", 1)
	kept.VariantID = "3_500_A_T"

	require.NoError(t, repo.Variants().InsertVariant(ctx, low))
	require.NoError(t, repo.Variants().InsertVariant(ctx, high))
	require.NoError(t, repo.Variants().InsertVariant(ctx, kept))

	threshold := 20.0
	deleted, err := repo.Variants().DeleteVariants(ctx, "internal-1", []string{"doc-kept"}, &threshold)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := repo.Variants().Select(ctx, store.VariantSelection{CaseID: "internal-1"})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestCaseRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	kase := &domain.Case{
		ID:           "internal-1",
		DisplayName:  "643594",
		Owner:        "cust000",
		GenomeBuild:  "37",
		Status:       domain.StatusActive,
		GroupIDs:     []string{"g1"},
		Individuals:  []domain.Individual{{ID: "ADM1", AnalysisType: "wgs"}},
		AnalysisDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Cases().InsertCase(ctx, kase))

	err := repo.Cases().InsertCase(ctx, kase)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.Cases().Case(ctx, "internal-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "643594", got.DisplayName)

	kase.Status = domain.StatusSolved
	require.NoError(t, repo.Cases().UpdateCase(ctx, kase))

	listed, err := repo.Cases().Cases(ctx, store.CaseSelection{Institute: "cust000", Status: domain.StatusSolved})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = repo.Cases().Cases(ctx, store.CaseSelection{GroupID: "g1"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = repo.Cases().Cases(ctx, store.CaseSelection{AnalysisType: "wes"})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestEventRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	older := &domain.Event{
		ID: "ev-1", Institute: "cust000", CaseID: "internal-1",
		Category: domain.EventCategoryVariant, Verb: "comment",
		VariantID: "1_880086_T_C", Content: "first take",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &domain.Event{
		ID: "ev-2", Institute: "cust000", CaseID: "internal-1",
		Category: domain.EventCategoryCase, Verb: "assign",
		CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Events().InsertEvent(ctx, older))
	require.NoError(t, repo.Events().InsertEvent(ctx, newer))

	events, err := repo.Events().Events(ctx, "internal-1", "", "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-2", events[0].ID)

	events, err = repo.Events().Events(ctx, "internal-1", domain.EventCategoryVariant, "1_880086_T_C")
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.Events().UpdateEventContent(ctx, "ev-1", "second take"))
	got, err := repo.Events().Event(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "second take", got.Content)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestFilterRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	f := &domain.Filter{
		Institute:   "cust000",
		Category:    domain.CategorySNV,
		DisplayName: "rare AD",
		Payload:     map[string][]string{"gnomad_frequency": {"0.01"}},
	}
	require.NoError(t, repo.Filters().InsertFilter(ctx, f))
	require.NotEmpty(t, f.ID)

	got, err := repo.Filters().Filter(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"0.01"}, got.Payload["gnomad_frequency"])

	f.LockHolder = "clark@mail.com"
	require.NoError(t, repo.Filters().UpdateFilter(ctx, f))

	listed, err := repo.Filters().Filters(ctx, "cust000", domain.CategorySNV)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Locked())

	require.NoError(t, repo.Filters().DeleteFilter(ctx, f.ID))
	got, err = repo.Filters().Filter(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGeneAndPanelRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	gene := &domain.HGNCGene{
		HgncID: 17284, Symbol: "POT1", Aliases: []string{"hPot1", "DKFZp586D211"},
		Chromosome: "7", Start: 124462440, End: 124570037, Build: "GRCh37",
	}
	require.NoError(t, repo.Genes().InsertGene(ctx, gene))

	got, err := repo.Genes().GeneByHgncID(ctx, 17284, "37")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "POT1", got.Symbol)

	bySymbol, err := repo.Genes().GenesBySymbol(ctx, "pot1", "37")
	require.NoError(t, err)
	assert.Len(t, bySymbol, 1)

	byAlias, err := repo.Genes().GenesByAlias(ctx, "HPOT1", "37")
	require.NoError(t, err)
	assert.Len(t, byAlias, 1)

	require.NoError(t, repo.Panels().InsertPanel(ctx, &domain.GenePanel{
		Name: "panel1", Version: 1.0, Institute: "cust000",
		Genes: []domain.PanelGene{{HgncID: 17284, Symbol: "POT1"}},
	}))
	require.NoError(t, repo.Panels().InsertPanel(ctx, &domain.GenePanel{
		Name: "panel1", Version: 2.0, Institute: "cust000",
	}))

	latest, err := repo.Panels().Panel(ctx, "panel1", nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2.0, latest.Version)

	pinned := 1.0
	v1, err := repo.Panels().Panel(ctx, "panel1", &pinned)
	require.NoError(t, err)
	require.NotNil(t, v1)
	assert.Len(t, v1.Genes, 1)
}

func TestManagedVariantRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	m := &domain.ManagedVariant{
		Chromosome: "17", Position: 48275363, Reference: "C", Alternative: "A",
		Build: "37", Category: domain.CategorySNV,
	}
	require.NoError(t, repo.ManagedVariants().InsertManagedVariant(ctx, m))

	dup := &domain.ManagedVariant{
		Chromosome: "17", Position: 48275363, Reference: "C", Alternative: "A",
		Build: "37", Category: domain.CategorySNV,
	}
	err := repo.ManagedVariants().InsertManagedVariant(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.ManagedVariants().ManagedVariant(ctx, "17", 48275363, "C", "A", "GRCh37")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestAccountRepos(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Institutes().UpsertInstitute(ctx, &domain.Institute{
		ID: "cust000", DisplayName: "Clinical Genomics",
	}))
	inst, err := repo.Institutes().Institute(ctx, "cust000")
	require.NoError(t, err)
	require.NotNil(t, inst)

	user := &domain.User{Email: "clark@mail.com", Name: "Clark Kent", Institutes: []string{"cust000"}}
	require.NoError(t, repo.Users().UpsertUser(ctx, user))

	users, err := repo.Users().Users(ctx, "cust000")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Clark Kent", users[0].Name)

	users, err = repo.Users().Users(ctx, "cust999")
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.Users().DeleteUser(ctx, "clark@mail.com"))
	gone, err := repo.Users().User(ctx, "clark@mail.com")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
