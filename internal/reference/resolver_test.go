package reference

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

func setupResolver(t *testing.T) (*Resolver, *store.MemStore) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	mem := store.NewMemStore()
	resolver, err := NewResolver(mem, 0, logger)
	require.NoError(t, err)
	return resolver, mem
}

func TestGeneByHgncID(t *testing.T) {
	ctx := context.Background()
	resolver, mem := setupResolver(t)

	require.NoError(t, mem.Genes().InsertGene(ctx, &domain.HGNCGene{
		HgncID: 7481, Symbol: "MT-TF", Chromosome: "MT", Start: 577, End: 647, Build: "37",
	}))

	t.Run("hit", func(t *testing.T) {
		gene, err := resolver.GeneByHgncID(ctx, 7481, "37")
		require.NoError(t, err)
		require.NotNil(t, gene)
		assert.Equal(t, "MT-TF", gene.Symbol)
	})

	t.Run("build synonym", func(t *testing.T) {
		gene, err := resolver.GeneByHgncID(ctx, 7481, "GRCh37")
		require.NoError(t, err)
		require.NotNil(t, gene)
	})

	t.Run("miss returns nil", func(t *testing.T) {
		gene, err := resolver.GeneByHgncID(ctx, 999999, "37")
		require.NoError(t, err)
		assert.Nil(t, gene)
	})

	t.Run("wrong build misses", func(t *testing.T) {
		gene, err := resolver.GeneByHgncID(ctx, 7481, "38")
		require.NoError(t, err)
		assert.Nil(t, gene)
	})
}

func TestGenesBySymbolOrAliases(t *testing.T) {
	ctx := context.Background()
	resolver, mem := setupResolver(t)

	require.NoError(t, mem.Genes().InsertGene(ctx, &domain.HGNCGene{
		HgncID: 10896, Symbol: "SKI", Aliases: []string{"SKI", "SGS"}, Build: "37",
	}))
	require.NoError(t, mem.Genes().InsertGene(ctx, &domain.HGNCGene{
		HgncID: 6091, Symbol: "ROBO2", Aliases: []string{"ROBO2", "SAX3"}, Build: "37",
	}))

	t.Run("exact symbol", func(t *testing.T) {
		res, err := resolver.GenesBySymbolOrAliases(ctx, "SKI", "37")
		require.NoError(t, err)
		require.Len(t, res.Genes, 1)
		assert.False(t, res.UsedAliases)
	})

	t.Run("alias fallback flagged", func(t *testing.T) {
		res, err := resolver.GenesBySymbolOrAliases(ctx, "SAX3", "37")
		require.NoError(t, err)
		require.Len(t, res.Genes, 1)
		assert.Equal(t, 6091, res.Genes[0].HgncID)
		assert.True(t, res.UsedAliases)
	})

	t.Run("total miss", func(t *testing.T) {
		res, err := resolver.GenesBySymbolOrAliases(ctx, "NOTAGENE", "37")
		require.NoError(t, err)
		assert.Empty(t, res.Genes)
		assert.False(t, res.UsedAliases)
	})
}

func TestPanelLatestVersion(t *testing.T) {
	ctx := context.Background()
	resolver, mem := setupResolver(t)

	require.NoError(t, mem.Panels().InsertPanel(ctx, &domain.GenePanel{
		Name: "panel1", Version: 1.0, Genes: []domain.PanelGene{{HgncID: 1}},
	}))
	require.NoError(t, mem.Panels().InsertPanel(ctx, &domain.GenePanel{
		Name: "panel1", Version: 2.0, Genes: []domain.PanelGene{{HgncID: 1}, {HgncID: 2}},
	}))

	t.Run("latest when version omitted", func(t *testing.T) {
		panel, err := resolver.Panel(ctx, "panel1", nil)
		require.NoError(t, err)
		require.NotNil(t, panel)
		assert.Equal(t, 2.0, panel.Version)
	})

	t.Run("pinned version", func(t *testing.T) {
		version := 1.0
		panel, err := resolver.Panel(ctx, "panel1", &version)
		require.NoError(t, err)
		require.NotNil(t, panel)
		assert.Len(t, panel.Genes, 1)
	})

	t.Run("unknown panel", func(t *testing.T) {
		panel, err := resolver.Panel(ctx, "nosuchpanel", nil)
		require.NoError(t, err)
		assert.Nil(t, panel)
	})
}

func TestHPOTree(t *testing.T) {
	ctx := context.Background()
	resolver, mem := setupResolver(t)

	require.NoError(t, mem.Terms().InsertHPOTerm(ctx, &domain.HPOTerm{
		HpoID: "HP:0000001", Description: "All", Children: []string{"HP:0000118"},
	}))
	require.NoError(t, mem.Terms().InsertHPOTerm(ctx, &domain.HPOTerm{
		HpoID: "HP:0000118", Description: "Phenotypic abnormality", Children: []string{"HP:0000707", "HP:0099999"},
	}))
	require.NoError(t, mem.Terms().InsertHPOTerm(ctx, &domain.HPOTerm{
		HpoID: "HP:0000707", Description: "Abnormality of the nervous system",
	}))

	tree, err := resolver.HPOTree(ctx, "HP:0000001")
	require.NoError(t, err)
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 1)
	// The missing child term is skipped.
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "HP:0000707", tree.Children[0].Children[0].Term.HpoID)
}
