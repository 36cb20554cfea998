package annotate

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func floatPtr(f float64) *float64 { return &f }

func setupAnnotator(t *testing.T) (*Annotator, *store.MemStore) {
	t.Helper()
	logger := testLogger()
	mem := store.NewMemStore()
	resolver, err := reference.NewResolver(mem, 0, logger)
	require.NoError(t, err)
	return New(mem, resolver, logger), mem
}

func testCase() *domain.Case {
	return &domain.Case{
		ID:          "internal-1",
		DisplayName: "case-1",
		Owner:       "cust000",
		GenomeBuild: "37",
		Status:      domain.StatusActive,
		Panels: []domain.CasePanel{
			{PanelName: "panel1", IsDefault: true},
		},
	}
}

func seedReference(t *testing.T, mem *store.MemStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.Genes().InsertGene(ctx, &domain.HGNCGene{
		HgncID:            17284,
		Symbol:            "POT1",
		Description:       "protection of telomeres 1",
		Chromosome:        "7",
		Start:             124462440,
		End:               124570037,
		Build:             "37",
		InheritanceModels: []string{"AD"},
		PLi:               floatPtr(0.97),
	}))
	require.NoError(t, mem.Transcripts().InsertTranscript(ctx, &domain.RefTranscript{
		EnsemblID: "ENST00000357628",
		HgncID:    17284,
		IsPrimary: true,
		RefseqID:  "NM_015450",
		Build:     "37",
	}))
	require.NoError(t, mem.Panels().InsertPanel(ctx, &domain.GenePanel{
		Name:    "panel1",
		Version: 1.0,
		Genes: []domain.PanelGene{{
			HgncID:                       17284,
			Symbol:                       "POT1",
			DiseaseAssociatedTranscripts: []string{"NM_015450.2"},
			ReducedPenetrance:            true,
			InheritanceModels:            []string{"AD"},
			Comment:                      "telomere maintenance",
		}},
	}))
}

func testVariant() *domain.Variant {
	return &domain.Variant{
		ID:            "doc-1",
		VariantID:     "7_124503601_A_G",
		SimpleID:      "7_124503601_A_G",
		DisplayName:   "7_124503601_A_G_clinical",
		CaseID:        "internal-1",
		Category:      domain.CategorySNV,
		VariantType:   domain.TypeClinical,
		Chromosome:    "7",
		Position:      124503601,
		Reference:     "A",
		Alternative:   "G",
		RankScore:     21,
		HgncIDs:       []int{17284},
		GeneticModels: []string{"AD_dn"},
		Genes: []domain.GeneAnnotation{{
			HgncID:               17284,
			HgncSymbol:           "POT1",
			FunctionalAnnotation: "missense_variant",
			Sift:                 "deleterious",
			Transcripts: []domain.TranscriptAnnotation{{
				TranscriptID:        "ENST00000357628",
				IsCanonical:         true,
				Exon:                "12/19",
				CodingSequenceName:  "c.1121T>C",
				ProteinSequenceName: "p.Leu374Pro",
			}},
		}},
	}
}

func TestDecorateVariant(t *testing.T) {
	ctx := context.Background()
	annotator, mem := setupAnnotator(t)
	seedReference(t, mem)

	kase := testCase()
	variant := testVariant()
	require.NoError(t, mem.Cases().InsertCase(ctx, kase))
	require.NoError(t, mem.Variants().InsertVariant(ctx, variant))

	view, err := annotator.DecorateVariant(ctx, &domain.Institute{ID: "cust000"}, kase, variant)
	require.NoError(t, err)
	require.NotNil(t, view)

	gene := view.Genes[0]
	assert.Equal(t, "protection of telomeres 1", gene.Description)
	assert.Equal(t, []string{"AD"}, gene.Inheritance)
	assert.True(t, gene.ManualPenetrance)
	assert.Equal(t, []string{"telomere maintenance"}, gene.PanelComments)

	tx := gene.Transcripts[0]
	assert.True(t, tx.IsPrimary)
	assert.Equal(t, "NM_015450", tx.RefseqID)
	assert.True(t, tx.IsDiseaseAssociated)
	assert.Equal(t, "POT1:NM_015450:exon12:c.1121T>C:p.Leu374Pro", tx.ChangeString)

	require.NotNil(t, view.FirstRepGene)
	assert.Equal(t, 17284, view.FirstRepGene.HgncID)
	assert.Equal(t, "rare", view.FrequencySummary)
	assert.True(t, view.MatchingInheritance)
	assert.Equal(t, []string{"panel1"}, view.GenePanels[17284])
}

func TestDecorateVariantMissingPanel(t *testing.T) {
	ctx := context.Background()
	annotator, mem := setupAnnotator(t)
	seedReference(t, mem)

	kase := testCase()
	kase.Panels = append(kase.Panels, domain.CasePanel{PanelName: "gone", IsDefault: true})
	variant := testVariant()
	require.NoError(t, mem.Cases().InsertCase(ctx, kase))
	require.NoError(t, mem.Variants().InsertVariant(ctx, variant))

	view, err := annotator.DecorateVariant(ctx, &domain.Institute{ID: "cust000"}, kase, variant)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, []string{"panel1"}, view.GenePanels[17284])
}

func TestFrequencySummary(t *testing.T) {
	tests := []struct {
		name    string
		variant *domain.Variant
		want    string
	}{
		{"no annotations", &domain.Variant{}, "rare"},
		{"common from gnomad", &domain.Variant{GnomadFrequency: floatPtr(0.2)}, "common"},
		{"uncommon from 1000g", &domain.Variant{ThousandGenomesFrequency: floatPtr(0.02)}, "uncommon"},
		{"rare below both thresholds", &domain.Variant{ExacFrequency: floatPtr(0.001)}, "rare"},
		{"max across sources wins", &domain.Variant{
			GnomadFrequency: floatPtr(0.001),
			SwegenMeiMax:    floatPtr(0.09),
		}, "common"},
		{"boundary is exclusive", &domain.Variant{GnomadFrequency: floatPtr(0.05)}, "uncommon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FrequencySummary(tt.variant))
		})
	}
}

func TestRepresentativeGene(t *testing.T) {
	variant := &domain.Variant{Genes: []domain.GeneAnnotation{
		{HgncID: 1, FunctionalAnnotation: "missense_variant"},
		{HgncID: 2, FunctionalAnnotation: "stop_gained"},
		{HgncID: 3, FunctionalAnnotation: "not_a_term"},
	}}
	gene := RepresentativeGene(variant)
	require.NotNil(t, gene)
	assert.Equal(t, 2, gene.HgncID)

	assert.Nil(t, RepresentativeGene(&domain.Variant{}))
}

func TestPredictionsPrefixedForMultipleGenes(t *testing.T) {
	variant := &domain.Variant{Genes: []domain.GeneAnnotation{
		{HgncSymbol: "POT1", Sift: "deleterious"},
		{HgncSymbol: "BRAF", Polyphen: "probably_damaging"},
	}}
	preds := Predictions(variant)
	assert.Equal(t, []string{"POT1:SIFT deleterious", "BRAF:Polyphen probably_damaging"}, preds)

	single := &domain.Variant{Genes: []domain.GeneAnnotation{
		{HgncSymbol: "POT1", Sift: "tolerated"},
	}}
	assert.Equal(t, []string{"SIFT tolerated"}, Predictions(single))
}

func TestOverviewTranscripts(t *testing.T) {
	variant := &domain.Variant{Genes: []domain.GeneAnnotation{{
		HgncID:     17284,
		HgncSymbol: "POT1",
		Transcripts: []domain.TranscriptAnnotation{
			{TranscriptID: "ENST1", IsCanonical: true},
			{TranscriptID: "ENST2", RefseqID: "XM_0123"},
			{TranscriptID: "ENST3", RefseqID: "NM_015450", ManeSelect: "NM_015450.3"},
			{TranscriptID: "ENST4"},
		},
	}}}
	rows := OverviewTranscripts(variant)
	require.Len(t, rows, 3)
	assert.Equal(t, "ENST3", rows[0].TranscriptID)
	assert.Equal(t, "ENST1", rows[1].TranscriptID)
	assert.True(t, rows[2].Muted)
}

func TestHGVSDescriptionPrefersCanonicalProtein(t *testing.T) {
	variant := &domain.Variant{Genes: []domain.GeneAnnotation{{
		HgncID:               17284,
		FunctionalAnnotation: "missense_variant",
		Transcripts: []domain.TranscriptAnnotation{
			{TranscriptID: "ENST1", IsPrimary: true, ProteinSequenceName: "p.Val600Glu"},
			{TranscriptID: "ENST2", IsCanonical: true, ProteinSequenceName: "p.Leu374Pro"},
		},
	}}}
	assert.Equal(t, "p.Leu374Pro", HGVSDescription(variant))

	// Without a canonical protein change the canonical coding change is used.
	variant.Genes[0].Transcripts[1].ProteinSequenceName = ""
	variant.Genes[0].Transcripts[1].CodingSequenceName = "c.1121T>C"
	assert.Equal(t, "c.1121T>C", HGVSDescription(variant))

	assert.Empty(t, HGVSDescription(&domain.Variant{}))
}

func TestDecorateCompounds(t *testing.T) {
	ctx := context.Background()
	annotator, mem := setupAnnotator(t)

	kase := testCase()
	require.NoError(t, mem.Cases().InsertCase(ctx, kase))

	partner := &domain.Variant{
		ID:             "doc-2",
		VariantID:      "7_124510000_C_T",
		DisplayName:    "7_124510000_C_T_clinical",
		CaseID:         kase.ID,
		Category:       domain.CategorySNV,
		VariantType:    domain.TypeClinical,
		Chromosome:     "7",
		Position:       124510000,
		RankScore:      12,
		DismissVariant: []int{2},
		Genes: []domain.GeneAnnotation{{
			HgncID: 17284, HgncSymbol: "POT1", FunctionalAnnotation: "synonymous_variant",
		}},
	}
	require.NoError(t, mem.Variants().InsertVariant(ctx, partner))

	variant := testVariant()
	variant.Compounds = []domain.Compound{
		{VariantID: "7_999_G_A", CombinedScore: 9},
		{VariantID: partner.VariantID, CombinedScore: 24},
	}
	require.NoError(t, mem.Variants().InsertVariant(ctx, variant))

	require.NoError(t, annotator.DecorateCompounds(ctx, kase, variant))

	require.Len(t, variant.Compounds, 2)
	// Highest combined score first.
	assert.Equal(t, partner.VariantID, variant.Compounds[0].VariantID)
	assert.False(t, variant.Compounds[0].NotLoaded)
	assert.True(t, variant.Compounds[0].IsDismissed)
	assert.Equal(t, 12.0, variant.Compounds[0].RankScore)
	assert.Equal(t, []string{"synonymous_variant"}, variant.Compounds[0].FunctionalAnnotations)

	assert.True(t, variant.Compounds[1].NotLoaded)
}

func TestParseRankModel(t *testing.T) {
	model := `# rank model
[affected_status]
category = inheritance_models
min = -12
max = 1

[splice_site]
category = consequence
min = 0
max = 8
`
	ranges := parseRankModel(strings.NewReader(model))
	require.Len(t, ranges, 2)
	assert.Equal(t, RankRange{Min: -12, Max: 1}, ranges["inheritance_models"])
	assert.Equal(t, RankRange{Min: 0, Max: 8}, ranges["consequence"])
}
