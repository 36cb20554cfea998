// Package domain contains the core entities of the variant interpretation
// engine: cases, variants, events, evaluations, saved filters and the
// read-only reference entities. Documents are stored as JSON; the field tags
// define the wire and storage names.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Category is the variant category a document belongs to.
type Category string

const (
	CategorySNV      Category = "snv"
	CategorySV       Category = "sv"
	CategoryCancer   Category = "cancer"
	CategoryCancerSV Category = "cancer_sv"
	CategorySTR      Category = "str"
	CategoryMEI      Category = "mei"
	CategoryFusion   Category = "fusion"
	CategoryOutlier  Category = "outlier"
)

// IsValid reports whether the category is part of the closed vocabulary.
func (c Category) IsValid() bool {
	switch c {
	case CategorySNV, CategorySV, CategoryCancer, CategoryCancerSV,
		CategorySTR, CategoryMEI, CategoryFusion, CategoryOutlier:
		return true
	default:
		return false
	}
}

func (c Category) String() string { return string(c) }

// VariantType separates the clinical and research variant streams of a case.
type VariantType string

const (
	TypeClinical VariantType = "clinical"
	TypeResearch VariantType = "research"
)

// IsValid reports whether the variant type is clinical or research.
func (t VariantType) IsValid() bool {
	return t == TypeClinical || t == TypeResearch
}

func (t VariantType) String() string { return string(t) }

// TranscriptAnnotation is one transcript hit carried on a variant gene.
// Loader-provided fields come from VEP; the annotator fills the reference
// derived ones (primary flag, refseq ids, disease association, MANE).
type TranscriptAnnotation struct {
	TranscriptID          string   `json:"transcript_id"`
	HgncID                int      `json:"hgnc_id,omitempty"`
	CodingSequenceName    string   `json:"coding_sequence_name,omitempty"`
	ProteinSequenceName   string   `json:"protein_sequence_name,omitempty"`
	IsCanonical           bool     `json:"is_canonical,omitempty"`
	Exon                  string   `json:"exon,omitempty"`
	Intron                string   `json:"intron,omitempty"`
	FunctionalAnnotations []string `json:"functional_annotations,omitempty"`
	RegionAnnotations     []string `json:"region_annotations,omitempty"`

	IsPrimary           bool     `json:"is_primary,omitempty"`
	RefseqID            string   `json:"refseq_id,omitempty"`
	RefseqIdentifiers   []string `json:"refseq_identifiers,omitempty"`
	IsDiseaseAssociated bool     `json:"is_disease_associated,omitempty"`
	ManeSelect          string   `json:"mane_select_transcript,omitempty"`
	ManePlusClinical    string   `json:"mane_plus_clinical_transcript,omitempty"`
	ChangeString        string   `json:"change_str,omitempty"`
}

// GeneAnnotation is one gene hit on a variant, fused with reference data and
// panel overrides by the annotator.
type GeneAnnotation struct {
	HgncID      int                    `json:"hgnc_id"`
	HgncSymbol  string                 `json:"hgnc_symbol,omitempty"`
	Transcripts []TranscriptAnnotation `json:"transcripts,omitempty"`

	FunctionalAnnotation string   `json:"functional_annotation,omitempty"`
	RegionAnnotation     string   `json:"region_annotation,omitempty"`
	Sift                 string   `json:"sift_prediction,omitempty"`
	Polyphen             string   `json:"polyphen_prediction,omitempty"`
	SpliceAI             *float64 `json:"spliceai_score,omitempty"`
	SpliceAIPosition     *int     `json:"spliceai_position,omitempty"`
	SpliceAIPrediction   []string `json:"spliceai_prediction,omitempty"`

	// Reference-derived fields, set by the annotator.
	Description          string          `json:"description,omitempty"`
	Aliases              []string        `json:"aliases,omitempty"`
	Inheritance          []string        `json:"inheritance,omitempty"`
	Phenotypes           []GenePhenotype `json:"phenotypes,omitempty"`
	PLi                  *float64        `json:"pli_score,omitempty"`
	LoeufScore           *float64        `json:"constraint_lof_oe_ci_upper,omitempty"`
	IncompletePenetrance bool            `json:"incomplete_penetrance,omitempty"`

	// Panel overrides, set by the annotator from the case's default panels.
	DiseaseAssociatedTranscripts []string `json:"disease_associated_transcripts,omitempty"`
	ManualPenetrance             bool     `json:"manual_penetrance,omitempty"`
	Mosaicism                    bool     `json:"mosaicism,omitempty"`
	ManualInheritance            []string `json:"manual_inheritance,omitempty"`
	PanelComments                []string `json:"comments,omitempty"`
}

// Compound is a materialized compound partner reference on a variant.
type Compound struct {
	VariantID             string           `json:"variant"`
	DisplayName           string           `json:"display_name,omitempty"`
	CombinedScore         float64          `json:"combined_score"`
	RankScore             float64          `json:"rank_score,omitempty"`
	Genes                 []GeneAnnotation `json:"genes,omitempty"`
	RegionAnnotations     []string         `json:"region_annotations,omitempty"`
	FunctionalAnnotations []string         `json:"functional_annotations,omitempty"`

	// View-model fields, never persisted by the loader.
	NotLoaded   bool `json:"not_loaded,omitempty"`
	IsDismissed bool `json:"is_dismissed,omitempty"`
}

// ClnSig is one ClinVar significance annotation. Value may be the numeric
// code or its human readable form depending on annotation source.
type ClnSig struct {
	Value     any    `json:"value"`
	Accession string `json:"accession,omitempty"`
	Revstat   string `json:"revstat,omitempty"`
}

// SampleCall is one individual's genotype on the variant.
type SampleCall struct {
	SampleID        string   `json:"sample_id"`
	DisplayName     string   `json:"display_name,omitempty"`
	GenotypeCall    string   `json:"genotype_call,omitempty"`
	AlleleDepths    []int    `json:"allele_depths,omitempty"`
	ReadDepth       *int     `json:"read_depth,omitempty"`
	GenotypeQuality *int     `json:"genotype_quality,omitempty"`
	AltFrequency    *float64 `json:"alt_frequency,omitempty"`
	AltMCCounts     []int    `json:"alt_mc_counts,omitempty"`
}

// RankScoreResult is one named component of the composite rank score.
type RankScoreResult struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`

	// Range metadata from the rank model, filled at view time.
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	RangeNotes []string `json:"model_ranges,omitempty"`
}

// Variant is a stored variant document. Identity is (CaseID, VariantID hash);
// SimpleID ties the clinical and research siblings of the same call together.
type Variant struct {
	ID          string      `json:"_id"`
	VariantID   string      `json:"variant_id"`
	SimpleID    string      `json:"simple_id,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	CaseID      string      `json:"case_id"`
	Institute   string      `json:"institute,omitempty"`
	Category    Category    `json:"category"`
	SubCategory string      `json:"sub_category,omitempty"`
	VariantType VariantType `json:"variant_type"`

	Chromosome    string   `json:"chromosome"`
	Position      int      `json:"position"`
	End           int      `json:"end,omitempty"`
	EndChrom      string   `json:"end_chrom,omitempty"`
	Reference     string   `json:"reference,omitempty"`
	Alternative   string   `json:"alternative,omitempty"`
	Length        int      `json:"length,omitempty"`
	Filters       []string `json:"filters,omitempty"`
	Quality       *float64 `json:"quality,omitempty"`
	CytobandStart string   `json:"cytoband_start,omitempty"`
	CytobandEnd   string   `json:"cytoband_end,omitempty"`

	RankScore        float64           `json:"rank_score"`
	RankScoreResults []RankScoreResult `json:"rank_score_results,omitempty"`
	VariantRank      int               `json:"variant_rank,omitempty"`

	Genes         []GeneAnnotation `json:"genes,omitempty"`
	HgncIDs       []int            `json:"hgnc_ids,omitempty"`
	HgncSymbols   []string         `json:"hgnc_symbols,omitempty"`
	Panels        []string         `json:"panels,omitempty"`
	GeneticModels []string         `json:"genetic_models,omitempty"`

	GnomadFrequency          *float64 `json:"gnomad_frequency,omitempty"`
	ExacFrequency            *float64 `json:"exac_frequency,omitempty"`
	ThousandGenomesFrequency *float64 `json:"thousand_genomes_frequency,omitempty"`
	SwegenFrequency          *float64 `json:"swegen,omitempty"`
	GnomadMTHomoplasmic      *float64 `json:"gnomad_mt_homoplasmic_frequency,omitempty"`
	GnomadMTHeteroplasmic    *float64 `json:"gnomad_mt_heteroplasmic_frequency,omitempty"`
	SwegenMeiMax             *float64 `json:"swegen_mei_max,omitempty"`
	ColorsdbAF               *float64 `json:"colorsdb_af,omitempty"`
	LocalObs                 *int     `json:"local_obs_old,omitempty"`
	LocalObsHom              *int     `json:"local_obs_hom_old,omitempty"`
	ClinGenNGI               *int     `json:"clingen_ngi,omitempty"`

	CaddScore *float64 `json:"cadd_score,omitempty"`
	Spidex    *float64 `json:"spidex,omitempty"`
	Revel     *float64 `json:"revel,omitempty"`

	Compounds []Compound   `json:"compounds,omitempty"`
	Samples   []SampleCall `json:"samples,omitempty"`
	ClnSig    []ClnSig     `json:"clnsig,omitempty"`
	CosmicIDs []string     `json:"cosmic_ids,omitempty"`

	TumorFrequency   *float64 `json:"tumor_frequency,omitempty"`
	ControlFrequency *float64 `json:"control_frequency,omitempty"`

	StrRepID  string `json:"str_repid,omitempty"`
	StrRef    *int   `json:"str_ref,omitempty"`
	StrMC     *int   `json:"str_mc,omitempty"`
	StrStatus string `json:"str_status,omitempty"`

	ACMGClassification string `json:"acmg_classification,omitempty"`
	CCVClassification  string `json:"ccv_classification,omitempty"`
	ManualRank         *int   `json:"manual_rank,omitempty"`
	CancerTier         string `json:"cancer_tier,omitempty"`
	DismissVariant     []int  `json:"dismiss_variant,omitempty"`
	MosaicTags         []int  `json:"mosaic_tags,omitempty"`
	Sanger             string `json:"sanger_ordered,omitempty"`
	ValidationStatus   string `json:"validation,omitempty"`

	MissingData bool `json:"missing_data,omitempty"`

	InstituteID string `json:"-"`
}

// HasAssessment reports whether the variant carries any manual assessment.
func (v *Variant) HasAssessment() bool {
	return v.ACMGClassification != "" ||
		v.CCVClassification != "" ||
		v.ManualRank != nil ||
		v.CancerTier != "" ||
		len(v.DismissVariant) > 0 ||
		len(v.MosaicTags) > 0
}

// EndPosition computes the end coordinate from the alleles: the start plus
// the longest allele length minus one. Structural variants carry an explicit
// end instead; insertions fold their length into it.
func (v *Variant) EndPosition() int {
	if v.End > 0 {
		if v.SubCategory == "ins" {
			return v.End + v.Length
		}
		return v.End
	}
	longest := len(v.Reference)
	if len(v.Alternative) > longest {
		longest = len(v.Alternative)
	}
	if longest == 0 {
		return v.Position
	}
	return v.Position + longest - 1
}

// IsMitochondrial reports whether the variant lies on the MT contig.
func (v *Variant) IsMitochondrial() bool {
	return v.Chromosome == "MT" || v.Chromosome == "M" || v.Chromosome == "chrM" || v.Chromosome == "chrMT"
}

// ManagedVariant is an institute-wide flagged variant of interest.
type ManagedVariant struct {
	ID          string    `json:"_id"`
	Chromosome  string    `json:"chromosome"`
	Position    int       `json:"position"`
	End         int       `json:"end,omitempty"`
	Reference   string    `json:"reference"`
	Alternative string    `json:"alternative"`
	Build       string    `json:"build"`
	Category    Category  `json:"category"`
	SubCategory string    `json:"sub_category,omitempty"`
	Description string    `json:"description,omitempty"`
	Maintainer  []string  `json:"maintainer,omitempty"`
	Institutes  []string  `json:"institutes,omitempty"`
	CreatedAt   time.Time `json:"date"`
}

// Key returns the natural identity of a managed variant.
func (m *ManagedVariant) Key() string {
	return strings.Join([]string{
		m.Chromosome, strconv.Itoa(m.Position), m.Reference, m.Alternative, NormalizeBuild(m.Build),
	}, "_")
}
