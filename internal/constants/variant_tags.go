package constants

import "math"

// SOTerm carries the severity rank and functional region for one sequence
// ontology consequence term. Lower rank means more severe.
type SOTerm struct {
	Rank   int
	Region string
}

// SOTerms are the valid consequence terms with their severity ranks.
var SOTerms = map[string]SOTerm{
	"transcript_ablation":                {Rank: 1, Region: "exonic"},
	"splice_donor_variant":               {Rank: 2, Region: "splicing"},
	"splice_acceptor_variant":            {Rank: 3, Region: "splicing"},
	"stop_gained":                        {Rank: 4, Region: "exonic"},
	"frameshift_variant":                 {Rank: 5, Region: "exonic"},
	"stop_lost":                          {Rank: 6, Region: "exonic"},
	"start_lost":                         {Rank: 7, Region: "exonic"},
	"initiator_codon_variant":            {Rank: 8, Region: "exonic"},
	"inframe_insertion":                  {Rank: 9, Region: "exonic"},
	"inframe_deletion":                   {Rank: 10, Region: "exonic"},
	"missense_variant":                   {Rank: 11, Region: "exonic"},
	"protein_altering_variant":           {Rank: 12, Region: "exonic"},
	"transcript_amplification":           {Rank: 13, Region: "exonic"},
	"splice_region_variant":              {Rank: 14, Region: "splicing"},
	"incomplete_terminal_codon_variant":  {Rank: 15, Region: "exonic"},
	"synonymous_variant":                 {Rank: 16, Region: "exonic"},
	"stop_retained_variant":              {Rank: 17, Region: "exonic"},
	"coding_sequence_variant":            {Rank: 18, Region: "exonic"},
	"mature_miRNA_variant":               {Rank: 19, Region: "ncRNA_exonic"},
	"5_prime_UTR_variant":                {Rank: 20, Region: "5UTR"},
	"3_prime_UTR_variant":                {Rank: 21, Region: "3UTR"},
	"non_coding_transcript_exon_variant": {Rank: 22, Region: "ncRNA_exonic"},
	"non_coding_exon_variant":            {Rank: 23, Region: "ncRNA_exonic"},
	"non_coding_transcript_variant":      {Rank: 24, Region: "ncRNA_exonic"},
	"nc_transcript_variant":              {Rank: 25, Region: "ncRNA_exonic"},
	"intron_variant":                     {Rank: 26, Region: "intronic"},
	"NMD_transcript_variant":             {Rank: 27, Region: "ncRNA"},
	"upstream_gene_variant":              {Rank: 28, Region: "upstream"},
	"downstream_gene_variant":            {Rank: 29, Region: "downstream"},
	"TFBS_ablation":                      {Rank: 30, Region: "TFBS"},
	"TFBS_amplification":                 {Rank: 31, Region: "TFBS"},
	"TF_binding_site_variant":            {Rank: 32, Region: "TFBS"},
	"regulatory_region_ablation":         {Rank: 33, Region: "regulatory_region"},
	"regulatory_region_amplification":    {Rank: 34, Region: "regulatory_region"},
	"regulatory_region_variant":          {Rank: 35, Region: "regulatory_region"},
	"feature_elongation":                 {Rank: 36, Region: "genomic_feature"},
	"feature_truncation":                 {Rank: 37, Region: "genomic_feature"},
	"intergenic_variant":                 {Rank: 38, Region: "intergenic_variant"},
}

// SevereSOTerms are the consequence terms considered severe enough to show by
// default in gene panels.
var SevereSOTerms = []string{
	"transcript_ablation",
	"splice_donor_variant",
	"splice_acceptor_variant",
	"stop_gained",
	"frameshift_variant",
	"stop_lost",
	"start_lost",
	"initiator_codon_variant",
	"inframe_insertion",
	"inframe_deletion",
	"missense_variant",
	"protein_altering_variant",
	"transcript_amplification",
	"splice_region_variant",
	"incomplete_terminal_codon_variant",
	"synonymous_variant",
	"stop_retained_variant",
}

// FeatureTypes are the functional region annotations a query may select on.
var FeatureTypes = []string{
	"exonic",
	"splicing",
	"ncRNA_exonic",
	"intronic",
	"ncRNA",
	"upstream",
	"5UTR",
	"3UTR",
	"downstream",
	"TFBS",
	"regulatory_region",
	"genomic_feature",
	"intergenic_variant",
}

// ClinSigMap translates ClinVar numeric significance codes to their human
// readable form. Queries accept either representation.
var ClinSigMap = map[int]string{
	0:   "Uncertain significance",
	1:   "not provided",
	2:   "Benign",
	3:   "Likely benign",
	4:   "Likely pathogenic",
	5:   "Pathogenic",
	6:   "drug response",
	7:   "histocompatibility",
	255: "other",
}

// GeneticModel pairs an inheritance model code with its display name.
type GeneticModel struct {
	Code string
	Name string
}

// GeneticModels are the inheritance models the rank model annotates.
var GeneticModels = []GeneticModel{
	{"AR_hom", "Autosomal Recessive Homozygote"},
	{"AR_hom_dn", "Autosomal Recessive Homozygote De Novo"},
	{"AR_comp", "Autosomal Recessive Compound"},
	{"AR_comp_dn", "Autosomal Recessive Compound De Novo"},
	{"AD", "Autosomal Dominant"},
	{"AD_dn", "Autosomal Dominant De Novo"},
	{"XR", "X Linked Recessive"},
	{"XR_dn", "X Linked Recessive De Novo"},
	{"XD", "X Linked Dominant"},
	{"XD_dn", "X Linked Dominant De Novo"},
}

// SVTypes are the structural variant subtypes.
var SVTypes = []string{"ins", "del", "dup", "cnv", "inv", "bnd"}

// VariantCalls are the per-sample verification call states.
var VariantCalls = []string{"Pass", "Filtered", "Not Found", "Not Used"}

// SpidexInterval is one absolute-value band of SPIDEX splicing scores,
// mirrored into a negative and a positive interval.
type SpidexInterval struct {
	Neg [2]float64
	Pos [2]float64
}

// SpidexHuman maps the human readable SPIDEX levels to score intervals.
var SpidexHuman = map[string]SpidexInterval{
	"low":    {Neg: [2]float64{-1, 0}, Pos: [2]float64{0, 1}},
	"medium": {Neg: [2]float64{-2, -1}, Pos: [2]float64{1, 2}},
	"high":   {Neg: [2]float64{-2, math.Inf(-1)}, Pos: [2]float64{2, math.Inf(1)}},
}

// SpidexLevels in increasing severity; "not_reported" selects variants
// without a SPIDEX score.
var SpidexLevels = []string{"not_reported", "low", "medium", "high"}

// AssessmentOption is one entry of a closed manual-assessment vocabulary.
type AssessmentOption struct {
	Label       string
	Name        string
	Description string
	LabelClass  string
	Evidence    []string
}

// ManualRankOptions is the manual significance scale, keyed by rank.
var ManualRankOptions = map[int]AssessmentOption{
	8: {Label: "KP", Name: "Known pathogenic", Description: "Known pathogenic, previously known pathogenic in ClinVar, HGMD, literature, etc", LabelClass: "danger"},
	7: {Label: "P", Name: "Pathogenic", Description: "Pathogenic, novel mutation but overlapping phenotype", LabelClass: "danger"},
	6: {Label: "NVP", Name: "Novel validated pathogenic", Description: "Novel validated pathogenic, novel mutation and validated functional studies", LabelClass: "danger"},
	5: {Label: "PP", Name: "Pathogenic partial phenotype", Description: "Pathogenic, partial phenotype, pathogenic variant explaining part of the phenotype", LabelClass: "warning"},
	4: {Label: "LP", Name: "Likely pathogenic", Description: "Likely pathogenic, phenotype consistent but not fully proven", LabelClass: "warning"},
	3: {Label: "PP", Name: "Possibly pathogenic", Description: "Possibly pathogenic, uncertain significance with phenotype fit", LabelClass: "warning"},
	2: {Label: "LB", Name: "Likely benign", Description: "Likely benign, phenotype not consistent", LabelClass: "info"},
	1: {Label: "B", Name: "Benign", Description: "Benign, clearly not causing disease", LabelClass: "info"},
	0: {Label: "O", Name: "Other", Description: "Other, phenotype not related to disease", LabelClass: "default"},
}

// DismissVariantOptions is the dismissal-reason vocabulary, keyed by code.
// The cancer-specific codes below extend it for cancer track cases.
var DismissVariantOptions = map[int]AssessmentOption{
	2:  {Label: "Common public", Description: "Too common in public databases.", LabelClass: "info", Evidence: []string{"freq"}},
	3:  {Label: "Common local", Description: "Too common in local databases.", LabelClass: "info", Evidence: []string{"freq"}},
	5:  {Label: "Irrelevant phenotype", Description: "Phenotype not relevant.", LabelClass: "info", Evidence: []string{"OMIM"}},
	7:  {Label: "Inconsistent inheritance pattern", Description: "Inheritance pattern not relevant.", LabelClass: "info", Evidence: []string{"OMIM", "GT", "inheritance_model"}},
	11: {Label: "No plausible compound", Description: "No plausible compound - AR disease.", LabelClass: "info", Evidence: []string{"Compounds"}},
	13: {Label: "Not in disease transcript", Description: "Not in transcript relevant to disease.", LabelClass: "info", Evidence: []string{"transcript"}},
	17: {Label: "Not in RefSeq transcript", Description: "Not in a RefSeq transcript - could not be clinically relevant.", LabelClass: "info", Evidence: []string{"transcript"}},
	19: {Label: "Splicing unaffected", Description: "Does not appear to affect splicing.", LabelClass: "info", Evidence: []string{"spidex"}},
	23: {Label: "Inherited from unaffected", Description: "Inherited from an unaffected individual.", LabelClass: "info", Evidence: []string{"GT", "pedigree"}},
	29: {Label: "Technical issues", Description: "Technical issues - genotype not supported by reads.", LabelClass: "info", Evidence: []string{"IGV", "GT"}},
	31: {Label: "No protein function", Description: "Not expected to alter protein function - synonymous, missense in non-conserved residue.", LabelClass: "info", Evidence: []string{"protein"}},
	37: {Label: "Reversion", Description: "Possible reversion artifact.", LabelClass: "info", Evidence: []string{"IGV"}},
	41: {Label: "Other", Description: "Other reason, please specify in comments.", LabelClass: "info"},
}

// CancerDismissVariantOptions extend DismissVariantOptions for cancer cases.
var CancerDismissVariantOptions = map[int]AssessmentOption{
	44: {Label: "Possible germline", Description: "Variant is possibly a germline event.", LabelClass: "warning"},
	45: {Label: "Low count normal", Description: "Variant has too few reads in normal sample.", LabelClass: "warning", Evidence: []string{"IGV"}},
	46: {Label: "Low count tumor", Description: "Variant has too few reads in tumor sample.", LabelClass: "warning", Evidence: []string{"IGV"}},
}

// CancerTierOptions is the somatic tier vocabulary (AMP 2017), keyed by tier.
var CancerTierOptions = map[string]AssessmentOption{
	"1A": {Label: "Tier IA", Description: "Strong Clinical Significance. Biomarkers in FDA or guidelines that predict response, resistance to therapy, diagnosis or prognosis to specific tumor type.", LabelClass: "danger"},
	"1B": {Label: "Tier IB", Description: "Potential Clinical Significance. Biomarkers in well-powered, consensus affirmed studies that predict response, resistance to therapy, diagnostic or prognostic significance to specific tumor type.", LabelClass: "danger"},
	"2C": {Label: "Tier IIC", Description: "Biomarkers in FDA or guidelines that predict response, resistance to therapy, to a different tumor type; are diagnostic or prognostic for multiple small studies; or serve as study inclusion criteria.", LabelClass: "warning"},
	"2D": {Label: "Tier IID", Description: "Biomarkers that show plausible therapeutic significance based on preclinical studies, may assist diagnosis or prognosis based on small reports.", LabelClass: "warning"},
	"3":  {Label: "Tier III", Description: "Variant of Unknown Clinical Significance. Not observed in the population, nor in tumor databases. No convincing published evidence of cancer association.", LabelClass: "primary"},
	"4":  {Label: "Tier IV", Description: "Observed at high frequency in the population. No published evidence.", LabelClass: "default"},
}

// MosaicismOptions is the mosaicism tag vocabulary, keyed by code.
var MosaicismOptions = map[int]AssessmentOption{
	1: {Label: "Suspected in parent", Description: "Variant is suspected to be mosaic in a parent sample.", Evidence: []string{"allele_count"}},
	2: {Label: "Suspected in affected", Description: "Variant is suspected to be mosaic in a affected sample.", Evidence: []string{"allele_count"}},
	3: {Label: "Confirmed in parent", Description: "Variant is confirmed to be mosaic in a parent sample.", Evidence: []string{"allele_count"}},
	4: {Label: "Confirmed in affected", Description: "Variant is confirmed to be mosaic in a affected sample.", Evidence: []string{"allele_count"}},
	5: {Label: "Not evident in parental reads", Description: "Variant was inspected for mosaicism, but not seen in reads from parental samples.", Evidence: []string{"allele_count"}},
}

// Frequency thresholds for the textual population frequency summary.
const (
	FreqCommonThreshold   = 0.05
	FreqUncommonThreshold = 0.01
)
