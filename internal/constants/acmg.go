// Package constants holds the closed vocabularies the interpretation core
// dispatches on: classification criteria, clinical-significance codes,
// consequence ranks, case statuses and event verbs. The tables carry the UI
// metadata (labels, colors, documentation links) so the presentation layer
// never hard-codes them.
package constants

// ClassificationOption describes one classification bucket with its display
// metadata.
type ClassificationOption struct {
	Code  string
	Short string
	Label string
	Color string
}

// ACMGOptions lists the ACMG buckets from worst to most certain benign.
var ACMGOptions = []ClassificationOption{
	{Code: "pathogenic", Short: "P", Label: "Pathogenic", Color: "danger"},
	{Code: "likely_pathogenic", Short: "LP", Label: "Likely Pathogenic", Color: "warning"},
	{Code: "uncertain_significance", Short: "VUS", Label: "Uncertain Significance", Color: "primary"},
	{Code: "likely_benign", Short: "LB", Label: "Likely Benign", Color: "info"},
	{Code: "benign", Short: "B", Label: "Benign", Color: "success"},
}

// ACMGCompleteMap indexes ACMGOptions by bucket code.
var ACMGCompleteMap = optionMap(ACMGOptions)

// ACMGMap translates the legacy numeric classification codes still present in
// old evaluation documents.
var ACMGMap = map[int]string{
	4: "pathogenic",
	3: "likely_pathogenic",
	0: "uncertain_significance",
	2: "likely_benign",
	1: "benign",
}

// Criterion describes a single evidence criterion term.
type Criterion struct {
	Term          string
	Short         string
	Description   string
	Documentation string
	// Strength is the base strength class: "Stand-alone", "Very Strong",
	// "Strong", "Moderate" or "Supporting".
	Strength string
	// Direction is "pathogenicity" or "benign impact" for ACMG,
	// "oncogenicity" or "benign impact" for CCV.
	Direction string
}

// ACMGCriteria is the ACMG evidence vocabulary (Richards 2015), in display
// order.
var ACMGCriteria = []Criterion{
	{Term: "PVS1", Short: "Null variant", Strength: "Very Strong", Direction: "pathogenicity",
		Description:   "Null variant (nonsense, frameshift, canonical +/- 2 bp splice sites, initiation codon, single or multiexon deletion) in a gene where LOF is a known mechanism of disease.",
		Documentation: "Strength can be modified based on Tayoun et al and AutoPVS1, or for RNA Walker et al."},
	{Term: "PS1", Short: "Known pathogenic aa", Strength: "Strong", Direction: "pathogenicity",
		Description: "Same amino acid change as a previously established pathogenic variant regardless of nucleotide change"},
	{Term: "PS2", Short: "De novo (confirmed)", Strength: "Strong", Direction: "pathogenicity",
		Description:   "De novo (both maternity and paternity confirmed) in a patient with the disease and no family history",
		Documentation: "Strength can be modified based on SVI de novo."},
	{Term: "PS3", Short: "Functional damage", Strength: "Strong", Direction: "pathogenicity",
		Description:   "Well-established in vitro or in vivo functional studies supportive of a damaging effect on the gene or gene product, and the evidence is strong",
		Documentation: "Strength can be modified based on Brnich 2019."},
	{Term: "PS4", Short: "In >=4 unrelated patients, not controls", Strength: "Strong", Direction: "pathogenicity",
		Description:   "The prevalence of the variant in affected individuals is significantly increased compared with the prevalence in controls; 4 or more unrelated patients",
		Documentation: "ACGS (Ellard et al 2020) suggest an odds ratio calculator, and application with strength modification for fewer unrelated affected individuals or gnomAD controls."},
	{Term: "PM1", Short: "Functional domain", Strength: "Moderate", Direction: "pathogenicity",
		Description: "Located in a mutational hot spot and/or critical and well-established functional domain (e.g., active site of an enzyme) without benign variation"},
	{Term: "PM2", Short: "Not in matched controls", Strength: "Moderate", Direction: "pathogenicity",
		Description:   "Absent from controls (or at extremely low frequency if recessive), in ethnically matched population",
		Documentation: "Apply only if variant is expected to be detected in large population datasets - see e.g. Harrison et al 2019."},
	{Term: "PM3", Short: "In trans pathogenic & AR", Strength: "Moderate", Direction: "pathogenicity",
		Description:   "For recessive disorders, detected in trans with a pathogenic variant",
		Documentation: "Strength can be modified based on SVI in trans."},
	{Term: "PM4", Short: "In-frame/stop-loss; moderate impact", Strength: "Moderate", Direction: "pathogenicity",
		Description: "Protein length changes as a result of in-frame deletions/insertions in a nonrepeat region or stop-loss variants."},
	{Term: "PM5", Short: "Similar to known pathogenic aa", Strength: "Moderate", Direction: "pathogenicity",
		Description: "Novel missense change at an amino acid residue where a different missense change determined to be pathogenic has been seen before, the amino acids have similar properties and the evidence is strong"},
	{Term: "PM6", Short: "De novo (unconfirmed)", Strength: "Moderate", Direction: "pathogenicity",
		Description:   "Assumed de novo, but without confirmation of paternity and maternity",
		Documentation: "Strength can be modified based on SVI de novo."},
	{Term: "PP1", Short: "Cosegregation", Strength: "Supporting", Direction: "pathogenicity",
		Description:   "Cosegregation with disease in multiple affected family members in a gene definitively known to cause the disease, and the evidence is weak",
		Documentation: "Strength can be modified per Jarvik 2016, Biesecker et al 2023"},
	{Term: "PP2", Short: "Missense: important", Strength: "Supporting", Direction: "pathogenicity",
		Description: "Missense variant in a gene that has a low rate of benign missense variation and in which missense variants are a common mechanism of disease"},
	{Term: "PP3", Short: "Predicted pathogenic", Strength: "Supporting", Direction: "pathogenicity",
		Description:   "Multiple lines of computational evidence support a deleterious effect on the gene or gene product (conservation, evolutionary, splicing impact, etc)",
		Documentation: "Strength can be modified based on Pejaver et al"},
	{Term: "PP4", Short: "Phenotype: single gene", Strength: "Supporting", Direction: "pathogenicity",
		Description:   "Patient's phenotype or family history is highly specific for a disease with a single genetic etiology",
		Documentation: "Strength can be modified based on Biesecker et al 2023"},
	{Term: "PP5", Short: "Reported pathogenic, evidence unavailable", Strength: "Supporting", Direction: "pathogenicity",
		Description:   "Reputable source recently reports variant as pathogenic, but the evidence is not available to the laboratory to perform an independent evaluation",
		Documentation: "Deprecated by ClinGen SVI Biesecker et al 2018."},
	{Term: "BA1", Short: "Frequency >=0.05", Strength: "Stand-alone", Direction: "benign impact",
		Description:   "Allele frequency is >=0.05 in a general continental population dataset",
		Documentation: "For clarification and exceptions see Ghosh et al"},
	{Term: "BS1", Short: "Frequency >expected & AD", Strength: "Strong", Direction: "benign impact",
		Description: "Allele frequency is greater than expected for disorder, and the inheritance is autosomal dominant."},
	{Term: "BS2", Short: "In documented healthy", Strength: "Strong", Direction: "benign impact",
		Description: "Observed in a healthy adult individual for a recessive (homozygous), dominant (heterozygous), or X-linked (hemizygous) disorder, with full penetrance expected at an early age"},
	{Term: "BS3", Short: "No functional damage", Strength: "Strong", Direction: "benign impact",
		Description:   "Well-established in vitro or in vivo functional studies show no damaging effect on protein function or splicing, and the evidence is strong",
		Documentation: "Strength can be modified based on Brnich 2019."},
	{Term: "BS4", Short: "Non-segregation", Strength: "Strong", Direction: "benign impact",
		Description:   "Lack of segregation in affected members of a family, and the evidence is strong",
		Documentation: "Strength can be modified based on Biesecker et al 2023"},
	{Term: "BP1", Short: "Missense; not important", Strength: "Supporting", Direction: "benign impact",
		Description: "Missense variant in a gene for which primarily truncating variants are known to cause disease"},
	{Term: "BP2", Short: "In trans & AD, or in cis pathogenic", Strength: "Supporting", Direction: "benign impact",
		Description: "Observed in trans with a pathogenic variant for a fully penetrant dominant gene/disorder or in cis with a pathogenic variant in any inheritance pattern"},
	{Term: "BP3", Short: "In-frame; non-functional", Strength: "Supporting", Direction: "benign impact",
		Description: "In-frame insertions/deletions in a repetitive region without a known function"},
	{Term: "BP4", Short: "Predicted benign", Strength: "Supporting", Direction: "benign impact",
		Description: "Multiple lines of computational evidence suggest no impact on gene or gene product (conservation, evolutionary, splicing impact, etc.)"},
	{Term: "BP5", Short: "Other causative variant found", Strength: "Supporting", Direction: "benign impact",
		Description: "Variant found in a case with an alternate molecular basis for disease"},
	{Term: "BP6", Short: "Reported benign, evidence unavailable", Strength: "Supporting", Direction: "benign impact",
		Description:   "Reputable source recently reports variant as benign, but the evidence is not available to the laboratory to perform an independent evaluation",
		Documentation: "Deprecated by ClinGen SVI Biesecker et al."},
	{Term: "BP7", Short: "Synonymous, no impact on splicing", Strength: "Supporting", Direction: "benign impact",
		Description: "A synonymous variant for which splicing prediction algorithms predict no impact to the splice consensus sequence nor the creation of a new splice site"},
}

// ConflictPair names two criteria that risk double-counting evidence when
// applied together, with the literature reference shown to the reviewer.
type ConflictPair struct {
	First     string
	Second    string
	Reference string
}

// ACMGPotentialConflicts are surfaced next to the classification; they never
// block it.
var ACMGPotentialConflicts = []ConflictPair{
	{"PVS1", "PM4", "Use of PVS1 and PM4 together risks double-counting evidence (Tayoun et al 2019)."},
	{"PVS1", "PM1", "Use of PVS1 and PM1 together is not recommended (Durkie et al 2024)."},
	{"PVS1", "PP2", "Use of PVS1 and PP2 together is not recommended (Durkie et al 2024)."},
	{"PVS1", "PS3", "Note that for RNA PS3 should only be taken with PVS1 for well established functional assays, not splicing alone (Walker 2023)."},
	{"PS1", "PM4", "Use of PS1 and PM4 together is not recommended (Durkie et al 2024)."},
	{"PS1", "PM5", "Use of PS1 and PM5 together conflicts with original definition (Richards et al 2015)."},
	{"PS1", "PP3", "Use of PS1 and PP3 together risks double-counting evidence (Tayoun et al 2019)."},
	{"PS2", "PM6", "Use of PS2 and PM6 together conflicts with original definition (Richards et al 2015)."},
	{"PM1", "PP2", "Avoid double-counting evidence for constraints in both PM1 and PP2 (Durkie et al 2024)."},
}

func optionMap(options []ClassificationOption) map[string]ClassificationOption {
	m := make(map[string]ClassificationOption, len(options))
	for _, opt := range options {
		m[opt.Code] = opt
	}
	return m
}
