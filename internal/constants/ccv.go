package constants

// CCVOptions lists the ClinGen/CGC/VICC oncogenicity buckets (Horak 2022).
var CCVOptions = []ClassificationOption{
	{Code: "oncogenic", Short: "O", Label: "Oncogenic", Color: "danger"},
	{Code: "likely_oncogenic", Short: "LO", Label: "Likely Oncogenic", Color: "warning"},
	{Code: "uncertain_significance", Short: "VUS", Label: "Uncertain Significance", Color: "primary"},
	{Code: "likely_benign", Short: "LB", Label: "Likely Benign", Color: "info"},
	{Code: "benign", Short: "B", Label: "Benign", Color: "success"},
}

// CCVCompleteMap indexes CCVOptions by bucket code.
var CCVCompleteMap = optionMap(CCVOptions)

// CCVMap translates the legacy numeric oncogenicity codes.
var CCVMap = map[int]string{
	4: "oncogenic",
	3: "likely_oncogenic",
	0: "uncertain_significance",
	2: "likely_benign",
	1: "benign",
}

// CCVCriteria is the somatic oncogenicity evidence vocabulary, in display
// order.
var CCVCriteria = []Criterion{
	{Term: "OVS1", Short: "Null variant in tumor suppressor", Strength: "Very Strong", Direction: "oncogenicity",
		Description: "Null variant (nonsense, frameshift, canonical +/- 1 or 2 splice sites, initiation codon, single-exon or multiexon deletion) in a bona fide tumor suppressor gene."},
	{Term: "OS1", Short: "Same aa change as known oncogenic", Strength: "Strong", Direction: "oncogenicity",
		Description: "Same amino acid change as a previously established oncogenic variant (using this standard) regardless of nucleotide change."},
	{Term: "OS2", Short: "Functional damage", Strength: "Strong", Direction: "oncogenicity",
		Description: "Well-established in vitro or in vivo functional studies, supportive of an oncogenic effect of the variant."},
	{Term: "OS3", Short: "Hotspot, high frequency", Strength: "Strong", Direction: "oncogenicity",
		Description: "Located in one of the hotspots in cancerhotspots.org with at least 50 samples with a somatic variant at the same amino acid position, and the same amino acid change count in at least 10 samples."},
	{Term: "OM1", Short: "Functional domain", Strength: "Moderate", Direction: "oncogenicity",
		Description: "Located in a critical and well-established part of a functional domain (e.g., active site of an enzyme)."},
	{Term: "OM2", Short: "Protein length change", Strength: "Moderate", Direction: "oncogenicity",
		Description: "Protein length changes as a result of in-frame deletions/insertions in a known oncogene or tumor suppressor gene or stop-loss variants in a known tumor suppressor gene."},
	{Term: "OM3", Short: "Hotspot, moderate frequency", Strength: "Moderate", Direction: "oncogenicity",
		Description: "Located in one of the hotspots in cancerhotspots.org with fewer than 50 samples with a somatic variant at the same amino acid position, and the same amino acid change count in at least 10 samples."},
	{Term: "OM4", Short: "Similar to known oncogenic aa", Strength: "Moderate", Direction: "oncogenicity",
		Description: "Missense variant at an amino acid residue where a different missense variant determined to be oncogenic (using this standard) has been documented. Amino acid difference from reference amino acid should be greater or at least approximately the same as for missense change determined to be oncogenic."},
	{Term: "OP1", Short: "Predicted oncogenic", Strength: "Supporting", Direction: "oncogenicity",
		Description: "All used lines of computational evidence support an oncogenic effect of a variant (conservation/evolutionary, splicing effect, etc.)."},
	{Term: "OP2", Short: "Gene in malignancy mechanism", Strength: "Supporting", Direction: "oncogenicity",
		Description: "Somatic variant in a gene in a malignancy with a similar predicted mechanism as a well-established oncogenic variant in that gene."},
	{Term: "OP3", Short: "Hotspot, low frequency", Strength: "Supporting", Direction: "oncogenicity",
		Description: "Located in one of the hotspots in cancerhotspots.org and the particular amino acid change count in cancerhotspots.org is below 10."},
	{Term: "OP4", Short: "Absent from controls", Strength: "Supporting", Direction: "oncogenicity",
		Description: "Absent from controls (or at an extremely low frequency) in gnomAD."},
	{Term: "SBVS1", Short: "Frequency >=0.05", Strength: "Very Strong", Direction: "benign impact",
		Description: "Minor allele frequency is >=5% in gnomAD in any 5 general continental populations: African, East Asian, European (non-Finnish), Latino, and South Asian."},
	{Term: "SBS1", Short: "Frequency >=0.01", Strength: "Strong", Direction: "benign impact",
		Description: "Minor allele frequency is >=1% in gnomAD in any 5 general continental populations: African, East Asian, European (non-Finnish), Latino, and South Asian."},
	{Term: "SBS2", Short: "No functional damage", Strength: "Strong", Direction: "benign impact",
		Description: "Well-established in vitro or in vivo functional studies show no oncogenic effects."},
	{Term: "SBP1", Short: "Predicted benign", Strength: "Supporting", Direction: "benign impact",
		Description: "All used lines of computational evidence suggest no effect of a variant (conservation/evolutionary, splicing effect, etc.)."},
	{Term: "SBP2", Short: "Synonymous, no impact on splicing", Strength: "Supporting", Direction: "benign impact",
		Description: "A synonymous (silent) variant for which splicing prediction algorithms predict no effect on the splice consensus sequence nor the creation of a new splice site and the nucleotide is not highly conserved."},
}

// CCVPotentialConflicts mirrors ACMGPotentialConflicts for the somatic
// vocabulary.
var CCVPotentialConflicts = []ConflictPair{
	{"OS2", "OS1", "Different amino acid change determined to be oncogenic at the same codon: OS2 should not be used with OS1 (Horak et al 2022)."},
	{"OS3", "OS1", "Use of OS3 and OS1 together risks double-counting evidence (Horak et al 2022)."},
	{"OM1", "OVS1", "Use of OM1 and OVS1 together is not recommended (Horak et al 2022)."},
	{"OM3", "OM1", "Use of OM3 and OM1 together risks double-counting evidence (Horak et al 2022)."},
	{"OM3", "OM4", "Use of OM3 and OM4 together risks double-counting evidence (Horak et al 2022)."},
}
