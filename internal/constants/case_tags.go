package constants

// CaseStatuses are the valid case lifecycle states.
var CaseStatuses = []string{"prioritized", "inactive", "active", "solved", "archived", "ignored"}

// AnalysisTypes are the sequencing analysis types an individual may carry.
var AnalysisTypes = []string{"external", "mixed", "ogm", "panel", "panel-umi", "unknown", "wes", "wgs", "wts"}

// SexMap translates PED sex codes to display form.
var SexMap = map[int]string{1: "male", 2: "female", 0: "unknown"}

// PhenotypeMap translates PED phenotype codes to display form for rare
// disease cases.
var PhenotypeMap = map[int]string{1: "unaffected", 2: "affected", 0: "unknown", -9: "unknown"}

// CancerPhenotypeMap translates phenotype codes for cancer track cases.
var CancerPhenotypeMap = map[int]string{1: "normal", 2: "tumor", 0: "unknown", -9: "unknown"}

// CaseTagOption describes one case tag with its display metadata.
type CaseTagOption struct {
	Label       string
	Description string
}

// CaseTags is the closed vocabulary of diagnostic case tags.
var CaseTags = map[string]CaseTagOption{
	"provisional": {Label: "Provisional", Description: "Variant flagged causative has provisional diagnostic status"},
	"diagnostic":  {Label: "Diagnostic", Description: "Variant flagged causative has definitive diagnostic status"},
	"incidental":  {Label: "Incidental", Description: "A variant flagged causative is an incidental/secondary finding"},
	"carrier":     {Label: "Carrier", Description: "Assay performed to identify carrier status found variant present"},
	"medical":     {Label: "Medical attention", Description: "Case needs medical specialist attention - eg findings with unclear connection to phenotype"},
	"technical":   {Label: "Technical attention", Description: "Case needs technical specialist attention - eg findings with unclear technical status"},
	"upd":         {Label: "UPD", Description: "UniParental Disomy determined causative eg by Chromograph or Gens"},
	"smn":         {Label: "SMN", Description: "SMN assay found causative eg by SMNCopyNumberCaller"},
	"fshd":        {Label: "FSHD", Description: "FSHD assay (OGM) found causative"},
	"rna":         {Label: "RNA", Description: "RNA assay with no markable variant found causative"},
	"structural":  {Label: "Other structural", Description: "Structural variation with no call or complex combination of called variants found causative, as evident via e.g. Chromograph or Gens"},
}

// CustomCaseReports is the closed set of per-case report keys. Each entry
// stores a file path on the case document.
var CustomCaseReports = map[string]string{
	"general":              "General",
	"delivery":             "Delivery",
	"cov_qc":               "Coverage and QC",
	"cnv":                  "CNV",
	"gene_fusion":          "Gene fusion",
	"gene_fusion_research": "Gene fusion research",
	"rna":                  "RNA",
	"multiqc":              "MultiQC",
	"multiqc_rna":          "MultiQC RNA",
	"pipeline_version":     "Pipeline version",
	"ref_info":             "Reference info",
	"mt_report":            "Mitochondrial report",
}

// VerbsMap translates event verbs to the phrase shown in the activity feed.
// Every journal write uses a verb from this catalogue.
var VerbsMap = map[string]string{
	"acmg":                       "updated ACMG classification for",
	"ccv":                        "updated ClinGen-CGC-VICC classification for",
	"add_case":                   "added case",
	"add_cohort":                 "updated cohort for",
	"add_phenotype":              "added HPO term for",
	"archive":                    "archived",
	"assign":                     "was assigned to",
	"beacon_add":                 "exported variants to the Beacon",
	"beacon_remove":              "removed variants from the Beacon",
	"cancel_sanger":              "cancelled sanger order for",
	"cancer_tier":                "updated cancer tier for",
	"clinvar_add":                "added a variant to a ClinVar submission",
	"clinvar_remove":             "removed a variant from a ClinVar submission",
	"check_case":                 "marked case as",
	"comment":                    "commented on",
	"comment_update":             "updated a comment for",
	"dismiss_variant":            "dismissed variant for",
	"filter_audit":               "marked case audited with filter",
	"filter_stash":               "stored a filter for",
	"manual_rank":                "updated manual rank for",
	"mark_causative":             "marked causative for",
	"mark_partial_causative":     "mark partial causative for",
	"mme_add":                    "exported to Matchmaker patient",
	"mme_remove":                 "removed from Matchmaker patient",
	"mosaic_tags":                "updated mosaic tags for",
	"open_research":              "opened research mode for",
	"pin":                        "pinned variant",
	"remove_cohort":              "removed cohort for",
	"remove_phenotype":           "removed HPO term for",
	"remove_variants":            "removed variants for",
	"rerun":                      "requested rerun of",
	"rerun_monitor":              "requested rerun monitoring for",
	"rerun_reset":                "canceled rerun of",
	"rerun_unmonitor":            "disabled rerun monitoring for",
	"reset_dismiss_all_variants": "reset all dismissed variants for",
	"reset_dismiss_variant":      "reset dismissed variant status for",
	"reset_research":             "canceled research mode request for",
	"sanger":                     "ordered sanger sequencing for",
	"share":                      "shared case with",
	"status":                     "updated the status for",
	"tag":                        "tagged the case for",
	"synopsis":                   "updated synopsis for",
	"unmark_causative":           "unmarked causative for",
	"unmark_partial_causative":   "unmarked partial causative for",
	"unpin":                      "removed pinned variant",
	"update_case":                "updated case",
	"update_case_group_ids":      "updated case group ids for",
	"update_clinical_filter_hpo": "updated clinical filter HPO status for",
	"update_default_panels":      "updated default panels for",
	"update_diagnosis":           "updated diagnosis for",
	"update_individual":          "updated individuals for",
	"update_sample":              "updated sample data for",
	"unassign":                   "was unassigned from",
	"unshare":                    "revoked access for",
	"validate":                   "marked validation status for",
}
