package domain

import "time"

// CaseStatus is the case lifecycle state.
type CaseStatus string

const (
	StatusPrioritized CaseStatus = "prioritized"
	StatusInactive    CaseStatus = "inactive"
	StatusActive      CaseStatus = "active"
	StatusSolved      CaseStatus = "solved"
	StatusArchived    CaseStatus = "archived"
	StatusIgnored     CaseStatus = "ignored"
)

// IsValid reports whether the status is part of the closed vocabulary.
func (s CaseStatus) IsValid() bool {
	switch s {
	case StatusPrioritized, StatusInactive, StatusActive, StatusSolved, StatusArchived, StatusIgnored:
		return true
	default:
		return false
	}
}

func (s CaseStatus) String() string { return string(s) }

// Individual is one sample of a case pedigree.
type Individual struct {
	ID           string   `json:"individual_id"`
	DisplayName  string   `json:"display_name,omitempty"`
	Sex          int      `json:"sex"`
	Phenotype    int      `json:"phenotype"`
	Father       string   `json:"father,omitempty"`
	Mother       string   `json:"mother,omitempty"`
	AnalysisType string   `json:"analysis_type,omitempty"`
	Age          *float64 `json:"age,omitempty"`
	TissueType   string   `json:"tissue_type,omitempty"`
	TumorType    string   `json:"tumor_type,omitempty"`
	TumorPurity  *float64 `json:"tumor_purity,omitempty"`

	// Track locators are opaque strings consumed by the viewers.
	AlignmentPath      string   `json:"bam_file,omitempty"`
	MTAlignmentPath    string   `json:"mt_bam,omitempty"`
	RNAAlignmentPath   string   `json:"rna_alignment_path,omitempty"`
	SpliceJunctionsBed string   `json:"splice_junctions_bed,omitempty"`
	RNACoverageBigwig  string   `json:"rna_coverage_bigwig,omitempty"`
	ReviewerTracks     []string `json:"reviewer,omitempty"`
}

// IsAffected reports whether the individual carries the affected phenotype.
func (i *Individual) IsAffected() bool { return i.Phenotype == 2 }

// CasePanel is a gene-panel binding on a case, resolved lazily into a
// latest-version snapshot by the annotator.
type CasePanel struct {
	PanelName   string  `json:"panel_name"`
	Version     float64 `json:"version,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	NrGenes     int     `json:"nr_genes,omitempty"`
	IsDefault   bool    `json:"is_default,omitempty"`
}

// PhenotypeTerm is one HPO term attached to a case or individual.
type PhenotypeTerm struct {
	PhenotypeID  string `json:"phenotype_id"`
	FeatureLabel string `json:"feature,omitempty"`
}

// DynamicGene is one entry of the case's HPO-derived dynamic gene list.
type DynamicGene struct {
	HgncID     int    `json:"hgnc_id"`
	HgncSymbol string `json:"hgnc_symbol,omitempty"`
}

// PartialCausative records a causative explaining part of the phenotype.
type PartialCausative struct {
	VariantID      string          `json:"variant_id"`
	Diagnoses      []string        `json:"omim_terms,omitempty"`
	PhenotypeTerms []PhenotypeTerm `json:"phenotype_terms,omitempty"`
}

// MMESubmission is the MatchMaker Exchange submission state of a case.
type MMESubmission struct {
	Patients    []map[string]any `json:"patients,omitempty"`
	SubmittedAt time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	ContactUser string           `json:"contact,omitempty"`
}

// BeaconSubmission is the Beacon submission state of a case.
type BeaconSubmission struct {
	CreatedAt   time.Time `json:"created_at"`
	ContactUser string    `json:"user,omitempty"`
	Samples     []string  `json:"samples,omitempty"`
	Panels      []string  `json:"panels,omitempty"`
	VCFFiles    []string  `json:"vcf_files,omitempty"`
}

// Case is a stored case document.
type Case struct {
	ID            string       `json:"_id"`
	DisplayName   string       `json:"display_name"`
	Owner         string       `json:"owner"`
	Collaborators []string     `json:"collaborators,omitempty"`
	GenomeBuild   string       `json:"genome_build"`
	Individuals   []Individual `json:"individuals,omitempty"`
	Panels        []CasePanel  `json:"panels,omitempty"`
	Status        CaseStatus   `json:"status"`
	Track         string       `json:"track,omitempty"`

	Assignees         []string           `json:"assignees,omitempty"`
	Suspects          []string           `json:"suspects,omitempty"`
	Causatives        []string           `json:"causatives,omitempty"`
	PartialCausatives []PartialCausative `json:"partial_causatives,omitempty"`
	GroupIDs          []string           `json:"group,omitempty"`
	Tags              []string           `json:"tags,omitempty"`
	Cohorts           []string           `json:"cohorts,omitempty"`

	Synopsis        string          `json:"synopsis,omitempty"`
	PhenotypeTerms  []PhenotypeTerm `json:"phenotype_terms,omitempty"`
	PhenotypeGroups []PhenotypeTerm `json:"phenotype_groups,omitempty"`
	Diagnoses       []string        `json:"diagnosis_phenotypes,omitempty"`

	DynamicGeneList   []DynamicGene `json:"dynamic_gene_list,omitempty"`
	HPOClinicalFilter bool          `json:"hpo_clinical_filter,omitempty"`

	RerunRequested    bool `json:"rerun_requested,omitempty"`
	ResearchRequested bool `json:"research_requested,omitempty"`
	IsResearch        bool `json:"is_research,omitempty"`

	RankModelVersion   string   `json:"rank_model_version,omitempty"`
	SVRankModelVersion string   `json:"sv_rank_model_version,omitempty"`
	RankScoreThreshold *float64 `json:"rank_score_threshold,omitempty"`

	MMESubmission    *MMESubmission    `json:"mme_submission,omitempty"`
	BeaconSubmission *BeaconSubmission `json:"beacon,omitempty"`
	CustomReports    map[string]string `json:"custom_reports,omitempty"`

	AnalysisDate time.Time `json:"analysis_date"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Individual returns the individual with the given id, or nil.
func (c *Case) Individual(id string) *Individual {
	for i := range c.Individuals {
		if c.Individuals[i].ID == id {
			return &c.Individuals[i]
		}
	}
	return nil
}

// DefaultPanels returns the case panels marked default.
func (c *Case) DefaultPanels() []CasePanel {
	var out []CasePanel
	for _, p := range c.Panels {
		if p.IsDefault {
			out = append(out, p)
		}
	}
	return out
}

// HasCollaborator reports whether the institute owns or collaborates on the
// case.
func (c *Case) HasCollaborator(institute string) bool {
	if c.Owner == institute {
		return true
	}
	for _, col := range c.Collaborators {
		if col == institute {
			return true
		}
	}
	return false
}

// SharesGroupWith reports whether the two cases share any group id.
func (c *Case) SharesGroupWith(other *Case) bool {
	for _, g := range c.GroupIDs {
		for _, og := range other.GroupIDs {
			if g == og {
				return true
			}
		}
	}
	return false
}
