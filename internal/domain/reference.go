package domain

import (
	"strings"
	"time"
)

// NormalizeBuild maps genome build synonyms to "37" or "38". Unknown builds
// come back unchanged.
func NormalizeBuild(build string) string {
	switch strings.TrimPrefix(build, "GRCh") {
	case "37":
		return "37"
	case "38":
		return "38"
	default:
		return build
	}
}

// GenePhenotype is one OMIM phenotype on a reference gene.
type GenePhenotype struct {
	MimNumber         int      `json:"mim_number,omitempty"`
	Description       string   `json:"description,omitempty"`
	InheritanceModels []string `json:"inheritance_models,omitempty"`
	Status            string   `json:"status,omitempty"`
}

// RefTranscript is a reference transcript of an HGNC gene.
type RefTranscript struct {
	EnsemblID         string   `json:"ensembl_transcript_id"`
	HgncID            int      `json:"hgnc_id"`
	Chrom             string   `json:"chrom,omitempty"`
	Start             int      `json:"start,omitempty"`
	End               int      `json:"end,omitempty"`
	IsPrimary         bool     `json:"is_primary,omitempty"`
	RefseqID          string   `json:"refseq_id,omitempty"`
	RefseqIdentifiers []string `json:"refseq_identifiers,omitempty"`
	ManeSelect        string   `json:"mane_select,omitempty"`
	ManePlusClinical  string   `json:"mane_plus_clinical,omitempty"`
	Build             string   `json:"build"`
}

// HGNCGene is a reference gene for one genome build.
type HGNCGene struct {
	HgncID      int      `json:"hgnc_id"`
	Symbol      string   `json:"hgnc_symbol"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Chromosome  string   `json:"chromosome"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Build       string   `json:"build"`
	EnsemblID   string   `json:"ensembl_id,omitempty"`

	Transcripts []RefTranscript `json:"transcripts,omitempty"`
	Phenotypes  []GenePhenotype `json:"phenotypes,omitempty"`

	InheritanceModels    []string `json:"inheritance_models,omitempty"`
	PLi                  *float64 `json:"pli_score,omitempty"`
	LoeufScore           *float64 `json:"constraint_lof_oe_ci_upper,omitempty"`
	IncompletePenetrance bool     `json:"incomplete_penetrance,omitempty"`
}

// Exon is a reference exon record.
type Exon struct {
	ID         string `json:"_id"`
	Chrom      string `json:"chrom"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Rank       int    `json:"rank"`
	Transcript string `json:"transcript"`
	HgncID     int    `json:"hgnc_id"`
	Build      string `json:"build"`
}

// HPOTerm is one Human Phenotype Ontology term.
type HPOTerm struct {
	ID          string   `json:"_id"`
	HpoID       string   `json:"hpo_id"`
	HpoNumber   int      `json:"hpo_number,omitempty"`
	Description string   `json:"description,omitempty"`
	Genes       []int    `json:"genes,omitempty"`
	Ancestors   []string `json:"ancestors,omitempty"`
	Children    []string `json:"children,omitempty"`
}

// DiseaseTerm is one OMIM or ORPHA disease term.
type DiseaseTerm struct {
	ID          string   `json:"_id"`
	DiseaseNr   int      `json:"disease_nr,omitempty"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	Inheritance []string `json:"inheritance,omitempty"`
	Genes       []int    `json:"genes,omitempty"`
	HpoTerms    []string `json:"hpo_terms,omitempty"`
}

// PanelGene is one manually curated gene entry of a gene panel.
type PanelGene struct {
	HgncID                       int      `json:"hgnc_id"`
	Symbol                       string   `json:"symbol,omitempty"`
	DiseaseAssociatedTranscripts []string `json:"disease_associated_transcripts,omitempty"`
	ReducedPenetrance            bool     `json:"reduced_penetrance,omitempty"`
	Mosaicism                    bool     `json:"mosaicism,omitempty"`
	InheritanceModels            []string `json:"inheritance_models,omitempty"`
	CustomInheritanceModels      []string `json:"custom_inheritance_models,omitempty"`
	Comment                      string   `json:"comment,omitempty"`
}

// GenePanel is one version of a curated gene panel.
type GenePanel struct {
	ID          string      `json:"_id"`
	Name        string      `json:"panel_name"`
	Version     float64     `json:"version"`
	DisplayName string      `json:"display_name,omitempty"`
	Institute   string      `json:"institute,omitempty"`
	Date        time.Time   `json:"date"`
	Genes       []PanelGene `json:"genes,omitempty"`
	Hidden      bool        `json:"hidden,omitempty"`
	IsArchived  bool        `json:"is_archived,omitempty"`
}

// HgncIDs returns the set of hgnc ids in the panel.
func (p *GenePanel) HgncIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(p.Genes))
	for _, g := range p.Genes {
		ids[g.HgncID] = struct{}{}
	}
	return ids
}
