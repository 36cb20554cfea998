package annotate

import (
	"sort"
	"strings"

	"github.com/scout-genomics/scout/internal/domain"
)

// OverviewTranscript is one row of the variant's transcript overview table.
type OverviewTranscript struct {
	HgncID       int    `json:"hgnc_id"`
	HgncSymbol   string `json:"hgnc_symbol,omitempty"`
	TranscriptID string `json:"transcript_id"`
	RefseqID     string `json:"decorated_refseq_id,omitempty"`
	// Muted marks predicted refseq accessions (XM/XR) shown dimmed.
	Muted               bool   `json:"muted_refseq_id,omitempty"`
	IsCanonical         bool   `json:"is_canonical,omitempty"`
	IsPrimary           bool   `json:"is_primary,omitempty"`
	IsDiseaseAssociated bool   `json:"is_disease_associated,omitempty"`
	ManeSelect          string `json:"mane_select_transcript,omitempty"`
	ManePlusClinical    string `json:"mane_plus_clinical_transcript,omitempty"`
	CodingSequenceName  string `json:"coding_sequence_name,omitempty"`
	ProteinSequenceName string `json:"protein_sequence_name,omitempty"`
	ChangeString        string `json:"change_str,omitempty"`
}

// OverviewTranscripts selects the transcripts worth a row in the variant
// overview: canonical ones and those carrying a refseq accession. MANE
// select transcripts sort first, MANE plus clinical next.
func OverviewTranscripts(variant *domain.Variant) []OverviewTranscript {
	var rows []OverviewTranscript
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		for j := range gene.Transcripts {
			tx := &gene.Transcripts[j]
			if !tx.IsCanonical && tx.RefseqID == "" {
				continue
			}
			rows = append(rows, OverviewTranscript{
				HgncID:              gene.HgncID,
				HgncSymbol:          gene.HgncSymbol,
				TranscriptID:        tx.TranscriptID,
				RefseqID:            tx.RefseqID,
				Muted:               mutedRefseq(tx.RefseqID),
				IsCanonical:         tx.IsCanonical,
				IsPrimary:           tx.IsPrimary,
				IsDiseaseAssociated: tx.IsDiseaseAssociated,
				ManeSelect:          tx.ManeSelect,
				ManePlusClinical:    tx.ManePlusClinical,
				CodingSequenceName:  tx.CodingSequenceName,
				ProteinSequenceName: tx.ProteinSequenceName,
				ChangeString:        tx.ChangeString,
			})
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return overviewSortKey(&rows[a]) < overviewSortKey(&rows[b])
	})
	return rows
}

func overviewSortKey(row *OverviewTranscript) int {
	switch {
	case row.ManeSelect != "":
		return 0
	case row.ManePlusClinical != "":
		return 1
	case row.IsCanonical:
		return 2
	default:
		return 3
	}
}

// mutedRefseq reports whether the accession is a predicted model (XM/XR)
// rather than a curated one.
func mutedRefseq(refseqID string) bool {
	return strings.HasPrefix(refseqID, "XM_") || strings.HasPrefix(refseqID, "XR_")
}

// HGVSDescription returns the variant's preferred HGVS description: the
// protein change of the representative gene's canonical transcript when
// present, otherwise the first canonical coding change.
func HGVSDescription(variant *domain.Variant) string {
	gene := RepresentativeGene(variant)
	if gene == nil {
		return ""
	}
	for i := range gene.Transcripts {
		tx := &gene.Transcripts[i]
		if tx.IsCanonical && tx.ProteinSequenceName != "" {
			return tx.ProteinSequenceName
		}
	}
	for i := range gene.Transcripts {
		tx := &gene.Transcripts[i]
		if tx.IsCanonical && tx.CodingSequenceName != "" {
			return tx.CodingSequenceName
		}
	}
	return ""
}
