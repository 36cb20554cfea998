package annotate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
)

// fuseGenes merges each variant gene with its reference gene and reference
// transcripts. A reference miss leaves the loader-provided fields untouched
// and records the symbol as outdated when alias resolution was needed.
func (a *Annotator) fuseGenes(ctx context.Context, kase *domain.Case,
	variant *domain.Variant, view *VariantView) error {
	build := domain.NormalizeBuild(kase.GenomeBuild)
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		refGene, err := a.resolver.GeneByHgncID(ctx, gene.HgncID, build)
		if err != nil {
			return fmt.Errorf("failed to fuse gene %d: %w", gene.HgncID, err)
		}
		if refGene == nil && gene.HgncSymbol != "" {
			lookup, err := a.resolver.GenesBySymbolOrAliases(ctx, gene.HgncSymbol, build)
			if err != nil {
				return fmt.Errorf("failed to fuse gene %s: %w", gene.HgncSymbol, err)
			}
			if len(lookup.Genes) > 0 {
				refGene = lookup.Genes[0]
				if lookup.UsedAliases {
					view.OutdatedSymbols = append(view.OutdatedSymbols, gene.HgncSymbol)
				}
			}
		}
		if refGene == nil {
			continue
		}
		fuseGene(gene, refGene, build)

		refTranscripts, err := a.resolver.TranscriptsOf(ctx, refGene.HgncID, build)
		if err != nil {
			return fmt.Errorf("failed to fuse transcripts of gene %d: %w", refGene.HgncID, err)
		}
		fuseTranscripts(gene, refTranscripts, build)
	}
	return nil
}

// fuseGene copies the reference-derived fields onto the variant gene.
func fuseGene(gene *domain.GeneAnnotation, ref *domain.HGNCGene, build string) {
	if gene.HgncSymbol == "" {
		gene.HgncSymbol = ref.Symbol
	}
	gene.Description = ref.Description
	gene.Aliases = ref.Aliases
	gene.Inheritance = ref.InheritanceModels
	gene.Phenotypes = ref.Phenotypes
	gene.PLi = ref.PLi
	gene.LoeufScore = ref.LoeufScore
	gene.IncompletePenetrance = ref.IncompletePenetrance
}

// fuseTranscripts fills the reference-derived transcript fields: primary
// flag, refseq ids and, on build 38, the MANE annotations. The change string
// joins symbol, refseq id, exon or intron and HGVS descriptions.
func fuseTranscripts(gene *domain.GeneAnnotation, refs []*domain.RefTranscript, build string) {
	byID := make(map[string]*domain.RefTranscript, len(refs))
	for _, ref := range refs {
		byID[stripVersion(ref.EnsemblID)] = ref
	}
	for i := range gene.Transcripts {
		tx := &gene.Transcripts[i]
		ref, ok := byID[stripVersion(tx.TranscriptID)]
		if ok {
			tx.IsPrimary = ref.IsPrimary
			tx.RefseqID = ref.RefseqID
			tx.RefseqIdentifiers = ref.RefseqIdentifiers
			if build == "38" {
				tx.ManeSelect = ref.ManeSelect
				tx.ManePlusClinical = ref.ManePlusClinical
			}
		}
		tx.ChangeString = changeString(gene.HgncSymbol, tx)
	}
}

// changeString renders the compact transcript change description shown in
// lists, e.g. "POT1:NM_015450:exon12:c.1121T>C:p.Leu374Pro".
func changeString(symbol string, tx *domain.TranscriptAnnotation) string {
	parts := []string{symbol}
	switch {
	case tx.RefseqID != "":
		parts = append(parts, tx.RefseqID)
	default:
		parts = append(parts, tx.TranscriptID)
	}
	switch {
	case tx.Exon != "":
		parts = append(parts, "exon"+strings.SplitN(tx.Exon, "/", 2)[0])
	case tx.Intron != "":
		parts = append(parts, "intron"+strings.SplitN(tx.Intron, "/", 2)[0])
	}
	if tx.CodingSequenceName != "" {
		parts = append(parts, tx.CodingSequenceName)
	}
	if tx.ProteinSequenceName != "" {
		parts = append(parts, tx.ProteinSequenceName)
	}
	return strings.Join(parts, ":")
}

// stripVersion drops the trailing ".N" version of a transcript accession.
func stripVersion(accession string) string {
	if idx := strings.IndexByte(accession, '.'); idx >= 0 {
		return accession[:idx]
	}
	return accession
}

// overlayPanels applies the case's default-panel curation onto the variant
// genes: disease-associated transcripts, reduced penetrance, mosaicism,
// manual inheritance and curator comments, aggregated over all panels that
// contain the gene.
func overlayPanels(variant *domain.Variant, panels []*domain.GenePanel) {
	if len(panels) == 0 || len(variant.Genes) == 0 {
		return
	}
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		for _, panel := range panels {
			for _, pg := range panel.Genes {
				if pg.HgncID != gene.HgncID {
					continue
				}
				gene.DiseaseAssociatedTranscripts = appendMissing(
					gene.DiseaseAssociatedTranscripts, pg.DiseaseAssociatedTranscripts)
				gene.ManualPenetrance = gene.ManualPenetrance || pg.ReducedPenetrance
				gene.Mosaicism = gene.Mosaicism || pg.Mosaicism
				gene.ManualInheritance = appendMissing(gene.ManualInheritance, pg.InheritanceModels)
				gene.ManualInheritance = appendMissing(gene.ManualInheritance, pg.CustomInheritanceModels)
				if pg.Comment != "" {
					gene.PanelComments = append(gene.PanelComments, pg.Comment)
				}
			}
		}
		if len(gene.DiseaseAssociatedTranscripts) > 0 {
			markDiseaseAssociated(gene)
		}
	}
}

// markDiseaseAssociated flags the transcripts whose refseq accession is in
// the panel-curated list, comparing without version suffixes.
func markDiseaseAssociated(gene *domain.GeneAnnotation) {
	curated := make(map[string]struct{}, len(gene.DiseaseAssociatedTranscripts))
	for _, accession := range gene.DiseaseAssociatedTranscripts {
		curated[stripVersion(accession)] = struct{}{}
	}
	for i := range gene.Transcripts {
		tx := &gene.Transcripts[i]
		if _, ok := curated[stripVersion(tx.RefseqID)]; ok && tx.RefseqID != "" {
			tx.IsDiseaseAssociated = true
			continue
		}
		for _, identifier := range tx.RefseqIdentifiers {
			if _, ok := curated[stripVersion(identifier)]; ok {
				tx.IsDiseaseAssociated = true
				break
			}
		}
	}
}

func appendMissing(dst []string, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// RepresentativeGene returns the gene with the most severe consequence,
// ranking by sequence ontology severity. Unknown terms sort last. Nil when
// the variant carries no genes.
func RepresentativeGene(variant *domain.Variant) *domain.GeneAnnotation {
	if len(variant.Genes) == 0 {
		return nil
	}
	indexes := make([]int, len(variant.Genes))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return soRank(&variant.Genes[indexes[a]]) < soRank(&variant.Genes[indexes[b]])
	})
	return &variant.Genes[indexes[0]]
}

// soRank returns the severity rank of a gene's functional annotation; ranks
// grow with decreasing severity, unknown terms land after all known ones.
func soRank(gene *domain.GeneAnnotation) int {
	if term, ok := constants.SOTerms[gene.FunctionalAnnotation]; ok {
		return term.Rank
	}
	return len(constants.SOTerms) + 1
}

// matchesInheritance reports whether any of the variant's followed genetic
// models matches an inheritance model suggested for one of its genes, either
// from OMIM or from panel curation. Model qualifiers after "_" are ignored,
// so "AR_hom" matches "AR".
func matchesInheritance(variant *domain.Variant) bool {
	if len(variant.GeneticModels) == 0 {
		return false
	}
	suggested := make(map[string]struct{})
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		for _, model := range gene.Inheritance {
			suggested[model] = struct{}{}
		}
		for _, model := range gene.ManualInheritance {
			suggested[model] = struct{}{}
		}
		for _, phenotype := range gene.Phenotypes {
			for _, model := range phenotype.InheritanceModels {
				suggested[model] = struct{}{}
			}
		}
	}
	for _, model := range variant.GeneticModels {
		base := strings.SplitN(model, "_", 2)[0]
		if _, ok := suggested[model]; ok {
			return true
		}
		if _, ok := suggested[base]; ok {
			return true
		}
	}
	return false
}
