package annotate

import (
	"fmt"
	"strings"

	"github.com/scout-genomics/scout/internal/domain"
)

// Predictions collects the per-gene functional predictions into display
// strings. With more than one gene each entry is prefixed with the gene
// symbol so the origin stays readable.
func Predictions(variant *domain.Variant) []string {
	var out []string
	multi := len(variant.Genes) > 1
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		for _, entry := range genePredictions(gene) {
			if multi && gene.HgncSymbol != "" {
				entry = gene.HgncSymbol + ":" + entry
			}
			out = append(out, entry)
		}
	}
	return out
}

func genePredictions(gene *domain.GeneAnnotation) []string {
	var out []string
	if gene.Sift != "" {
		out = append(out, "SIFT "+gene.Sift)
	}
	if gene.Polyphen != "" {
		out = append(out, "Polyphen "+gene.Polyphen)
	}
	if gene.SpliceAI != nil {
		entry := fmt.Sprintf("SpliceAI %.2f", *gene.SpliceAI)
		if len(gene.SpliceAIPrediction) > 0 {
			entry += " (" + strings.Join(gene.SpliceAIPrediction, ", ") + ")"
		}
		out = append(out, entry)
	}
	return out
}

// RegionAnnotations returns the distinct region annotations across genes,
// symbol-prefixed when the variant spans several genes.
func RegionAnnotations(variant *domain.Variant) []string {
	return geneAnnotations(variant, func(g *domain.GeneAnnotation) string {
		return g.RegionAnnotation
	})
}

// FunctionalAnnotations returns the distinct consequence terms across genes,
// symbol-prefixed when the variant spans several genes.
func FunctionalAnnotations(variant *domain.Variant) []string {
	return geneAnnotations(variant, func(g *domain.GeneAnnotation) string {
		return g.FunctionalAnnotation
	})
}

func geneAnnotations(variant *domain.Variant, pick func(*domain.GeneAnnotation) string) []string {
	var out []string
	seen := make(map[string]struct{})
	multi := len(variant.Genes) > 1
	for i := range variant.Genes {
		gene := &variant.Genes[i]
		value := pick(gene)
		if value == "" {
			continue
		}
		if multi && gene.HgncSymbol != "" {
			value = gene.HgncSymbol + ":" + value
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
