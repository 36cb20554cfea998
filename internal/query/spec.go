// Package query implements variant list queries: parsing filter forms,
// running the coarse store selection plus fine predicates, compound-follow
// dismissal, saved filters with advisory locks and audits, the clinical
// preset and CSV export.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scout-genomics/scout/internal/domain"
)

// Page size of variant lists.
const PageSize = 50

// ExportedVariantsLimit caps CSV exports.
const ExportedVariantsLimit = 500

// FilterSpec is a parsed variant filter. All fields are optional; the zero
// value selects every clinical variant of the category.
type FilterSpec struct {
	VariantType domain.VariantType `json:"variant_type,omitempty"`

	GenePanels  []string `json:"gene_panels,omitempty"`
	HgncSymbols []string `json:"hgnc_symbols,omitempty"`

	RegionAnnotations     []string `json:"region_annotations,omitempty"`
	FunctionalAnnotations []string `json:"functional_annotations,omitempty"`
	GeneticModels         []string `json:"genetic_models,omitempty"`

	CaddScore       *float64 `json:"cadd_score,omitempty"`
	GnomadFrequency *float64 `json:"gnomad_frequency,omitempty"`
	LocalObs        *float64 `json:"local_obs,omitempty"`
	ClinGenNGI      *float64 `json:"clingen_ngi,omitempty"`
	Swegen          *float64 `json:"swegen,omitempty"`
	RankScore       *float64 `json:"rank_score,omitempty"`

	ClinSig                        []string `json:"clinsig,omitempty"`
	ClinSigConfidentAlwaysReturned bool     `json:"clinsig_confident_always_returned,omitempty"`

	SpidexHuman []string `json:"spidex_human,omitempty"`

	Chrom string `json:"chrom,omitempty"`
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`

	SVTypes     []string `json:"svtype,omitempty"`
	Size        *int     `json:"size,omitempty"`
	SizeShorter bool     `json:"size_shorter,omitempty"`

	CompoundRankScore    *float64 `json:"compound_rank_score,omitempty"`
	CompoundFollowFilter bool     `json:"compound_follow_filter,omitempty"`

	// HideUnaffected limits results to variants called in affected
	// individuals (show_unaffected unchecked on the form).
	HideUnaffected bool `json:"hide_unaffected,omitempty"`
}

// ParseForm builds a filter spec from submitted form values. Numeric fields
// accept "," as decimal separator; entries that still do not parse are
// dropped and reported as flash messages.
func ParseForm(form map[string][]string) (FilterSpec, []string) {
	spec := FilterSpec{VariantType: domain.TypeClinical}
	var flashes []string

	first := func(key string) string {
		values := form[key]
		if len(values) == 0 {
			return ""
		}
		return strings.TrimSpace(values[0])
	}
	all := func(key string) []string {
		var out []string
		for _, v := range form[key] {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	floatField := func(key string) *float64 {
		raw := first(key)
		if raw == "" {
			return nil
		}
		value, err := parseDecimal(raw)
		if err != nil {
			flashes = append(flashes, fmt.Sprintf("Invalid number %q for %s, ignored", raw, key))
			return nil
		}
		return &value
	}
	intField := func(key string) *int {
		raw := first(key)
		if raw == "" {
			return nil
		}
		value, err := parseDecimal(raw)
		if err != nil {
			flashes = append(flashes, fmt.Sprintf("Invalid number %q for %s, ignored", raw, key))
			return nil
		}
		i := int(value)
		return &i
	}

	if typ := domain.VariantType(first("variant_type")); typ.IsValid() {
		spec.VariantType = typ
	}
	spec.GenePanels = all("gene_panels")
	spec.HgncSymbols = all("hgnc_symbols")
	spec.RegionAnnotations = all("region_annotations")
	spec.FunctionalAnnotations = all("functional_annotations")
	spec.GeneticModels = all("genetic_models")
	spec.CaddScore = floatField("cadd_score")
	spec.GnomadFrequency = floatField("gnomad_frequency")
	spec.LocalObs = floatField("local_obs")
	spec.ClinGenNGI = floatField("clingen_ngi")
	spec.Swegen = floatField("swegen")
	spec.RankScore = floatField("rank_score")
	spec.ClinSig = all("clinsig")
	spec.ClinSigConfidentAlwaysReturned = first("clinsig_confident_always_returned") != ""
	spec.SpidexHuman = all("spidex_human")
	spec.Chrom = first("chrom")
	spec.Start = intField("start")
	spec.End = intField("end")
	spec.SVTypes = all("svtype")
	spec.Size = intField("size")
	spec.SizeShorter = first("size_shorter") != ""
	spec.CompoundRankScore = floatField("compound_rank_score")
	spec.CompoundFollowFilter = first("compound_follow_filter") != ""
	if values, ok := form["show_unaffected"]; ok {
		spec.HideUnaffected = len(values) == 0 || values[0] == "" || values[0] == "false"
	}
	return spec, flashes
}

// parseDecimal parses a float accepting "," as decimal separator.
func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}
