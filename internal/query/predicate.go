package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
)

// Predicate is one per-field constraint, carrying both the primary-list
// semantics and the compound-follow semantics so each rule is expressed
// once. A nil compound func means the field does not follow compounds.
type Predicate struct {
	Field    string
	primary  func(v *domain.Variant) bool
	compound func(v *domain.Variant) bool
}

// MatchesPrimary reports whether a variant passes the constraint in the
// primary list query.
func (p Predicate) MatchesPrimary(v *domain.Variant) bool { return p.primary(v) }

// FollowsCompound reports whether the predicate participates in compound
// follow.
func (p Predicate) FollowsCompound() bool { return p.compound != nil }

// MatchesCompound reports whether a compound partner passes the constraint.
func (p Predicate) MatchesCompound(v *domain.Variant) bool { return p.compound(v) }

// Predicates builds the fine-grained constraint list of a filter spec. Gene
// scope (panels, HPO list, symbols) is not part of it; that is resolved into
// the coarse store selection and deliberately not followed onto compounds.
func Predicates(spec FilterSpec, affectedSamples map[string]struct{}) []Predicate {
	var preds []Predicate

	if spec.CaddScore != nil {
		threshold := *spec.CaddScore
		preds = append(preds, Predicate{
			Field: "cadd_score",
			// Keep scored variants at or above the threshold.
			primary: func(v *domain.Variant) bool {
				return v.CaddScore != nil && *v.CaddScore >= threshold
			},
			// Dismiss when missing or strictly below.
			compound: func(v *domain.Variant) bool {
				return v.CaddScore != nil && *v.CaddScore >= threshold
			},
		})
	}

	ceiling := func(field string, threshold float64, pick func(*domain.Variant) *float64) Predicate {
		return Predicate{
			Field: field,
			// Missing counts as rare: keep when absent or below.
			primary: func(v *domain.Variant) bool {
				value := pick(v)
				return value == nil || *value <= threshold
			},
			// Dismiss when at or above the ceiling.
			compound: func(v *domain.Variant) bool {
				value := pick(v)
				return value == nil || *value < threshold
			},
		}
	}
	if spec.GnomadFrequency != nil {
		preds = append(preds, ceiling("gnomad_frequency", *spec.GnomadFrequency,
			func(v *domain.Variant) *float64 { return v.GnomadFrequency }))
	}
	if spec.LocalObs != nil {
		preds = append(preds, ceiling("local_obs", *spec.LocalObs,
			func(v *domain.Variant) *float64 { return intAsFloat(v.LocalObs) }))
	}
	if spec.ClinGenNGI != nil {
		preds = append(preds, ceiling("clingen_ngi", *spec.ClinGenNGI,
			func(v *domain.Variant) *float64 { return intAsFloat(v.ClinGenNGI) }))
	}
	if spec.Swegen != nil {
		preds = append(preds, ceiling("swegen", *spec.Swegen,
			func(v *domain.Variant) *float64 { return v.SwegenFrequency }))
	}

	if spec.RankScore != nil {
		threshold := *spec.RankScore
		preds = append(preds, Predicate{
			Field:   "rank_score",
			primary: func(v *domain.Variant) bool { return v.RankScore >= threshold },
		})
	}

	if spec.Chrom != "" {
		chrom := spec.Chrom
		preds = append(preds, Predicate{
			Field:   "chrom",
			primary: func(v *domain.Variant) bool { return v.Chromosome == chrom },
		})
	}
	if spec.Start != nil {
		// Overlap: the variant must not end before the window starts.
		start := *spec.Start
		preds = append(preds, Predicate{
			Field:    "start",
			primary:  func(v *domain.Variant) bool { return v.EndPosition() >= start },
			compound: func(v *domain.Variant) bool { return v.EndPosition() >= start },
		})
	}
	if spec.End != nil {
		// Overlap: the variant must not start after the window ends.
		end := *spec.End
		preds = append(preds, Predicate{
			Field:    "end",
			primary:  func(v *domain.Variant) bool { return v.Position <= end },
			compound: func(v *domain.Variant) bool { return v.Position <= end },
		})
	}

	if len(spec.RegionAnnotations) > 0 {
		wanted := spec.RegionAnnotations
		preds = append(preds, Predicate{
			Field:    "region_annotations",
			primary:  func(v *domain.Variant) bool { return geneSetsIntersect(v, wanted, regionOf) },
			compound: func(v *domain.Variant) bool { return geneSetsIntersect(v, wanted, regionOf) },
		})
	}
	if len(spec.FunctionalAnnotations) > 0 {
		wanted := spec.FunctionalAnnotations
		preds = append(preds, Predicate{
			Field:    "functional_annotations",
			primary:  func(v *domain.Variant) bool { return geneSetsIntersect(v, wanted, functionalOf) },
			compound: func(v *domain.Variant) bool { return geneSetsIntersect(v, wanted, functionalOf) },
		})
	}
	if len(spec.GeneticModels) > 0 {
		wanted := spec.GeneticModels
		preds = append(preds, Predicate{
			Field:   "genetic_models",
			primary: func(v *domain.Variant) bool { return intersects(v.GeneticModels, wanted) },
		})
	}

	if len(spec.SVTypes) > 0 {
		wanted := spec.SVTypes
		preds = append(preds, Predicate{
			Field:    "svtype",
			primary:  func(v *domain.Variant) bool { return contains(wanted, v.SubCategory) },
			compound: func(v *domain.Variant) bool { return contains(wanted, v.SubCategory) },
		})
	}
	if spec.Size != nil {
		size, shorter := *spec.Size, spec.SizeShorter
		preds = append(preds, Predicate{
			Field: "size",
			primary: func(v *domain.Variant) bool {
				if shorter {
					return v.Length > 0 && v.Length < size
				}
				return v.Length >= size
			},
		})
	}

	if len(spec.ClinSig) > 0 && !spec.ClinSigConfidentAlwaysReturned {
		// With the always-returned flag, ClinVar significance never
		// excludes; matching confident variants instead bypass the other
		// constraints (see MatchesConfidentClinSig).
		wanted := spec.ClinSig
		preds = append(preds, Predicate{
			Field:    "clinsig",
			primary:  func(v *domain.Variant) bool { return matchesClinSig(v, wanted) },
			compound: func(v *domain.Variant) bool { return matchesClinSig(v, wanted) },
		})
	}

	if len(spec.SpidexHuman) > 0 {
		levels := spec.SpidexHuman
		preds = append(preds, Predicate{
			Field:    "spidex_human",
			primary:  func(v *domain.Variant) bool { return matchesSpidex(v.Spidex, levels) },
			compound: func(v *domain.Variant) bool { return matchesSpidex(v.Spidex, levels) },
		})
	}

	if spec.HideUnaffected && len(affectedSamples) > 0 {
		preds = append(preds, Predicate{
			Field: "show_unaffected",
			primary: func(v *domain.Variant) bool {
				return calledInSamples(v, affectedSamples)
			},
		})
	}

	return preds
}

func intAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, s := range a {
		if contains(b, s) {
			return true
		}
	}
	return false
}

func regionOf(g *domain.GeneAnnotation) string     { return g.RegionAnnotation }
func functionalOf(g *domain.GeneAnnotation) string { return g.FunctionalAnnotation }

func geneSetsIntersect(v *domain.Variant, wanted []string, pick func(*domain.GeneAnnotation) string) bool {
	for i := range v.Genes {
		if contains(wanted, pick(&v.Genes[i])) {
			return true
		}
	}
	return false
}

// matchesClinSig reports whether the variant carries any selected ClinVar
// significance; annotations may use the numeric code or the human readable
// form of CLINSIG_MAP.
func matchesClinSig(v *domain.Variant, wanted []string) bool {
	for _, entry := range v.ClnSig {
		code, text := clinsigForms(entry.Value)
		for _, w := range wanted {
			if w == code || strings.EqualFold(w, text) {
				return true
			}
		}
	}
	return false
}

// clinsigForms normalizes a clnsig value into its numeric code string and
// its human readable form.
func clinsigForms(value any) (code string, text string) {
	switch v := value.(type) {
	case float64:
		code = strconv.Itoa(int(v))
		text = constants.ClinSigMap[int(v)]
	case int:
		code = strconv.Itoa(v)
		text = constants.ClinSigMap[v]
	case string:
		text = v
		for num, label := range constants.ClinSigMap {
			if strings.EqualFold(label, v) {
				code = strconv.Itoa(num)
				break
			}
		}
	}
	return code, text
}

// Revstat terms considered confident enough for the always-returned rule.
var confidentRevstat = []string{
	"criteria_provided",
	"multiple_submitters",
	"reviewed_by_expert_panel",
	"practice_guideline",
}

// MatchesConfidentClinSig reports whether the variant carries a selected
// ClinVar significance with a confident review status. Such variants are
// returned regardless of the other filter constraints when the
// always-returned flag is set.
func MatchesConfidentClinSig(v *domain.Variant, wanted []string) bool {
	for _, entry := range v.ClnSig {
		code, text := clinsigForms(entry.Value)
		matched := false
		for _, w := range wanted {
			if w == code || strings.EqualFold(w, text) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, term := range confidentRevstat {
			if strings.Contains(entry.Revstat, term) {
				return true
			}
		}
	}
	return false
}

// matchesSpidex reports whether the score falls inside any selected SPIDEX
// level's symmetric interval. The "not_reported" level selects unscored
// variants.
func matchesSpidex(score *float64, levels []string) bool {
	for _, level := range levels {
		if level == "not_reported" {
			if score == nil {
				return true
			}
			continue
		}
		interval, ok := constants.SpidexHuman[level]
		if !ok || score == nil {
			continue
		}
		if inRange(*score, interval.Neg) || inRange(*score, interval.Pos) {
			return true
		}
	}
	return false
}

func inRange(value float64, bounds [2]float64) bool {
	lo, hi := math.Min(bounds[0], bounds[1]), math.Max(bounds[0], bounds[1])
	return value >= lo && value <= hi
}

// calledInSamples reports whether the variant carries an alternative call in
// any of the given samples.
func calledInSamples(v *domain.Variant, samples map[string]struct{}) bool {
	for _, call := range v.Samples {
		if _, ok := samples[call.SampleID]; !ok {
			continue
		}
		for _, r := range call.GenotypeCall {
			if r >= '1' && r <= '9' {
				return true
			}
		}
	}
	return false
}
