// Package classify implements the two classification schemes of the
// interpretation engine: ACMG (Richards 2015) for germline pathogenicity and
// ClinGen-CGC-VICC (Horak 2022) for somatic oncogenicity, plus the
// evaluation submission lifecycle that persists classifications on variants.
package classify

import (
	"strings"

	"github.com/scout-genomics/scout/internal/constants"
)

// Classification bucket codes shared by both schemes.
const (
	Pathogenic            = "pathogenic"
	LikelyPathogenic      = "likely_pathogenic"
	Oncogenic             = "oncogenic"
	LikelyOncogenic       = "likely_oncogenic"
	UncertainSignificance = "uncertain_significance"
	LikelyBenign          = "likely_benign"
	Benign                = "benign"
)

// acmgCriteria is the partition of a term set into strength buckets. A term
// carrying a strength suffix counts towards the modified strength; terms
// whose suffix does not fit their direction fall back to prefix matching on
// the full term.
type acmgCriteria struct {
	pvs     bool
	psTerms []string
	pmTerms []string
	ppTerms []string
	ba      bool
	bsTerms []string
	bpTerms []string
}

func partitionACMG(terms []string) acmgCriteria {
	var c acmgCriteria

	type target struct {
		prefix string
		list   *[]string
	}
	suffixMap := []struct {
		suffix  string
		targets []target
	}{
		{"_Strong", []target{{"P", &c.psTerms}, {"B", &c.bsTerms}}},
		{"_Moderate", []target{{"P", &c.pmTerms}}},
		{"_Supporting", []target{{"P", &c.ppTerms}, {"B", &c.bpTerms}}},
	}
	prefixMap := []target{
		{"PS", &c.psTerms},
		{"PM", &c.pmTerms},
		{"PP", &c.ppTerms},
		{"BS", &c.bsTerms},
		{"BP", &c.bpTerms},
	}

	for _, term := range terms {
		matched := false
		for _, sm := range suffixMap {
			if !strings.HasSuffix(term, sm.suffix) {
				continue
			}
			for _, t := range sm.targets {
				if strings.HasPrefix(term, t.prefix) {
					*t.list = append(*t.list, term)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched {
			continue
		}
		switch {
		case strings.HasPrefix(term, "PVS"):
			c.pvs = true
		case strings.HasPrefix(term, "BA"):
			c.ba = true
		default:
			for _, t := range prefixMap {
				if strings.HasPrefix(term, t.prefix) {
					*t.list = append(*t.list, term)
					break
				}
			}
		}
	}
	return c
}

// Pathogenic per Richards 2015:
//
//	(i) PVS1 AND (>=1 PS | >=2 PM | 1 PM + 1 PP | >=2 PP)
//	(ii) >=2 PS
//	(iii) 1 PS AND (>=3 PM | 2 PM + >=2 PP | 1 PM + >=4 PP)
func (c acmgCriteria) isPathogenic() bool {
	if c.pvs {
		if len(c.psTerms) > 0 {
			return true
		}
		if len(c.pmTerms) > 0 {
			if len(c.ppTerms) > 0 {
				return true
			}
			if len(c.pmTerms) >= 2 {
				return true
			}
		}
		if len(c.ppTerms) >= 2 {
			return true
		}
	}
	if len(c.psTerms) > 0 {
		if len(c.psTerms) >= 2 {
			return true
		}
		if len(c.pmTerms) > 0 {
			switch {
			case len(c.pmTerms) >= 3:
				return true
			case len(c.pmTerms) >= 2:
				if len(c.ppTerms) >= 2 {
					return true
				}
			case len(c.ppTerms) >= 4:
				return true
			}
		}
	}
	return false
}

// Likely pathogenic per Richards 2015:
//
//	(i) PVS1 + 1 PM, (ii) 1 PS + 1-2 PM, (iii) 1 PS + >=2 PP,
//	(iv) >=3 PM, (v) 2 PM + >=2 PP, (vi) 1 PM + >=4 PP
func (c acmgCriteria) isLikelyPathogenic() bool {
	if c.pvs && len(c.pmTerms) > 0 {
		return true
	}
	if len(c.psTerms) > 0 {
		if len(c.pmTerms) > 0 {
			return true
		}
		if len(c.ppTerms) >= 2 {
			return true
		}
	}
	if len(c.pmTerms) > 0 {
		switch {
		case len(c.pmTerms) >= 3:
			return true
		case len(c.pmTerms) >= 2:
			if len(c.ppTerms) >= 2 {
				return true
			}
		case len(c.ppTerms) >= 4:
			return true
		}
	}
	return false
}

// Benign: BA1 stand-alone or >=2 BS.
func (c acmgCriteria) isBenign() bool {
	return c.ba || len(c.bsTerms) >= 2
}

// Likely benign: 1 BS + 1 BP, or >=2 BP.
func (c acmgCriteria) isLikelyBenign() bool {
	if len(c.bsTerms) > 0 && len(c.bpTerms) > 0 {
		return true
	}
	return len(c.bpTerms) >= 2
}

// ACMG computes the ACMG bucket for a set of criterion terms. Strength
// modifiers are given as suffixes, e.g. "PP1_Strong" or "PVS1_Moderate". BA1
// is fully stand-alone. An empty term set yields "" (unclassified).
func ACMG(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	c := partitionACMG(terms)
	if c.ba {
		return Benign
	}

	pathogenic := c.isPathogenic()
	likelyPathogenic := c.isLikelyPathogenic()
	benign := c.isBenign()
	likelyBenign := c.isLikelyBenign()

	if pathogenic || likelyPathogenic {
		if benign || likelyBenign {
			return UncertainSignificance
		}
		if pathogenic {
			return Pathogenic
		}
		return LikelyPathogenic
	}
	prediction := UncertainSignificance
	if benign {
		prediction = Benign
	}
	if likelyBenign {
		prediction = LikelyBenign
	}
	return prediction
}

// Temperature is the points-based view of a classification (Tavtigian 2020
// for ACMG, Horak 2022 for CCV).
type Temperature struct {
	Points int    `json:"points"`
	Label  string `json:"temperature"`
	Class  string `json:"temperature_class"`
	Icon   string `json:"temperature_icon"`
	// Classification is the short form of the points-derived bucket.
	Classification string `json:"point_classification"`
}

type temperatureString struct {
	label, color, icon string
}

var temperatureStrings = map[int]temperatureString{
	-1: {"B/LB", "success", "fa-times"},
	0:  {"Ice cold", "info", "fa-icicles"},
	1:  {"Cold", "info", "fa-snowman"},
	2:  {"Cold", "info", "fa-snowflake"},
	3:  {"Tepid", "yellow", "fa-temperature-half"},
	4:  {"Warm", "orange", "fa-mug-hot"},
	5:  {"Hot", "red", "fa-pepper-hot"},
	6:  {"LP/P", "danger", "fa-stethoscope"},
}

// ACMGTemperature computes the point score and temperature for an ACMG term
// set. PVS scores 8 points, S 4, M 2, P 1; benign terms count negative; BA1
// forces -8. Returns nil for an empty term set.
func ACMGTemperature(terms []string) *Temperature {
	return temperature(terms, acmgPoints, func(points int) string {
		switch {
		case points <= -7:
			return Benign
		case points <= -1:
			return LikelyBenign
		case points <= 5:
			return UncertainSignificance
		case points <= 9:
			return LikelyPathogenic
		default:
			return Pathogenic
		}
	}, constants.ACMGCompleteMap)
}

func acmgPoints(terms []string) int {
	c := partitionACMG(terms)
	if c.ba {
		return -8
	}
	points := 4*len(c.psTerms) + 2*len(c.pmTerms) + len(c.ppTerms) -
		4*len(c.bsTerms) - len(c.bpTerms)
	if c.pvs {
		points += 8
	}
	return points
}

func temperature(terms []string, points func([]string) int,
	bucket func(int) string, options map[string]constants.ClassificationOption) *Temperature {
	if len(terms) == 0 {
		return nil
	}
	p := points(terms)
	classification := bucket(p)

	t := &Temperature{Points: p}
	switch classification {
	case Benign, LikelyBenign:
		t.Icon = temperatureStrings[-1].icon
	case UncertainSignificance:
	default:
		t.Icon = temperatureStrings[6].icon
	}

	opt := options[classification]
	t.Class = opt.Color
	t.Label = opt.Label
	t.Classification = opt.Short

	if classification == UncertainSignificance {
		ts := temperatureStrings[p]
		t.Class = ts.color
		t.Label = ts.label
		t.Icon = ts.icon
	}
	return t
}

// ACMGConflicts returns the reference strings of any potentially conflicting
// term pairs present in the set. Conflicts never block classification.
func ACMGConflicts(terms []string) []string {
	return conflicts(terms, constants.ACMGPotentialConflicts)
}

func conflicts(terms []string, pairs []constants.ConflictPair) []string {
	present := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		present[t] = struct{}{}
	}
	var out []string
	for _, p := range pairs {
		if _, ok := present[p.First]; !ok {
			continue
		}
		if _, ok := present[p.Second]; !ok {
			continue
		}
		out = append(out, p.Reference)
	}
	return out
}
