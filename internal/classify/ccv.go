package classify

import (
	"strings"

	"github.com/scout-genomics/scout/internal/constants"
)

// CCVPoints computes the Horak 2022 point score for a set of oncogenicity
// terms. Oncogenic prefixes score positive (OVS 8, OS 4, OM 2, OP 1), benign
// prefixes negative (SBVS -8, SBS -4, SBM -2, SBP -1); a strength suffix
// overrides the base class.
func CCVPoints(terms []string) int {
	var ovs, os, om, op, sbvs, sbs, sbm, sbp []string

	type target struct {
		prefix string
		list   *[]string
	}
	suffixMap := []struct {
		suffix  string
		targets []target
	}{
		{"_Strong", []target{{"O", &os}, {"SB", &sbs}}},
		{"_Moderate", []target{{"O", &om}, {"SB", &sbm}}},
		{"_Supporting", []target{{"O", &op}, {"SB", &sbp}}},
	}
	// Longer prefixes first, so "OVS1" does not land in the OS bucket.
	prefixMap := []target{
		{"OVS", &ovs},
		{"SBVS", &sbvs},
		{"SBS", &sbs},
		{"SBM", &sbm},
		{"SBP", &sbp},
		{"OS", &os},
		{"OM", &om},
		{"OP", &op},
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
		for _, t := range prefixMap {
			if strings.HasPrefix(term, t.prefix) {
				*t.list = append(*t.list, term)
				break
			}
		}
	}

	return 8*len(ovs) + 4*len(os) + 2*len(om) + len(op) -
		8*len(sbvs) - 4*len(sbs) - 2*len(sbm) - len(sbp)
}

func ccvBucket(points int) string {
	switch {
	case points <= -7:
		return Benign
	case points <= -1:
		return LikelyBenign
	case points <= 5:
		return UncertainSignificance
	case points <= 9:
		return LikelyOncogenic
	default:
		return Oncogenic
	}
}

// CCV computes the oncogenicity bucket for a set of criterion terms. An
// empty term set yields "" (unclassified).
func CCV(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return ccvBucket(CCVPoints(terms))
}

// CCVTemperature computes the point score and temperature for a CCV term
// set. Returns nil for an empty term set.
func CCVTemperature(terms []string) *Temperature {
	return temperature(terms, CCVPoints, ccvBucket, constants.CCVCompleteMap)
}

// CCVConflicts returns the reference strings of any potentially conflicting
// term pairs present in the set.
func CCVConflicts(terms []string) []string {
	return conflicts(terms, constants.CCVPotentialConflicts)
}
