package query

import (
	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
)

// ClinicalPreset builds the per-category clinical filter: the institute's
// frequency cutoff over the case's default panels, or the HPO-derived gene
// list when the case has the HPO clinical filter enabled. Selecting the
// preset replaces the current form.
func ClinicalPreset(institute *domain.Institute, kase *domain.Case, category domain.Category) FilterSpec {
	spec := FilterSpec{VariantType: domain.TypeClinical}

	cutoff := institute.FrequencyCutoff
	if cutoff == 0 {
		cutoff = constants.FreqUncommonThreshold
	}

	if kase.HPOClinicalFilter {
		spec.GenePanels = []string{"hpo"}
	} else {
		for _, panel := range kase.DefaultPanels() {
			spec.GenePanels = append(spec.GenePanels, panel.PanelName)
		}
	}

	switch category {
	case domain.CategorySV, domain.CategoryCancerSV:
		spec.GnomadFrequency = &cutoff
		spec.Swegen = &cutoff
	default:
		spec.GnomadFrequency = &cutoff
	}
	return spec
}
