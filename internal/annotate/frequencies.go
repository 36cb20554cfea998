package annotate

import (
	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/domain"
)

// frequencyTable builds the per-category population frequency rows. Rows
// with a nil value still render, marked "-" by the presentation layer, so
// absent annotations stay visible.
func frequencyTable(variant *domain.Variant) []FrequencyEntry {
	switch variant.Category {
	case domain.CategorySV, domain.CategoryCancerSV:
		entries := []FrequencyEntry{
			{Label: "GnomAD (SV)", Value: variant.GnomadFrequency},
			{Label: "1000G", Value: variant.ThousandGenomesFrequency},
			{Label: "SweGen", Value: variant.SwegenFrequency},
		}
		if variant.ClinGenNGI != nil {
			entries = append(entries, FrequencyEntry{Label: "ClinGen NGI", Value: intValue(variant.ClinGenNGI)})
		}
		if variant.ColorsdbAF != nil {
			entries = append(entries, FrequencyEntry{Label: "CoLoRSdb", Value: variant.ColorsdbAF})
		}
		return entries
	case domain.CategoryMEI:
		return []FrequencyEntry{
			{Label: "SweGen MEI (max)", Value: variant.SwegenMeiMax},
			{Label: "1000G", Value: variant.ThousandGenomesFrequency},
		}
	}
	if variant.IsMitochondrial() {
		return []FrequencyEntry{
			{Label: "GnomAD (MT) homoplasmic", Value: variant.GnomadMTHomoplasmic},
			{Label: "GnomAD (MT) heteroplasmic", Value: variant.GnomadMTHeteroplasmic},
		}
	}
	entries := []FrequencyEntry{
		{Label: "GnomAD", Value: variant.GnomadFrequency},
		{Label: "1000G", Value: variant.ThousandGenomesFrequency},
		{Label: "ExAC", Value: variant.ExacFrequency, Link: ExACLink(variant)},
	}
	if variant.ColorsdbAF != nil {
		entries = append(entries, FrequencyEntry{Label: "CoLoRSdb", Value: variant.ColorsdbAF})
	}
	return entries
}

// FrequencySummary classifies the variant as common, uncommon or rare from
// the highest of its population frequencies.
func FrequencySummary(variant *domain.Variant) string {
	most := 0.0
	for _, value := range []*float64{
		variant.GnomadFrequency,
		variant.ThousandGenomesFrequency,
		variant.ExacFrequency,
		variant.GnomadMTHomoplasmic,
		variant.SwegenMeiMax,
		variant.ColorsdbAF,
	} {
		if value != nil && *value > most {
			most = *value
		}
	}
	switch {
	case most > constants.FreqCommonThreshold:
		return "common"
	case most > constants.FreqUncommonThreshold:
		return "uncommon"
	default:
		return "rare"
	}
}

func intValue(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
