package query

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scout-genomics/scout/internal/annotate"
	"github.com/scout-genomics/scout/internal/domain"
)

// ExportCSV streams the variant list as CSV. The header depends on the case:
// one GT/AD/GQ column group per individual, replaced by VAF and COSMIC
// columns on the cancer track.
func ExportCSV(w io.Writer, kase *domain.Case, variants []*domain.Variant) error {
	writer := csv.NewWriter(w)
	cancer := kase.Track == "cancer"

	header := []string{"Rank", "Position", "Change", "Rank score", "HGVS", "Gene(s)"}
	if cancer {
		header = append(header, "VAF (tumor)", "VAF (normal)", "COSMIC ids")
	} else {
		for _, individual := range kase.Individuals {
			name := individual.DisplayName
			if name == "" {
				name = individual.ID
			}
			header = append(header, "GT "+name, "AD "+name, "GQ "+name)
		}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for rank, variant := range variants {
		if rank >= ExportedVariantsLimit {
			break
		}
		row := []string{
			strconv.Itoa(rank + 1),
			fmt.Sprintf("%s:%d", variant.Chromosome, variant.Position),
			fmt.Sprintf("%s>%s", variant.Reference, variant.Alternative),
			strconv.FormatFloat(variant.RankScore, 'f', -1, 64),
			annotate.HGVSDescription(variant),
			strings.Join(variant.HgncSymbols, ";"),
		}
		if cancer {
			row = append(row,
				floatColumn(variant.TumorFrequency),
				floatColumn(variant.ControlFrequency),
				strings.Join(variant.CosmicIDs, ";"))
		} else {
			for _, individual := range kase.Individuals {
				row = append(row, sampleColumns(variant, individual.ID)...)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func sampleColumns(variant *domain.Variant, sampleID string) []string {
	for _, call := range variant.Samples {
		if call.SampleID != sampleID {
			continue
		}
		depths := make([]string, len(call.AlleleDepths))
		for i, d := range call.AlleleDepths {
			depths[i] = strconv.Itoa(d)
		}
		return []string{call.GenotypeCall, strings.Join(depths, ","), intColumn(call.GenotypeQuality)}
	}
	return []string{"", "", ""}
}

func floatColumn(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intColumn(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
