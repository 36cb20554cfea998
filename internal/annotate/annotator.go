// Package annotate implements the variant annotator: fusing a stored
// variant with reference data, gene-panel overrides, predictions,
// frequencies, external links and compound information into the view model
// the presentation layer renders.
package annotate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

// Annotator assembles variant view models.
type Annotator struct {
	store    store.Store
	resolver *reference.Resolver
	logger   *logrus.Logger
}

// New creates an annotator.
func New(s store.Store, resolver *reference.Resolver, logger *logrus.Logger) *Annotator {
	return &Annotator{store: s, resolver: resolver, logger: logger}
}

// FrequencyEntry is one row of the population frequency table.
type FrequencyEntry struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Link  string   `json:"link,omitempty"`
}

// VariantView is the fully annotated variant handed to the presentation
// layer.
type VariantView struct {
	*domain.Variant

	Frequencies      []FrequencyEntry `json:"frequencies"`
	FrequencySummary string           `json:"frequency"`

	// FirstRepGene is the gene with the most severe consequence.
	FirstRepGene *domain.GeneAnnotation `json:"first_rep_gene,omitempty"`

	Predictions []string `json:"predictions,omitempty"`

	Links Links `json:"links"`

	OverviewTranscripts []OverviewTranscript `json:"overview_transcripts,omitempty"`

	// MatchingInheritance is set when the variant's genetic models
	// intersect any OMIM-suggested model of its genes.
	MatchingInheritance bool `json:"matching_inheritance,omitempty"`

	// GenePanels maps each hgnc id of the variant to the case's latest
	// default panels containing it.
	GenePanels map[int][]string `json:"gene_panels,omitempty"`

	// OutdatedSymbols flags genes whose symbol was resolved through
	// aliases, keyed by the symbol used on the variant.
	OutdatedSymbols []string `json:"outdated_symbols,omitempty"`
}

// DecorateVariant builds the view model for one variant of a case.
// Reference misses degrade the view instead of failing it.
func (a *Annotator) DecorateVariant(ctx context.Context, institute *domain.Institute,
	kase *domain.Case, variant *domain.Variant) (*VariantView, error) {
	if variant == nil {
		return nil, nil
	}
	view := &VariantView{Variant: variant}

	panels, err := a.defaultPanels(ctx, kase)
	if err != nil {
		return nil, err
	}

	if err := a.fuseGenes(ctx, kase, variant, view); err != nil {
		return nil, err
	}
	overlayPanels(variant, panels)
	a.annotatePanelMembership(ctx, kase, variant, view, panels)

	view.FirstRepGene = RepresentativeGene(variant)
	view.Frequencies = frequencyTable(variant)
	view.FrequencySummary = FrequencySummary(variant)
	view.Predictions = Predictions(variant)
	view.Links = BuildLinks(institute, kase, variant)
	view.OverviewTranscripts = OverviewTranscripts(variant)
	view.MatchingInheritance = matchesInheritance(variant)

	if err := a.DecorateCompounds(ctx, kase, variant); err != nil {
		return nil, err
	}
	return view, nil
}

// defaultPanels resolves the latest snapshots of the case's default panels.
// Unresolvable panels are logged and skipped.
func (a *Annotator) defaultPanels(ctx context.Context, kase *domain.Case) ([]*domain.GenePanel, error) {
	var out []*domain.GenePanel
	for _, casePanel := range kase.DefaultPanels() {
		panel, err := a.resolver.Panel(ctx, casePanel.PanelName, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve panel %s: %w", casePanel.PanelName, err)
		}
		if panel == nil {
			a.logger.WithFields(logrus.Fields{
				"panel":   casePanel.PanelName,
				"case_id": kase.ID,
			}).Warning("Default panel could not be found")
			continue
		}
		out = append(out, panel)
	}
	return out, nil
}

// annotatePanelMembership records, for every hgnc id on the variant, which
// latest panels contain the gene. The hgnc_ids list may exceed the stored
// gene documents for large SVs.
func (a *Annotator) annotatePanelMembership(ctx context.Context, kase *domain.Case,
	variant *domain.Variant, view *VariantView, panels []*domain.GenePanel) {
	if len(variant.HgncIDs) == 0 || len(panels) == 0 {
		return
	}
	membership := make(map[int][]string)
	for _, panel := range panels {
		ids := panel.HgncIDs()
		for _, hgncID := range variant.HgncIDs {
			if _, ok := ids[hgncID]; ok {
				membership[hgncID] = append(membership[hgncID], panel.Name)
			}
		}
	}
	if len(membership) > 0 {
		view.GenePanels = membership
	}
}
