package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/query"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/store"
)

// newExportCommand exports a case's clinically filtered variants as CSV,
// using the owning institute's clinical preset.
func newExportCommand() *cobra.Command {
	var caseID, category, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a case's clinical variants as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := domain.Category(category)
			if !cat.IsValid() {
				return fmt.Errorf("unknown variant category %q", category)
			}

			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				kase, err := st.Cases().Case(ctx, caseID)
				if err != nil {
					return err
				}
				if kase == nil {
					return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
				}
				institute, err := st.Institutes().Institute(ctx, kase.Owner)
				if err != nil {
					return err
				}
				if institute == nil {
					return fmt.Errorf("institute %s: %w", kase.Owner, domain.ErrNotFound)
				}

				resolver, err := reference.NewResolver(st, geneCacheSize, logger)
				if err != nil {
					return err
				}
				service := query.NewService(st, resolver, logger)

				spec := query.ClinicalPreset(institute, kase, cat)
				result, err := service.Run(ctx, kase, cat, spec, 0)
				if err != nil {
					return err
				}

				out := os.Stdout
				if output != "" {
					out, err = os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer out.Close()
				}
				return query.ExportCSV(out, kase, result.Variants)
			})
		},
	}
	cmd.Flags().StringVar(&caseID, "case-id", "", "case to export")
	cmd.Flags().StringVar(&category, "category", string(domain.CategorySNV), "variant category")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.MarkFlagRequired("case-id")
	return cmd
}
