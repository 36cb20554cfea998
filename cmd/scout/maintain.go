package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/constants"
	"github.com/scout-genomics/scout/internal/database"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

// indexedTables lists every collection table so the index command can
// rebuild them all.
var indexedTables = []string{
	"institutes", "users", "cases", "variants", "omics_variants",
	"events", "evaluations", "filters", "managed_variants",
	"genes", "transcripts", "exons", "panels", "hpo_terms", "disease_terms",
}

func newIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the store indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.NewConnection(ctx, settings.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, table := range indexedTables {
				if _, err := db.Pool.Exec(ctx, "REINDEX TABLE "+table); err != nil {
					return fmt.Errorf("failed to reindex %s: %w", table, err)
				}
				logger.WithField("table", table).Info("Indexes rebuilt")
			}
			return nil
		},
	}
}

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete documents from the store",
	}
	cmd.AddCommand(newDeleteVariantsCommand(), newDeleteReportCommand())
	return cmd
}

func updateCaseReport(ctx context.Context, st store.Store, caseID, reportType, path string) error {
	if _, ok := constants.CustomCaseReports[reportType]; !ok {
		return fmt.Errorf("unknown report type %q: %w", reportType, domain.ErrInvalidInput)
	}
	kase, err := st.Cases().Case(ctx, caseID)
	if err != nil {
		return err
	}
	if kase == nil {
		return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
	}
	if path == "" {
		delete(kase.CustomReports, reportType)
	} else {
		if kase.CustomReports == nil {
			kase.CustomReports = map[string]string{}
		}
		kase.CustomReports[reportType] = path
	}
	return st.Cases().UpdateCase(ctx, kase)
}

func newDeleteReportCommand() *cobra.Command {
	var caseID, reportType string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Remove a report from a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				if err := updateCaseReport(ctx, st, caseID, reportType, ""); err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{
					"case": caseID,
					"type": reportType,
				}).Info("Report removed")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&caseID, "case-id", "", "case the report belongs to")
	cmd.Flags().StringVar(&reportType, "type", "", "report type")
	cmd.MarkFlagRequired("case-id")
	cmd.MarkFlagRequired("type")
	return cmd
}

// newDeleteVariantsCommand trims a case's variant collection. Pinned and
// causative variants always survive, on top of any explicit keep list and
// rank threshold.
func newDeleteVariantsCommand() *cobra.Command {
	var caseID string
	var keepIDs []string
	var keepAboveRank float64
	var yes bool

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Delete a case's variants, keeping pinned and causative ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete variants without --yes")
			}

			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				kase, err := st.Cases().Case(ctx, caseID)
				if err != nil {
					return err
				}
				if kase == nil {
					return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
				}

				keep := append([]string{}, keepIDs...)
				keep = append(keep, kase.Suspects...)
				keep = append(keep, kase.Causatives...)

				var threshold *float64
				if cmd.Flags().Changed("keep-above-rank") {
					threshold = &keepAboveRank
				}

				deleted, err := st.Variants().DeleteVariants(ctx, kase.ID, keep, threshold)
				if err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{
					"case":    kase.ID,
					"deleted": deleted,
					"kept":    len(keep),
				}).Info("Variants deleted")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&caseID, "case-id", "", "case to trim")
	cmd.Flags().StringSliceVar(&keepIDs, "keep-id", nil, "variant document ids to keep")
	cmd.Flags().Float64Var(&keepAboveRank, "keep-above-rank", 0, "keep variants at or above this rank score")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	cmd.MarkFlagRequired("case-id")
	return cmd
}
