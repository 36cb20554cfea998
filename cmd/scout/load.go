package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load documents from JSON files",
	}
	cmd.AddCommand(
		newLoadInstituteCommand(),
		newLoadUserCommand(),
		newLoadCaseCommand(),
		newLoadPanelCommand(),
		newLoadGenesCommand(),
		newLoadVariantsCommand(),
		newLoadManagedCommand(),
		newLoadReportCommand(),
	)
	return cmd
}

// withStore opens the repository and hands it to fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st store.Store, logger *logrus.Logger) error) error {
	settings, logger, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, db, err := openRepository(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, st, logger)
}

func decodeFile(path string, target any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func newLoadInstituteCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "institute",
		Short: "Load or update an institute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var institute domain.Institute
				if err := decodeFile(file, &institute); err != nil {
					return err
				}
				if err := st.Institutes().UpsertInstitute(ctx, &institute); err != nil {
					return err
				}
				logger.WithField("institute", institute.ID).Info("Institute loaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "institute JSON document")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadUserCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Load or update a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var user domain.User
				if err := decodeFile(file, &user); err != nil {
					return err
				}
				if err := st.Users().UpsertUser(ctx, &user); err != nil {
					return err
				}
				logger.WithField("user", user.Email).Info("User loaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "user JSON document")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadCaseCommand() *cobra.Command {
	var file string
	var update bool
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Load a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var kase domain.Case
				if err := decodeFile(file, &kase); err != nil {
					return err
				}
				var err error
				if update {
					err = st.Cases().UpdateCase(ctx, &kase)
				} else {
					err = st.Cases().InsertCase(ctx, &kase)
				}
				if err != nil {
					return err
				}
				logger.WithField("case", kase.ID).Info("Case loaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "case JSON document")
	cmd.Flags().BoolVar(&update, "update", false, "update an existing case")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadPanelCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Load a gene panel version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var panel domain.GenePanel
				if err := decodeFile(file, &panel); err != nil {
					return err
				}
				return st.Panels().InsertPanel(ctx, &panel)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "panel JSON document")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadGenesCommand() *cobra.Command {
	var file, build string
	cmd := &cobra.Command{
		Use:   "genes",
		Short: "Load reference genes for a genome build",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var genes []*domain.HGNCGene
				if err := decodeFile(file, &genes); err != nil {
					return err
				}
				for _, gene := range genes {
					if gene.Build == "" {
						gene.Build = build
					}
					if err := st.Genes().InsertGene(ctx, gene); err != nil {
						return err
					}
				}
				logger.WithFields(logrus.Fields{
					"genes": len(genes),
					"build": build,
				}).Info("Reference genes loaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "gene JSON array")
	cmd.Flags().StringVar(&build, "build", "37", "genome build for genes without one")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadVariantsCommand() *cobra.Command {
	var file, caseID string
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Load variant documents for a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var variants []*domain.Variant
				if err := decodeFile(file, &variants); err != nil {
					return err
				}
				for _, variant := range variants {
					if variant.CaseID == "" {
						variant.CaseID = caseID
					}
					target := st.Variants()
					if variant.Category == domain.CategoryOutlier || variant.Category == domain.CategoryFusion {
						target = st.OmicsVariants()
					}
					if err := target.InsertVariant(ctx, variant); err != nil {
						return err
					}
				}
				logger.WithFields(logrus.Fields{
					"variants": len(variants),
					"case":     caseID,
				}).Info("Variants loaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "variant JSON array")
	cmd.Flags().StringVar(&caseID, "case-id", "", "case id for variants without one")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newLoadReportCommand() *cobra.Command {
	var caseID, reportType, path string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Attach a report file to a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				if err := updateCaseReport(ctx, st, caseID, reportType, path); err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{
					"case": caseID,
					"type": reportType,
					"path": path,
				}).Info("Report attached")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&caseID, "case-id", "", "case the report belongs to")
	cmd.Flags().StringVar(&reportType, "type", "", "report type")
	cmd.Flags().StringVar(&path, "path", "", "report file path")
	cmd.MarkFlagRequired("case-id")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("path")
	return cmd
}

func newLoadManagedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "managed-variant",
		Short: "Load a managed variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				var managed domain.ManagedVariant
				if err := decodeFile(file, &managed); err != nil {
					return err
				}
				return st.ManagedVariants().InsertManagedVariant(ctx, &managed)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "managed variant JSON document")
	cmd.MarkFlagRequired("file")
	return cmd
}
