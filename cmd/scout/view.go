package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Inspect stored documents",
	}
	cmd.AddCommand(newViewCasesCommand(), newViewInstitutesCommand(), newViewUsersCommand())
	return cmd
}

func newViewCasesCommand() *cobra.Command {
	var institute, status string
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List cases of an institute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				cases, err := st.Cases().Cases(ctx, store.CaseSelection{
					Institute: institute,
					Status:    domain.CaseStatus(status),
				})
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDISPLAY NAME\tOWNER\tSTATUS\tANALYSIS DATE")
				for _, kase := range cases {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						kase.ID, kase.DisplayName, kase.Owner, kase.Status,
						kase.AnalysisDate.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&institute, "institute", "i", "", "institute id")
	cmd.Flags().StringVarP(&status, "status", "s", "", "case status")
	cmd.MarkFlagRequired("institute")
	return cmd
}

func newViewInstitutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "institutes",
		Short: "List all institutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				institutes, err := st.Institutes().Institutes(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDISPLAY NAME")
				for _, institute := range institutes {
					fmt.Fprintf(w, "%s\t%s\n", institute.ID, institute.DisplayName)
				}
				return w.Flush()
			})
		},
	}
}

func newViewUsersCommand() *cobra.Command {
	var institute string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users, optionally narrowed to one institute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.Store, logger *logrus.Logger) error {
				users, err := st.Users().Users(ctx, institute)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMAIL\tNAME\tINSTITUTES")
				for _, user := range users {
					fmt.Fprintf(w, "%s\t%s\t%v\n", user.Email, user.Name, user.Institutes)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&institute, "institute", "i", "", "institute id")
	return cmd
}
