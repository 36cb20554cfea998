package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/setup"
)

func newSetupCommand() *cobra.Command {
	var dir string
	var force, validateOnly bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Scaffold a deployment directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if validateOnly {
				issues := setup.Validate(dir)
				if len(issues) == 0 {
					fmt.Println("Installation looks serviceable.")
					return nil
				}
				for _, issue := range issues {
					fmt.Println("- " + issue)
				}
				return fmt.Errorf("%d issue(s) found", len(issues))
			}

			path, err := setup.WriteConfig(setup.Options{Dir: dir, Force: force})
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)

			demo := config.DefaultDemoSettings()
			if err := setup.EnsureDataDir(demo.DataDir); err != nil {
				return err
			}
			fmt.Printf("Demo data directory ready at %s\n", demo.DataDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "deployment directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing scout.yaml")
	cmd.Flags().BoolVar(&validateOnly, "validate", false, "only check the installation")
	return cmd
}
