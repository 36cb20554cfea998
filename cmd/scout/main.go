package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scout",
		Short:         "Clinical genomics variant interpretation",
		Long:          "Scout stores annotated variants per case and serves interpretation workflows:\nfiltering, ACMG/CCV classification, assessments and a full case journal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newWipeCommand(),
		newIndexCommand(),
		newLoadCommand(),
		newDeleteCommand(),
		newViewCommand(),
		newExportCommand(),
		newSetupCommand(),
	)
	return root
}

// loadSettings reads the configuration and builds the logger it prescribes.
func loadSettings() (*config.Settings, *logrus.Logger, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, nil, err
	}
	if err := manager.Validate(); err != nil {
		return nil, nil, err
	}

	settings := manager.GetSettings()
	return settings, newLogger(settings.Logging), nil
}

func newLogger(settings config.LoggingSettings) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(settings.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if settings.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
