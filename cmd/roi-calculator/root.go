package main

import (
	"fmt"

	"github.com/iwvelando/eugene-roi/internal/config"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configLocation string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:           "roi-calculator",
	Short:         "Eugene genetic testing ROI calculator",
	Long:          "Estimates staff costs, time savings, revenue and patient savings for a practice using Eugene genetic testing, from a practice configuration file or the web form.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to practice configuration file")
}

// loadPractice reads the practice configuration, builds its logger and logs
// every configuration warning.
func loadPractice() (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(configLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return conf, logger, nil
}
