package main

import (
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/iwvelando/eugene-roi/pkg/output"
	"github.com/iwvelando/eugene-roi/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outputFormatFlag string

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate ROI for a practice configuration and print it",
	RunE:  runCalculate,
}

func init() {
	addConfigFlag(calculateCmd)
	calculateCmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, args []string) error {
	conf, logger, err := loadPractice()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	in, _ := conf.Inputs()
	results := roi.Calculate(logger, in)
	logger.Debug("calculation complete",
		zap.String("op", "main"),
		zap.String("calculationId", results.CalculationID),
	)

	return output.Write(cmd.OutOrStdout(), results, outputFormat)
}
