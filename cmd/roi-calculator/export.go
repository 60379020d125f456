package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the Excel workload report for a practice configuration",
	RunE:  runExport,
}

func init() {
	addConfigFlag(exportCmd)
	exportCmd.Flags().StringVar(&exportPath, "out", constants.ReportFileName, "path of the workbook to write")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	conf, logger, err := loadPractice()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	in, _ := conf.Inputs()
	results := roi.Calculate(logger, in)

	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportPath, err)
	}
	if err := report.WriteWorkbook(f, results); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", exportPath, err)
	}

	logger.Info("workbook written",
		zap.String("op", "main"),
		zap.String("path", exportPath),
		zap.String("calculationId", results.CalculationID),
	)
	return nil
}
