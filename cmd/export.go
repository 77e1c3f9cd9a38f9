package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/export"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/pipeline"
)

var (
	exportCheckpoint    string
	exportOutput        string
	exportMinConfidence float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export checkpointed results to CSV, JSON, or XLSX",
	Long: `Reads the accumulated results from a checkpoint file and writes them in
the format implied by the output extension.

Example:
  contact-cli export --checkpoint checkpoint.json --min-confidence 0.8 --output contacts.xlsx`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	checkpointPath := exportCheckpoint
	if checkpointPath == "" {
		checkpointPath = cfg.Discover.Checkpoint
	}
	cp, err := pipeline.NewCheckpointFile(checkpointPath).Load()
	if err != nil {
		return err
	}

	var records []model.ContactRecord
	for _, r := range cp.Results {
		if r.Confidence >= exportMinConfidence {
			records = append(records, r)
		}
	}

	if err := export.WriteFile(records, exportOutput); err != nil {
		return err
	}
	fmt.Printf("Wrote %d of %d contacts to %s\n", len(records), len(cp.Results), exportOutput)
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportCheckpoint, "checkpoint", "", "checkpoint file (default from config)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (.csv, .json, .xlsx) (required)")
	exportCmd.Flags().Float64Var(&exportMinConfidence, "min-confidence", 0, "minimum confidence to include")
	exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}
