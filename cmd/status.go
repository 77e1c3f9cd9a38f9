package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/export"
	"github.com/sells-group/contact-cli/internal/pipeline"
	"github.com/sells-group/contact-cli/internal/store"
)

var (
	statusCheckpoint string
	statusRuns       int
	statusContacts   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint progress and recent run history",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	checkpointPath := statusCheckpoint
	if checkpointPath == "" {
		checkpointPath = cfg.Discover.Checkpoint
	}
	cp, err := pipeline.NewCheckpointFile(checkpointPath).Load()
	if err != nil {
		return err
	}

	fmt.Printf("Checkpoint: %s\n", checkpointPath)
	fmt.Printf("  organizations completed: %d\n", len(cp.Completed))
	fmt.Printf("  contacts accumulated:    %d\n", len(cp.Results))

	if statusContacts && len(cp.Results) > 0 {
		fmt.Println(export.RenderTable(cp.Results))
	}

	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Migrate(cmd.Context()); err != nil {
		return err
	}

	runs, err := s.ListRuns(cmd.Context(), statusRuns)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Input", "Status", "Orgs", "Contacts", "Started"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID[:8],
			r.InputFile,
			r.Status,
			fmt.Sprintf("%d/%d", r.OrgsProcessed, r.OrgsTotal),
			r.ContactsFound,
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	fmt.Println(tw.Render())
	return nil
}

func init() {
	statusCmd.Flags().StringVar(&statusCheckpoint, "checkpoint", "", "checkpoint file (default from config)")
	statusCmd.Flags().IntVar(&statusRuns, "runs", 10, "how many recent runs to list")
	statusCmd.Flags().BoolVar(&statusContacts, "contacts", false, "also list accumulated contacts")
	rootCmd.AddCommand(statusCmd)
}
