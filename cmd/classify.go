package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/model"
)

var (
	classifyInput string
	classifyRoles []string
	classifyJSON  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify raw contacts from a JSON file against target roles",
	Long: `Reads a JSON array of raw contacts (name, title, source, email, phone,
updated_at) and reports the best candidate per role with composite scores.

Example:
  contact-cli classify --input contacts.json --roles "General Counsel,CFO"`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(classifyInput)
	if err != nil {
		return eris.Wrapf(err, "classify: read %s", classifyInput)
	}
	var contacts []model.RawContact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return eris.Wrapf(err, "classify: parse %s", classifyInput)
	}

	roles := classifyRoles
	if len(roles) == 0 {
		roles = cfg.Discover.Roles
	}

	matches, err := identify.NewClassifier().Classify(contacts, roles)
	if err != nil {
		return err
	}

	if classifyJSON {
		out, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return eris.Wrap(err, "classify: marshal matches")
		}
		fmt.Println(string(out))
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Role", "Name", "Title", "Source", "Score"})
	for _, m := range matches {
		tw.AppendRow(table.Row{
			m.Role,
			m.Name,
			m.Title,
			m.Source,
			fmt.Sprintf("%.2f", m.Score),
		})
	}
	fmt.Println(tw.Render())
	return nil
}

func init() {
	classifyCmd.Flags().StringVar(&classifyInput, "input", "", "raw contacts JSON file (required)")
	classifyCmd.Flags().StringSliceVar(&classifyRoles, "roles", nil, "target roles (default from config)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "emit matches as JSON")
	classifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(classifyCmd)
}
