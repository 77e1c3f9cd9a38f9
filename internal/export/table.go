package export

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sells-group/contact-cli/internal/model"
)

// RenderTable formats records as a terminal table for the status command.
func RenderTable(records []model.ContactRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"EIN", "Organization", "Name", "Title", "Email", "Confidence"})
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.OrgEIN,
			r.OrgName,
			r.Name,
			r.Title,
			r.Email,
			fmt.Sprintf("%.2f", r.Confidence),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
