package image

import (
	"fmt"
	"io"

	"github.com/cryptix-os/helix/util"
	"github.com/olekukonko/tablewriter"
)

// PrintLayout renders the partitions of layout as a table
func PrintLayout(w io.Writer, layout *Layout) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Filesystem", "Label", "Start", "End", "Size"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})
	table.SetRowLine(true)

	for _, p := range layout.Partitions {
		table.Append([]string{
			fmt.Sprint(p.Number),
			string(p.Filesystem),
			p.Label,
			fmt.Sprintf("%ds", p.Start),
			fmt.Sprintf("%ds", p.End),
			util.FormatSize(p.Size()),
		})
	}
	table.SetCaption(true, fmt.Sprintf("%s table, %s", layout.Table, util.FormatSize(layout.Size)))

	table.Render()
}
