// Package output renders CLI command results for human consumption.
package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/offlinehq/s3local/pkg/resolver"
)

// newTable returns a tablewriter configured for borderless, left-aligned
// output suitable for piping.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// PrintBucketPlan writes the ordered list of buckets a start invocation
// would create, with the source each name won from. Duplicates are shown
// as-is since creation is idempotent.
func PrintBucketPlan(w io.Writer, plan []resolver.PlanEntry) {
	table := newTable(w, "#", "Bucket", "Source")
	for i, entry := range plan {
		table.Append([]string{strconv.Itoa(i + 1), entry.Name, entry.Source})
	}
	table.Render()
}
