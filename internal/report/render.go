package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/comparison"
)

// RenderTable prints cmp as a table: one row per slot, one column per
// athlete, and a footer with each athlete's best value. For unranked metrics
// the footer shows the maximum instead.
func RenderTable(w io.Writer, cmp service.Comparison) error {
	if _, err := fmt.Fprintf(w, "%s (%s – %s)\n", cmp.Label, cmp.From, cmp.To); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if cmp.Empty() {
		_, err := fmt.Fprintln(w, cmp.Message)
		return err
	}

	header := make([]string, 0, len(cmp.Series)+1)
	header = append(header, "Skok")
	for _, s := range cmp.Series {
		header = append(header, s.Name)
	}

	rows := make([][]string, 0, len(cmp.Rows))
	better := cmp.Metric.Better()
	best := make(map[int]float64, len(cmp.Series))
	for _, row := range cmp.Rows {
		cells := make([]string, 0, len(header))
		cells = append(cells, row.Slot.Title())
		for _, s := range cmp.Series {
			v := row.Values[s.AthleteID]
			if v == nil {
				cells = append(cells, gapCell)
				continue
			}
			cells = append(cells, formatValue(*v))
			if cur, ok := best[s.AthleteID]; !ok || beats(better, *v, cur) {
				best[s.AthleteID] = *v
			}
		}
		rows = append(rows, cells)
	}

	footer := make([]string, 0, len(header))
	footer = append(footer, footerLabel(better))
	for _, s := range cmp.Series {
		if v, ok := best[s.AthleteID]; ok {
			footer = append(footer, formatValue(v))
		} else {
			footer = append(footer, gapCell)
		}
	}

	alignment := make([]int, len(header))
	alignment[0] = tablewriter.ALIGN_LEFT
	for i := 1; i < len(alignment); i++ {
		alignment[i] = tablewriter.ALIGN_RIGHT
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.SetColumnAlignment(alignment)
	table.SetFooter(footer)
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	table.Render()
	return nil
}

// beats reports whether v should replace cur in the footer.
func beats(better comparison.Direction, v, cur float64) bool {
	if better == comparison.LowerIsBetter {
		return v < cur
	}
	return v > cur
}

func footerLabel(better comparison.Direction) string {
	if better == comparison.Unranked {
		return maxLabel
	}
	return bestLabel
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
