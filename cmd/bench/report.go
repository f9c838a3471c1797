package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ValentinKolb/aggbench/lib/bench"
)

// reportHeader are the column titles of the result table
var reportHeader = []string{
	"Format", "Result", "Serialized Size",
	"Serialize Time [ns]", "Deserialize Time [ns]", "Roundtrip Time [ns]",
}

// reportRow renders the cells of a row
func reportRow(r bench.Row) []string {
	return []string{
		r.Codec,
		r.Status,
		strconv.Itoa(r.SerializedSize),
		strconv.FormatInt(r.SerializeNs, 10),
		strconv.FormatInt(r.DeserializeNs, 10),
		strconv.FormatInt(r.RoundtripNs, 10),
	}
}

// markdownCellReplacer keeps a cell on one table line and inside its column
var markdownCellReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// WriteMarkdown writes the result set as a titled markdown table with padded
// columns
func WriteMarkdown(w io.Writer, rs bench.ResultSet) error {
	rows := make([][]string, 0, len(rs.Rows))
	for _, r := range rs.Rows {
		row := reportRow(r)
		for i, cell := range row {
			row[i] = markdownCellReplacer.Replace(cell)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(reportHeader))
	for i, h := range reportHeader {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	writeLine := func(cells []string) {
		sb.WriteString("|")
		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Scenario: %s\n", rs.Scenario))
	writeLine(reportHeader)
	sb.WriteString("|")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeLine(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteCSV writes all result sets as one CSV document with a scenario column
func WriteCSV(w io.Writer, sets []bench.ResultSet) error {
	writer := csv.NewWriter(w)

	header := append([]string{"Scenario"}, reportHeader...)
	header = append(header, "State")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, rs := range sets {
		for _, r := range rs.Rows {
			row := append([]string{rs.Scenario}, reportRow(r)...)
			row = append(row, r.State.String())
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row for codec %s: %v", r.Codec, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
