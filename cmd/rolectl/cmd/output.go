package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Output format constants.
const (
	outputTable = "table"
	outputJSON  = "json"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type tableWriter struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *tableWriter {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	return &tableWriter{w: w}
}

func (t *tableWriter) AddRow(values ...string) {
	fmt.Fprintln(t.w, strings.Join(values, "\t"))
}

func (t *tableWriter) Flush() error {
	return t.w.Flush()
}

func printPagination(w io.Writer, total int64, page, perPage, totalPages int) {
	if total == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	start := (page-1)*perPage + 1
	end := page * perPage
	if int64(end) > total {
		end = int(total)
	}
	fmt.Fprintf(w, "\nShowing %d-%d of %d results (page %d/%d)\n", start, end, total, page, totalPages)
}
