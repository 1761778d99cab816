// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	passColor = color.New(color.FgHiGreen).SprintFunc()
	failColor = color.New(color.FgHiRed).SprintFunc()
	infoColor = color.New(color.FgHiBlue).SprintFunc()
)

// JSON writes indented JSON to w.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header to w.
func Table(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	h := make([]any, len(header))
	for i, s := range header {
		h[i] = s
	}
	table.Header(h...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// Pass colors s as a success.
func Pass(s string) string { return passColor(s) }

// Fail colors s as a failure.
func Fail(s string) string { return failColor(s) }

// Info colors s as a highlight.
func Info(s string) string { return infoColor(s) }

// DisableColor turns coloring off for the process.
func DisableColor() { color.NoColor = true }

// Warn prints a warning message to w.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}
