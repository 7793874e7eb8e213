package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
)

// Table renders data as a formatted table.
type Table struct {
	headers []string
	rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		writer:  os.Stdout,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))

	// Separator
	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	// Rows
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// printOutput prints data in the requested format.
func printOutput(data interface{}) error {
	switch getOutputFormat() {
	case "yaml":
		return printYAML(data)
	default:
		return printJSON(data)
	}
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(data interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}

// renderRun prints per-machine outcomes followed by the run summary.
func renderRun(outcomes []benefit.Outcome, summary benefit.Summary) error {
	if getOutputFormat() != "table" {
		return printOutput(struct {
			Outcomes []benefit.Outcome `json:"outcomes" yaml:"outcomes"`
			Summary  benefit.Summary   `json:"summary" yaml:"summary"`
		}{outcomes, summary})
	}

	table := NewTable("MACHINE", "RESOURCE GROUP", "ACTION", "DETAIL")
	for _, o := range outcomes {
		table.AddRow(o.Machine, o.ResourceGroup, formatAction(o.Action), truncate(o.Detail, 60))
	}
	table.Render()

	fmt.Printf("\n%d machines: %d already enabled, %d enabled, %d failed\n",
		summary.Total, summary.AlreadyEnabled, summary.Enabled, summary.Failed)
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatAction returns an action string with visual indicator.
func formatAction(a benefit.Action) string {
	switch a {
	case benefit.ActionEnabled:
		return "[+] enabled"
	case benefit.ActionNoChange:
		return "[=] no-change"
	case benefit.ActionFailed:
		return "[-] failed"
	default:
		return string(a)
	}
}

// formatBenefit returns a license profile state with visual indicator.
func formatBenefit(state string) string {
	switch state {
	case "enabled":
		return "[+] enabled"
	case "disabled":
		return "[-] disabled"
	default:
		return "[ ] absent"
	}
}
