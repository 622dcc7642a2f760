package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func parseFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format = strings.ToLower(format); format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// Output handles formatted output for the CLI.
type Output struct {
	writer io.Writer
	format string
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	format, err := parseFormat(cmd)
	if err != nil {
		format = FormatTable
	}
	return &Output{writer: cmd.OutOrStdout(), format: format}
}

// IsStructured reports whether data should be encoded instead of tabulated.
func (o *Output) IsStructured() bool {
	return o.format != FormatTable
}

// Encode writes data as JSON or YAML, depending on the format.
func (o *Output) Encode(data interface{}) error {
	if o.format == FormatYAML {
		enc := yaml.NewEncoder(o.writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Table collects rows and renders them in aligned columns.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{headers: headers, output: output}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() error {
	tw := tabwriter.NewWriter(t.output.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// FormatMoney prints a profit/loss or price with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatPnL prints a profit/loss with an explicit sign.
func FormatPnL(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// FormatPercent prints a percentage with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// orDash replaces an empty cell so columns stay readable.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
