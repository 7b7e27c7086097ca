// Package render prints analysis reports for the console.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mvp-joe/pyscaffold/internal/analysis"
	"gopkg.in/yaml.v3"
)

// Write renders report in the named format ("table", "json" or "yaml").
func Write(w io.Writer, format string, report *analysis.DirectoryReport, colored bool) error {
	switch strings.ToLower(format) {
	case "", "table":
		return Table(w, report, colored)
	case "json":
		return JSON(w, report)
	case "yaml":
		return YAML(w, report)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// Table prints one block per file: a header line followed by aligned
// Imports, Classes, Functions, Variables and Lines rows, or an Error row.
func Table(w io.Writer, report *analysis.DirectoryReport, colored bool) error {
	header := color.New(color.Bold)
	label := color.New(color.FgCyan)
	failure := color.New(color.FgRed)
	for _, c := range []*color.Color{header, label, failure} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	if report.Len() == 0 {
		_, err := fmt.Fprintln(w, "No matching files found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	var failed int
	report.Each(func(path string, r *analysis.FileReport) {
		fmt.Fprintf(tw, "\n%s\n", header.Sprintf("File: %s", path))
		if r.Failed() {
			failed++
			fmt.Fprintf(tw, "  %s\t%s\n", label.Sprint("Error"), failure.Sprint(r.Err.Error()))
			return
		}
		fmt.Fprintf(tw, "  %s\t%s\n", label.Sprint("Imports"), orNone(strings.Join(r.Imports, ", ")))
		fmt.Fprintf(tw, "  %s\t%s\n", label.Sprint("Classes"), orNone(formatNameMap(r.Classes)))
		fmt.Fprintf(tw, "  %s\t%s\n", label.Sprint("Functions"), orNone(formatNameMap(r.Functions)))
		fmt.Fprintf(tw, "  %s\t%s\n", label.Sprint("Variables"), orNone(formatGroups(r.Variables)))
		fmt.Fprintf(tw, "  %s\t%d\n", label.Sprint("Lines"), r.Lines)
	})
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d files analyzed, %d with errors\n", report.Len(), failed)
	return err
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *analysis.DirectoryReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// YAML writes the report as a YAML document.
func YAML(w io.Writer, report *analysis.DirectoryReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// formatNameMap renders {"A": ["x", "y"]} as "A(x, y)".
func formatNameMap(m *analysis.NameMap) string {
	parts := make([]string, 0, m.Len())
	for _, key := range m.Keys() {
		names, _ := m.Get(key)
		parts = append(parts, fmt.Sprintf("%s(%s)", key, strings.Join(names, ", ")))
	}
	return strings.Join(parts, ", ")
}

// formatGroups renders [["a", "b"], ["c"]] as "a, b; c".
func formatGroups(groups [][]string) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, strings.Join(g, ", "))
	}
	return strings.Join(parts, "; ")
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
