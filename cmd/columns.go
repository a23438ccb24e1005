package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/KaramelBytes/tabula-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	colSheetName  string
	colSheetIndex int
	colKind       string
	colMaps       []string
	colHead       int
	colJSON       bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Preview an upload's columns and the resolved role binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pf := pipelineFlags{sheetName: colSheetName, sheetIndex: colSheetIndex, kind: colKind, maps: colMaps}
		s, err := pf.open(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if colJSON {
			b, err := utils.PrettyJSON(s.Describe())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		res, err := s.Run(pipeline.Filter{}, analysis.DefaultOptions())
		if err != nil {
			return err
		}
		src := s.Source
		fmt.Fprintf(out, "File: %s (%s)\n", src.Name, src.Kind)
		if src.Sheet != "" {
			fmt.Fprintf(out, "Sheet: %s\n", src.Sheet)
		}
		if src.RecordKey != "" {
			fmt.Fprintf(out, "Records: %s\n", src.RecordKey)
		}
		fmt.Fprintf(out, "Rows: %d\n\n", src.Table.Len())

		fmt.Fprintln(out, "| Column | Role | Filled |")
		fmt.Fprintln(out, "|---|---|---:|")
		for _, c := range src.Table.Columns {
			role := "-"
			if r := s.Binding.RoleOf(c); r != schema.Unmapped {
				role = r.String()
			}
			fill := locale.FormatPercent(analysis.ColumnFill(res.All, c))
			fmt.Fprintf(out, "| %s | %s | %s |\n", c, role, fill)
		}

		var unbound []string
		for _, r := range schema.Order {
			if !s.Binding.Bound(r) {
				unbound = append(unbound, r.String())
			}
		}
		if len(unbound) > 0 {
			fmt.Fprintf(out, "\nUnbound roles: %s\n", strings.Join(unbound, ", "))
		}

		if colHead > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, strings.Join(src.Table.Columns, " | "))
			for _, line := range src.Table.Head(colHead) {
				fmt.Fprintln(out, strings.Join(line, " | "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colSheetName, "sheet-name", "", "XLSX: sheet name to load")
	columnsCmd.Flags().IntVar(&colSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (0 = first)")
	columnsCmd.Flags().StringVar(&colKind, "kind", "auto", "upload kind: auto|table|records|trello")
	columnsCmd.Flags().StringArrayVar(&colMaps, "map", nil, "bind a role to a column: role=column (repeatable)")
	columnsCmd.Flags().IntVar(&colHead, "head", 0, "also print the first N rows")
	columnsCmd.Flags().BoolVar(&colJSON, "json", false, "print the session summary as JSON")
}
