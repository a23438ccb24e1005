package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/tabula-cli/internal/export"
	"github.com/KaramelBytes/tabula-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFlags      pipelineFlags
	anaOutputPath string
	anaCSVPath    string
	anaHTMLPath   string
	anaAssetsHost string
	anaCards      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Load a spreadsheet or JSON export and report KPIs, rankings and series",
	Long: `Load a CSV/TSV/XLSX spreadsheet, a JSON export or a Trello board export, bind roles to
columns, filter the rows and report on the working set.

Examples:
  tabula analyze atendimentos.xlsx --sheet-name "Atendimentos" --from 01/03/2024 --to 31/03/2024
  tabula analyze board.json --select category="Pane elétrica" --csv filtrados.csv
  tabula analyze dados.csv --map amount="VALOR PAGO" --map plate= --html painel.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := anaFlags.run(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		rep := res.Report

		if anaCSVPath != "" {
			var buf bytes.Buffer
			if err := export.WriteCSV(&buf, res.Rows, res.Columns); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaCSVPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote %d rows to %s\n", len(res.Rows), anaCSVPath)
		}
		if anaHTMLPath != "" {
			var buf bytes.Buffer
			if err := export.Dashboard(&buf, rep, export.DashboardOptions{AssetsHost: anaAssetsHost}); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaHTMLPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write dashboard: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote dashboard to %s\n", anaHTMLPath)
		}

		if anaCards {
			fmt.Fprintln(out, kpiCards(rep.KPIs))
		}
		md := rep.Markdown()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	analyzeCmd.Flags().StringVar(&anaCSVPath, "csv", "", "write the filtered working set as UTF-8 CSV (with BOM)")
	analyzeCmd.Flags().StringVar(&anaHTMLPath, "html", "", "write an HTML chart dashboard")
	analyzeCmd.Flags().StringVar(&anaAssetsHost, "assets-host", "", "dashboard: host serving the echarts assets")
	analyzeCmd.Flags().BoolVar(&anaCards, "cards", false, "print KPI cards before the report")
}
