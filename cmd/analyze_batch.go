package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/export"
	"github.com/KaramelBytes/tabula-cli/internal/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	abFlags  pipelineFlags
	abOutDir string
	abCSV    bool
	abHTML   bool
	abAssets string
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple uploads with progress, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		outDir := abOutDir
		if outDir == "" {
			outDir = currentConfig().OutputDir
		}
		if outDir == "" {
			outDir = "."
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var bar *progressbar.ProgressBar
		if !abQuiet {
			bar = newProgressBar(cmd.ErrOrStderr(), len(files), "Analyzing uploads")
		}
		for _, path := range files {
			_, res, err := abFlags.run(path)
			if err != nil {
				return err
			}
			base := uniqueBase(outDir, reportBase(path, abFlags.sheetName))

			mdPath := filepath.Join(outDir, base+".report.md")
			if err := utils.SafeWriteFile(mdPath, []byte(res.Report.Markdown())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			written := []string{filepath.Base(mdPath)}
			if abCSV {
				var buf bytes.Buffer
				if err := export.WriteCSV(&buf, res.Rows, res.Columns); err != nil {
					return err
				}
				p := filepath.Join(outDir, base+".csv")
				if err := utils.SafeWriteFile(p, buf.Bytes()); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				written = append(written, filepath.Base(p))
			}
			if abHTML {
				var buf bytes.Buffer
				if err := export.Dashboard(&buf, res.Report, export.DashboardOptions{AssetsHost: abAssets}); err != nil {
					return err
				}
				p := filepath.Join(outDir, base+".dashboard.html")
				if err := utils.SafeWriteFile(p, buf.Bytes()); err != nil {
					return fmt.Errorf("write dashboard: %w", err)
				}
				written = append(written, filepath.Base(p))
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ %s: %d of %d rows → %s\n", filepath.Base(path), len(res.Rows), len(res.All), strings.Join(written, ", "))
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportBase is the file name stem for path's outputs, with a slug of the
// selected sheet when one is given.
func reportBase(path, sheet string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet == "" {
		return stem
	}
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(sheet)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return stem + "__sheet-" + ss
}

// uniqueBase suffixes base with __N until no report with that name exists.
func uniqueBase(dir, base string) string {
	if _, err := os.Stat(filepath.Join(dir, base+".report.md")); os.IsNotExist(err) {
		return base
	}
	for idx := 2; ; idx++ {
		cand := fmt.Sprintf("%s__%d", base, idx)
		if _, err := os.Stat(filepath.Join(dir, cand+".report.md")); os.IsNotExist(err) {
			return cand
		}
	}
}

func newProgressBar(w io.Writer, n int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+desc+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for reports (default: config output_dir)")
	analyzeBatchCmd.Flags().BoolVar(&abCSV, "csv", false, "also write each filtered working set as CSV")
	analyzeBatchCmd.Flags().BoolVar(&abHTML, "html", false, "also write each HTML dashboard")
	analyzeBatchCmd.Flags().StringVar(&abAssets, "assets-host", "", "dashboard: host serving the echarts assets")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
