package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabula-cli/internal/config"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabula configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "header_primary: %s\n", cfg.HeaderPrimary)
		fmt.Fprintf(out, "header_secondary: %s\n", cfg.HeaderSecondary)
		fmt.Fprintf(out, "header_scan_rows: %d\n", cfg.HeaderScanRows)
		if cfg.RulesFile != "" {
			fmt.Fprintf(out, "rules_file: %s\n", cfg.RulesFile)
		}
		fmt.Fprintf(out, "provider_top_n: %d\n", cfg.ProviderTopN)
		fmt.Fprintf(out, "region_top_n: %d\n", cfg.RegionTopN)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		names := make([]string, 0, len(cfg.Candidates))
		for n := range cfg.Candidates {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(out, "candidates.%s: %s\n", n, strings.Join(cfg.Candidates[n], ", "))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save it to ~/.tabula/config.yaml (or --config).

Role candidates are set with candidates.<role> and a comma-separated list, e.g.
  tabula config set candidates.provider "PRESTADOR,FORNECEDOR"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "header_primary":
			cfg.HeaderPrimary = val
		case "header_secondary":
			cfg.HeaderSecondary = val
		case "header_scan_rows":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid header_scan_rows: %s", val)
			}
			cfg.HeaderScanRows = n
		case "rules_file":
			cfg.RulesFile = val
		case "provider_top_n":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid provider_top_n: %s", val)
			}
			cfg.ProviderTopN = n
		case "region_top_n":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid region_top_n: %s", val)
			}
			cfg.RegionTopN = n
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "output_dir":
			cfg.OutputDir = val
		default:
			name, ok := strings.CutPrefix(key, "candidates.")
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			role, err := schema.ParseRole(name)
			if err != nil {
				return err
			}
			var cands []string
			for _, c := range strings.Split(val, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cands = append(cands, c)
				}
			}
			if cfg.Candidates == nil {
				cfg.Candidates = map[string][]string{}
			}
			cfg.Candidates[role.String()] = cands
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
