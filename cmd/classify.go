package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/classify"
	"github.com/spf13/cobra"
)

var (
	clsRules  string
	clsLabels bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify free text into a vehicle type and an attendance category",
	RunE: func(cmd *cobra.Command, args []string) error {
		pf := pipelineFlags{rules: clsRules}
		rules, err := pf.loadRules()
		if err != nil {
			return err
		}
		c := classify.New(rules)
		out := cmd.OutOrStdout()
		if clsLabels {
			for _, l := range c.Labels() {
				fmt.Fprintln(out, l)
			}
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("no text given")
		}
		text := classify.Clean(strings.Join(args, " "))
		fmt.Fprintf(out, "normalized: %s\n", classify.Normalize(text))
		fmt.Fprintf(out, "vehicle: %s\n", c.Vehicle(text))
		fmt.Fprintf(out, "category: %s\n", c.Category(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&clsRules, "rules", "", "classification rules YAML (overrides config rules_file)")
	classifyCmd.Flags().BoolVar(&clsLabels, "labels", false, "list the category labels in priority order")
}
