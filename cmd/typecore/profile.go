package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"typecore/internal/config"
)

var profileFormat string

func init() {
	profileCmd.Flags().StringVar(&profileFormat, "format", "pretty", "output format (pretty|json)")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the effective limits profile",
	Long:  `Profile merges the optional TOML config over the built-in defaults and prints the result`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}

		profile := config.DefaultProfile()
		if path != "" {
			profile, err = config.Load(path)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		switch profileFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		case "pretty":
			fmt.Fprintf(out, "subtype depth:            %d\n", profile.Limits.SubtypeDepth)
			fmt.Fprintf(out, "subtype ops:              %d\n", profile.Limits.SubtypeOps)
			fmt.Fprintf(out, "eval depth:               %d\n", profile.Limits.EvalDepth)
			fmt.Fprintf(out, "instantiation depth:      %d\n", profile.Limits.InstantiationDepth)
			fmt.Fprintf(out, "template expansion bound: %d\n", profile.Limits.TemplateExpansionBound)
			fmt.Fprintf(out, "strict function types:    %v\n", profile.Strictness.StrictFunctionTypes)
			fmt.Fprintf(out, "strict null checks:       %v\n", profile.Strictness.StrictNullChecks)
			fmt.Fprintf(out, "allow void return:        %v\n", profile.Strictness.AllowVoidReturn)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", profileFormat)
		}
	},
}
