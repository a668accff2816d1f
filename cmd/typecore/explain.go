package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"typecore/internal/config"
	"typecore/internal/diagfmt"
	"typecore/internal/session"
	"typecore/internal/types"
)

var explainFormat string

func init() {
	explainCmd.Flags().StringVar(&explainFormat, "format", "pretty", "output format (pretty|json)")
	rootCmd.AddCommand(explainCmd)
}

// explainScenarios are canned assignability failures used to inspect
// the diagnostic pipeline end to end.
var explainScenarios = map[string]func(*session.Session){
	"missing-prop": func(s *session.Session) {
		src := s.Types.Object([]types.Property{
			{Name: s.Atoms.Intern("id"), Type: types.Number},
		})
		dst := s.Types.Object([]types.Property{
			{Name: s.Atoms.Intern("id"), Type: types.Number},
			{Name: s.Atoms.Intern("name"), Type: types.String},
		})
		s.ReportAssignable(src, dst)
	},
	"literal-mismatch": func(s *session.Session) {
		s.ReportAssignable(s.Types.StringLiteral("off"), s.Types.Union2(
			s.Types.StringLiteral("on"),
			s.Types.StringLiteral("auto"),
		))
	},
	"param-variance": func(s *session.Session) {
		animal := s.Types.Object([]types.Property{
			{Name: s.Atoms.Intern("name"), Type: types.String},
		})
		handler := func(param types.TypeID) types.TypeID {
			return s.Types.Function(types.FunctionShape{
				Params: []types.Param{{Name: s.Atoms.Intern("x"), Type: param}},
				Return: types.Void,
			})
		}
		s.ReportAssignable(handler(animal), handler(types.String))
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <scenario>",
	Short: "Run a canned assignability failure and show its diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, ok := explainScenarios[args[0]]
		if !ok {
			names := make([]string, 0, len(explainScenarios))
			for name := range explainScenarios {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown scenario %q (available: %v)", args[0], names)
		}

		maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}

		s := session.New(config.DefaultProfile(), nil, maxDiagnostics)
		scenario(s)

		printer := &diagfmt.Printer{In: s.Types, Decls: s.Decls}
		switch explainFormat {
		case "json":
			return diagfmt.JSON(os.Stdout, s.Bag, printer, diagfmt.JSONOpts{IncludeReasons: true})
		case "pretty":
			diagfmt.Pretty(os.Stdout, s.Bag, printer, diagfmt.PrettyOpts{
				Color:       useColor(cmd, os.Stdout),
				ShowReasons: true,
			})
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", explainFormat)
		}
	},
}
