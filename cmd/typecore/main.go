package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typecore/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "typecore",
	Short:         "Type-system core toolkit",
	Long:          `typecore evaluates, compares and narrows interned types`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(selfcheckCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to a TOML limits profile")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to this file")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|session|unit|query)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color tri-state against the stream.
func useColor(cmd *cobra.Command, f *os.File) bool {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return flag == "on" || (flag == "auto" && isTerminal(f))
}
