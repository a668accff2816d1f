package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"typecore/internal/trace"
)

// setupTracing inspects trace-related flags and builds the tracer.
// It returns the tracer plus a cleanup function.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}

	if level == trace.LevelOff || output == "" {
		return trace.Nop, func() {}, nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	tracer := trace.NewStreamTracer(f, level)
	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func parseLevel(s string) (trace.Level, error) {
	switch s {
	case "off", "":
		return trace.LevelOff, nil
	case "session":
		return trace.LevelSession, nil
	case "unit":
		return trace.LevelUnit, nil
	case "query":
		return trace.LevelQuery, nil
	default:
		return trace.LevelOff, fmt.Errorf("invalid trace level %q (off|session|unit|query)", s)
	}
}
