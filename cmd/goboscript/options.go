package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"goboscript/internal/buildpipeline"
)

// outputOptions are the persistent flags every command that prints
// diagnostics honours.
type outputOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	format         buildpipeline.Format
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts outputOptions

	colorValue, err := flags.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorValue {
	case "auto", "on", "off":
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorValue)
	}
	opts.color = colorEnabled(cmd, os.Stderr)

	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.maxDiagnostics < 0 {
		return opts, fmt.Errorf("--max-diagnostics must not be negative")
	}

	formatValue, err := flags.GetString("diagnostics-format")
	if err != nil {
		return opts, fmt.Errorf("failed to get diagnostics-format flag: %w", err)
	}
	switch buildpipeline.Format(strings.ToLower(formatValue)) {
	case buildpipeline.FormatPretty:
		opts.format = buildpipeline.FormatPretty
	case buildpipeline.FormatJSON:
		opts.format = buildpipeline.FormatJSON
	default:
		return opts, fmt.Errorf("invalid --diagnostics-format %q (expected pretty|json)", formatValue)
	}
	return opts, nil
}
