package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goboscript/internal/buildpipeline"
	"goboscript/internal/project"
	"goboscript/internal/version"
)

const cacheApp = "goboscript"

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags]",
		Short: "Compile a project directory into an .sb3 archive",
		Long: `Compile stage.gs and every other .gs file of the input directory into a
Scratch 3 project. Without --output the archive is written next to the
sources as <input>/<basename(input)>.sb3.`,
		Args: cobra.NoArgs,
		RunE: buildExecution,
	}
	cmd.Flags().StringP("input", "i", "", "project directory (default: working directory)")
	cmd.Flags().StringP("output", "o", "", "output archive (default: <input>/<basename(input)>.sb3)")
	cmd.Flags().String("ui", "auto", "progress interface (auto|on|off)")
	cmd.Flags().Int("jobs", 0, "parallel parse/resolve workers (0 = GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "always rebuild, even when nothing changed")
	return cmd
}

func buildExecution(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if input == "" {
		if input, err = os.Getwd(); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}

	req := buildpipeline.BuildRequest{
		Input:          input,
		Output:         output,
		Jobs:           jobs,
		MaxDiagnostics: opts.maxDiagnostics,
		Version:        version.Version,
		Out:            os.Stderr,
		Color:          opts.color,
		Format:         opts.format,
		Quiet:          opts.quiet,
	}
	if opts.format == buildpipeline.FormatJSON {
		req.Out = os.Stdout
	}
	if !noCache {
		cache, cacheErr := buildpipeline.OpenCache(cacheApp)
		if cacheErr != nil {
			// без кеша просто пересобираем
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "cache disabled: %v\n", cacheErr)
			}
		} else {
			req.Cache = cache
		}
	}

	var res buildpipeline.BuildResult
	files := progressFiles(input, uiModeValue, opts)
	if len(files) > 0 {
		res, err = runBuildWithUI(cmd.Context(), "goboscript build", files, &req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), &req)
	}
	if opts.timings {
		printStageTimings(os.Stderr, res.Timings)
	}
	return err
}

// progressFiles returns the units to show in the progress UI, or nil when
// the UI is off. JSON output is for machines and never gets the UI.
func progressFiles(input string, mode uiMode, opts outputOptions) []string {
	if opts.format == buildpipeline.FormatJSON || opts.quiet || !shouldUseTUI(mode) {
		return nil
	}
	layout, err := project.Discover(input)
	if err != nil {
		// the build reports the same error
		return nil
	}
	return layout.Files()
}
