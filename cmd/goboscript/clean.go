package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goboscript/internal/buildpipeline"
	"goboscript/internal/project"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [flags]",
		Short: "Remove a project's archive and its cache entry",
		Long: `Remove the .sb3 archive a build of the input directory would write and
forget its cached fingerprint, so the next build starts from scratch.
With --all the whole build cache is dropped.`,
		Args: cobra.NoArgs,
		RunE: runClean,
	}
	cmd.Flags().StringP("input", "i", "", "project directory (default: working directory)")
	cmd.Flags().StringP("output", "o", "", "archive to remove (default: <input>/<basename(input)>.sb3)")
	cmd.Flags().Bool("all", false, "drop every cached fingerprint, not only this project's")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if input == "" {
		if input, err = os.Getwd(); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}
	if output == "" {
		output = project.DefaultOutput(input)
	}
	out := cmd.OutOrStdout()

	cache, err := buildpipeline.OpenCache(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	return cleanProject(out, cache, output, all)
}

func cleanProject(out io.Writer, cache *buildpipeline.Cache, output string, all bool) error {
	if err := os.Remove(output); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %q: %w", output, err)
		}
		_, _ = fmt.Fprintf(out, "%s not found\n", displayPath(output))
	} else {
		_, _ = fmt.Fprintf(out, "removed %s\n", displayPath(output))
	}

	if all {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop cache: %w", err)
		}
		_, _ = fmt.Fprintf(out, "dropped cache %s\n", cache.Dir())
		return nil
	}
	if err := cache.Forget(buildpipeline.OutputKey(output)); err != nil {
		return fmt.Errorf("failed to forget cache entry: %w", err)
	}
	return nil
}

// displayPath prefers a path relative to the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
