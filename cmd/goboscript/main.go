// Command goboscript compiles a directory of .gs sources into a Scratch 3
// project archive.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"goboscript/internal/buildpipeline"
	"goboscript/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goboscript",
		Short: "goboscript compiles text sources into Scratch 3 projects",
		Long:  `goboscript reads stage.gs and one .gs file per sprite and writes a .sb3 archive Scratch and TurboWarp can open.`,
		// build prints its own diagnostics; main prints fatal errors once
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.Version = version.Version
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newBuildCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newCompletionsCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress warnings and non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.String("diagnostics-format", "pretty", "diagnostics output format (pretty|json)")
	pf.String("trace", "", "write trace events to PATH (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace event format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to PATH")
	pf.String("mem-profile", "", "write a heap profile to PATH on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to PATH")
	return root
}

// main exits 1 on any error. A build that only reported diagnostics has
// already printed them, so only fatal errors are printed here.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, buildpipeline.ErrDiagnostics) {
			printFatal(os.Stderr, err, colorEnabled(rootCmd, os.Stderr))
		}
		os.Exit(1)
	}
}

func printFatal(w io.Writer, err error, useColor bool) {
	c := color.New(color.FgRed, color.Bold)
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprintf(w, "%s: %v\n", c.Sprint("Error"), err)
}

// colorEnabled reads --color; auto means "f is a terminal".
func colorEnabled(cmd *cobra.Command, f *os.File) bool {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch value {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
