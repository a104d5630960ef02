// Package main implements the esgate CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"esgate/internal/config"
	"esgate/internal/crash"
	"esgate/internal/trace"
	"esgate/internal/version"
)

const (
	exitFailure = 1
	// exitPanic matches EX_SOFTWARE.
	exitPanic = 70
)

var rootCmd = &cobra.Command{
	Use:   "esgate",
	Short: "Bundle JavaScript with bare module specifiers gated",
	Long: `esgate bundles JavaScript with esbuild while rejecting every import whose
specifier is not relative, rooted or a file:// URL.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareRun,
}

// session holds what prepareRun computed for the running command.
var session struct {
	rt      config.Runtime
	mode    config.ColorMode
	ready   bool
	tracer  trace.Tracer
	cleanup func()
}

// exitCodeError ends the process with code and no crash report. Commands
// return it after they have already printed their findings.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if session.cleanup != nil {
			session.cleanup()
		}
	}()
	defer func() {
		if v := recover(); v != nil {
			reporter().ReportPanic(v)
			code = exitPanic
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exit *exitCodeError
		if errors.As(err, &exit) {
			return exit.code
		}
		reporter().Report(err)
		return exitFailure
	}
	return 0
}

// prepareRun detects the runtime configuration and installs the tracer
// before any subcommand runs.
func prepareRun(cmd *cobra.Command, _ []string) error {
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := config.ParseColorMode(colorValue)
	if err != nil {
		return err
	}
	if !cmd.Root().PersistentFlags().Changed("color") {
		if m, ok := manifestColorMode(); ok {
			mode = m
		}
	}
	rt, err := config.Detect(config.DetectOptions{Mode: mode, Stream: os.Stderr})
	if err != nil {
		return err
	}
	session.rt, session.mode, session.ready = rt, mode, true
	color.NoColor = !rt.Rich()

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	session.tracer, session.cleanup = tracer, cleanup
	return nil
}

// reporter returns the crash reporter for stderr. Before prepareRun has
// succeeded it falls back to plain output.
func reporter() *crash.Reporter {
	rt := session.rt
	if !session.ready {
		rt = config.New("", false)
	}
	return crash.New(os.Stderr, rt).WithRings(trace.Rings(session.tracer)...)
}

// outputRich reports whether w should get styled output. The runtime is
// detected on stderr, so a stdout writer gets its own check.
func outputRich(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return session.mode == config.ColorOn
	}
	rt, err := config.Detect(config.DetectOptions{Mode: session.mode, Stream: f})
	return err == nil && rt.Rich()
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
