package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"esgate/internal/buildpipeline"
	"esgate/internal/diag"
	"esgate/internal/diagfmt"
	"esgate/internal/style"
	"esgate/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [entry...]",
	Short: "Report every bare import reachable from the entry points",
	Long: `Bundle each entry point in memory with the specifier gate installed and
report every rejected import. Entries default to [build].entry of esgate.toml.
Exits with status 1 when any diagnostic is an error.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|msgpack|sarif)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel entry points (0=auto)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("no-context", false, "omit the source line under each diagnostic")
	addPipelineFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "short", "json", "msgpack", "sarif":
	default:
		return fmt.Errorf("unknown format %q (must be pretty, short, json, msgpack or sarif)", format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	noContext, err := cmd.Flags().GetBool("no-context")
	if err != nil {
		return fmt.Errorf("failed to get no-context flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts, manifest, err := pipelineOptions(cmd, args)
	if err != nil {
		return err
	}
	limit, err := maxDiagnostics(cmd, manifest)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rich := format == "pretty" && outputRich(out)
	// machine formats and redirected output carry raw messages
	opts.Table = style.NewTable(rich)
	req := &buildpipeline.CheckRequest{Options: opts, Jobs: jobs, MaxDiagnostics: limit}

	var res buildpipeline.CheckResult
	if shouldUseTUI(mode, format != "pretty" && format != "short") {
		res, err = runCheckWithUI(cmd.Context(), "esgate check", req)
	} else {
		res, err = buildpipeline.Check(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if err := writeDiagnostics(out, format, res.Bag, diagOutput{
		baseDir:  opts.BaseDir,
		pathMode: pathMode,
		max:      limit,
		context:  !noContext,
		color:    rich,
		args:     os.Args[1:],
	}); err != nil {
		return err
	}

	if format == "pretty" && !quiet(cmd) && res.Bag.Len() == 0 {
		fmt.Fprintf(out, "no reserved specifiers in %d entry point(s)\n", len(res.Files))
	}
	if showTimings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if res.Bag.HasErrors() {
		return &exitCodeError{code: exitFailure}
	}
	return nil
}

type diagOutput struct {
	baseDir  string
	pathMode diagfmt.PathMode
	max      int
	context  bool
	color    bool
	args     []string
}

func writeDiagnostics(w io.Writer, format string, bag *diag.Bag, o diagOutput) error {
	switch format {
	case "pretty":
		diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:     o.color,
			PathMode:  o.pathMode,
			BaseDir:   o.baseDir,
			Context:   o.context,
			ShowNotes: true,
			Max:       o.max,
		})
		return nil
	case "short":
		_, err := io.WriteString(w, diag.FormatShort(bag.Items(), o.baseDir))
		return err
	case "json":
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			BaseDir:          o.baseDir,
			Max:              o.max,
			IncludeNotes:     true,
		})
	case "msgpack":
		return diagfmt.Msgpack(w, bag, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			BaseDir:          o.baseDir,
			Max:              o.max,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, o.baseDir, diagfmt.SarifRunMeta{
			ToolName:       "esgate",
			ToolVersion:    version.Version,
			InvocationArgs: o.args,
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
