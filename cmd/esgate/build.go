package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"esgate/internal/buildpipeline"
	"esgate/internal/diagfmt"
	"esgate/internal/preload"
	"esgate/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [entry]",
	Short: "Bundle an entry point with the specifier gate installed",
	Long: `Bundle one entry point with esbuild. Every import must be relative, rooted
or a file:// URL; bare specifiers fail the build. With --dom the bundle starts
with a preload script that installs a DOM window on the global object.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("outfile", "o", "", "output file (default dist/bundle.js)")
	buildCmd.Flags().String("format", "", "bundle format (esm|iife|cjs)")
	buildCmd.Flags().Bool("dom", false, "prepend the DOM preload script")
	buildCmd.Flags().String("html", "", "HTML file used as the preload document (implies --dom)")
	buildCmd.Flags().Bool("minify", false, "minify the bundle")
	buildCmd.Flags().Bool("sourcemap", false, "write a linked source map")
	buildCmd.Flags().Bool("dry-run", false, "bundle without writing the output")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addPipelineFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	outfile, err := cmd.Flags().GetString("outfile")
	if err != nil {
		return fmt.Errorf("failed to get outfile flag: %w", err)
	}
	minify, err := cmd.Flags().GetBool("minify")
	if err != nil {
		return fmt.Errorf("failed to get minify flag: %w", err)
	}
	sourcemap, err := cmd.Flags().GetBool("sourcemap")
	if err != nil {
		return fmt.Errorf("failed to get sourcemap flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts, manifest, err := pipelineOptions(cmd, args)
	if err != nil {
		return err
	}
	if len(opts.Entries) != 1 {
		return fmt.Errorf("build takes one entry point, esgate.toml lists %d", len(opts.Entries))
	}
	if cmd.Flags().Changed("format") {
		if opts.Format, err = cmd.Flags().GetString("format"); err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if outfile == "" && manifest != nil && manifest.Config.Build.Outfile != "" {
		outfile = filepath.Join(manifest.Root, filepath.FromSlash(manifest.Config.Build.Outfile))
	} else if outfile != "" {
		if outfile, err = filepath.Abs(outfile); err != nil {
			return fmt.Errorf("failed to resolve outfile: %w", err)
		}
	}

	gen, err := buildPreload(cmd, manifest)
	if err != nil {
		return err
	}
	if gen != nil {
		// the banner requires the engine by its bare name
		opts.Allow = append(opts.Allow, gen.Options().Engine)
	}

	req := &buildpipeline.BuildRequest{
		Options:   opts,
		Outfile:   outfile,
		Preload:   gen,
		Minify:    minify,
		Sourcemap: sourcemap,
		DryRun:    dryRun,
	}
	var res buildpipeline.BuildResult
	if shouldUseTUI(mode, false) {
		res, err = runBuildWithUI(cmd.Context(), "esgate build", req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}

	limit, limitErr := maxDiagnostics(cmd, manifest)
	if limitErr != nil {
		return limitErr
	}
	if res.Bag != nil && res.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, diagfmt.PrettyOpts{
			Color:     session.rt.Rich(),
			BaseDir:   opts.BaseDir,
			Context:   true,
			ShowNotes: true,
			Max:       limit,
		})
	}
	if errors.Is(err, buildpipeline.ErrDiagnostics) {
		return &exitCodeError{code: exitFailure}
	}
	if err != nil {
		return err
	}

	if !quiet(cmd) {
		verb := "wrote"
		if dryRun {
			verb = "would write"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", verb, displayPath(res.OutputPath, opts.BaseDir), res.Bytes)
	}
	if showTimings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	return nil
}

// buildPreload returns the preload generator when DOM injection is on,
// from --dom/--html or [dom].enabled.
func buildPreload(cmd *cobra.Command, m *project.Manifest) (*preload.Generator, error) {
	domFlag, err := cmd.Flags().GetBool("dom")
	if err != nil {
		return nil, fmt.Errorf("failed to get dom flag: %w", err)
	}
	htmlFile, err := cmd.Flags().GetString("html")
	if err != nil {
		return nil, fmt.Errorf("failed to get html flag: %w", err)
	}
	enabled := domFlag || htmlFile != "" || (m != nil && m.Config.DOM.Enabled)
	if !enabled {
		return nil, nil
	}

	var popts preload.Options
	if m != nil {
		popts.Engine = m.Config.DOM.Engine
		popts.Export = m.Config.DOM.Export
		if popts.HTML, err = m.DocumentHTML(); err != nil {
			return nil, err
		}
	}
	if htmlFile != "" {
		data, err := os.ReadFile(htmlFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read html file: %w", err)
		}
		popts.HTML = string(data)
	}
	return preload.New(popts)
}

func displayPath(p, base string) string {
	if rel, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return p
}
