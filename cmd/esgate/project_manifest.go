package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"esgate/internal/buildpipeline"
	"esgate/internal/config"
	"esgate/internal/project"
)

const noManifestMessage = "no entry points given and no esgate.toml found\nplease pass the entry explicitly, e.g.:\n  esgate check src/main.js\nor create a manifest with esgate init"

func loadProjectManifest() (*project.Manifest, error) {
	m, ok, err := project.Load(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return m, nil
}

// manifestColorMode reads [output].color. A broken manifest is ignored
// here; the command that needs it reports the error.
func manifestColorMode() (config.ColorMode, bool) {
	m, err := loadProjectManifest()
	if err != nil || m == nil || m.Config.Output.Color == "" {
		return "", false
	}
	mode, err := config.ParseColorMode(m.Config.Output.Color)
	if err != nil {
		return "", false
	}
	return mode, true
}

// addPipelineFlags registers the flags check and build share.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("allow", nil, "bare specifiers let through the gate")
	cmd.Flags().StringSlice("external", nil, "specifiers left out of the bundle (bare ones also need --allow)")
	cmd.Flags().StringSlice("conditions", nil, "export conditions used by package resolution")
	cmd.Flags().String("platform", "", "target platform (browser|node|neutral)")
}

// pipelineOptions merges positional entries, flags and the manifest into
// pipeline options. Flags win over the manifest; allow and external lists are joined.
func pipelineOptions(cmd *cobra.Command, args []string) (buildpipeline.Options, *project.Manifest, error) {
	var opts buildpipeline.Options
	m, err := loadProjectManifest()
	if err != nil {
		return opts, nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return opts, nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	opts.BaseDir = wd
	if m != nil {
		opts.BaseDir = m.Root
		opts.Platform = m.Config.Build.Platform
		opts.Format = m.Config.Build.Format
		opts.Conditions = m.Config.Build.Conditions
		opts.Allow = slices.Clone(m.Config.Build.Allow)
		opts.External = slices.Clone(m.Config.Build.External)
	}

	switch {
	case len(args) > 0:
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return opts, m, fmt.Errorf("failed to resolve %q: %w", arg, err)
			}
			opts.Entries = append(opts.Entries, abs)
		}
	case m != nil:
		opts.Entries = m.Entries()
	default:
		return opts, nil, fmt.Errorf("%s", noManifestMessage)
	}

	if cmd.Flags().Changed("platform") {
		if opts.Platform, err = cmd.Flags().GetString("platform"); err != nil {
			return opts, m, fmt.Errorf("failed to get platform flag: %w", err)
		}
	}
	if cmd.Flags().Changed("conditions") {
		if opts.Conditions, err = cmd.Flags().GetStringSlice("conditions"); err != nil {
			return opts, m, fmt.Errorf("failed to get conditions flag: %w", err)
		}
	}
	allow, err := cmd.Flags().GetStringSlice("allow")
	if err != nil {
		return opts, m, fmt.Errorf("failed to get allow flag: %w", err)
	}
	opts.Allow = append(opts.Allow, allow...)
	external, err := cmd.Flags().GetStringSlice("external")
	if err != nil {
		return opts, m, fmt.Errorf("failed to get external flag: %w", err)
	}
	opts.External = append(opts.External, external...)
	opts.Runtime = session.rt
	return opts, m, nil
}

// maxDiagnostics prefers an explicit flag, then the manifest, then the
// flag default.
func maxDiagnostics(cmd *cobra.Command, m *project.Manifest) (int, error) {
	flags := cmd.Root().PersistentFlags()
	n, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !flags.Changed("max-diagnostics") && m != nil && m.Config.Output.MaxDiagnostics > 0 {
		n = m.Config.Output.MaxDiagnostics
	}
	if n < 0 {
		return 0, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return n, nil
}
