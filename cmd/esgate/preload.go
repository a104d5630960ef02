package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"esgate/internal/preload"
)

var preloadCmd = &cobra.Command{
	Use:   "preload [flags]",
	Short: "Print the DOM preload script",
	Long: `Print the script build --dom prepends to a bundle. It constructs a window
from the configured HTML document and copies its properties onto globalThis.`,
	Args: cobra.NoArgs,
	RunE: runPreload,
}

func init() {
	preloadCmd.Flags().String("html", "", "HTML file used as the document (default [dom] of esgate.toml)")
	preloadCmd.Flags().String("engine", "", "module that exports the window constructor (default happy-dom)")
	preloadCmd.Flags().String("export", "", "name of the exported constructor")
	preloadCmd.Flags().String("url", "", "document location (default http://localhost/)")
	preloadCmd.Flags().Bool("check", false, "compile and dry-run the script against a stand-in window")
}

func runPreload(cmd *cobra.Command, _ []string) error {
	htmlFile, err := cmd.Flags().GetString("html")
	if err != nil {
		return fmt.Errorf("failed to get html flag: %w", err)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	manifest, err := loadProjectManifest()
	if err != nil {
		return err
	}

	var opts preload.Options
	if manifest != nil {
		opts.Engine = manifest.Config.DOM.Engine
		opts.Export = manifest.Config.DOM.Export
		if opts.HTML, err = manifest.DocumentHTML(); err != nil {
			return err
		}
	}
	if htmlFile != "" {
		data, err := os.ReadFile(htmlFile)
		if err != nil {
			return fmt.Errorf("failed to read html file: %w", err)
		}
		opts.HTML = string(data)
	}
	for name, dst := range map[string]*string{"engine": &opts.Engine, "export": &opts.Export, "url": &opts.URL} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if *dst, err = cmd.Flags().GetString(name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}

	gen, err := preload.New(opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), gen.Source()); err != nil {
		return err
	}
	if !check {
		return nil
	}

	res, err := gen.DryRunWithTimeout(cmd.Context())
	if err != nil {
		return fmt.Errorf("preload check failed: %w", err)
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "preload ok: %d globals installed (%s), title %q\n",
			len(res.Globals), strings.Join(res.Globals, ", "), res.Title)
	}
	return nil
}
