package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"esgate/internal/buildpipeline"
	"esgate/internal/diag"
	"esgate/internal/resolve"
	"esgate/internal/style"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <specifier>...",
	Short: "Resolve literal specifiers through the gate",
	Long: `Run each specifier through the specifier gate and the filesystem resolver
and print the resolved file URL or the reason it was refused.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("parent", "", "importing module as a file URL or path (default: working directory)")
	resolveCmd.Flags().StringSlice("conditions", nil, "export conditions passed to the resolver")
	resolveCmd.Flags().StringSlice("allow", nil, "bare specifiers let through the gate")
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type resolveRecord struct {
	Specifier string `json:"specifier"`
	Class     string `json:"class"`
	URL       string `json:"url,omitempty"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	parent, err := cmd.Flags().GetString("parent")
	if err != nil {
		return fmt.Errorf("failed to get parent flag: %w", err)
	}
	conditions, err := cmd.Flags().GetStringSlice("conditions")
	if err != nil {
		return fmt.Errorf("failed to get conditions flag: %w", err)
	}
	allow, err := cmd.Flags().GetStringSlice("allow")
	if err != nil {
		return fmt.Errorf("failed to get allow flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	parentURL, err := parentToURL(parent)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	table := style.NewTable(format == "pretty" && outputRich(out))
	gate := resolve.NewGate(session.rt, resolve.WithAllow(allow...), resolve.WithTable(table))
	results := buildpipeline.Specifiers(cmd.Context(), gate, resolve.NewFileResolver().Resolve,
		resolve.Context{ParentURL: parentURL, Conditions: conditions}, args)

	if format == "json" {
		err = writeResolveJSON(out, results)
	} else {
		err = writeResolvePretty(out, results)
	}
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			return &exitCodeError{code: exitFailure}
		}
	}
	return nil
}

// parentToURL accepts a file URL as is and turns a path into one.
func parentToURL(parent string) (string, error) {
	if parent == "" || strings.Contains(parent, "://") {
		return parent, nil
	}
	abs, err := filepath.Abs(parent)
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent %q: %w", parent, err)
	}
	return resolve.FileURL(abs), nil
}

func toResolveRecord(r buildpipeline.SpecifierResult) resolveRecord {
	rec := resolveRecord{Specifier: r.Specifier, Class: r.Class.String(), URL: r.URL}
	if r.Err != nil {
		rec.Error = r.Err.Error()
		if code := diag.CodeOf(r.Err); code != diag.UnknownCode {
			rec.Code = code.ID()
		}
	}
	return rec
}

func writeResolvePretty(w io.Writer, results []buildpipeline.SpecifierResult) error {
	for _, r := range results {
		rec := toResolveRecord(r)
		var err error
		if rec.Error != "" {
			_, err = fmt.Fprintf(w, "%s (%s): %s\n", rec.Specifier, rec.Class, rec.Error)
		} else {
			_, err = fmt.Fprintf(w, "%s (%s) -> %s\n", rec.Specifier, rec.Class, rec.URL)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeResolveJSON(w io.Writer, results []buildpipeline.SpecifierResult) error {
	records := make([]resolveRecord, 0, len(results))
	for _, r := range results {
		records = append(records, toResolveRecord(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
