package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esgate/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new esgate project",
	Long: `Initialize a project by writing an esgate.toml manifest and a starter entry
point (src/main.js). If [path] is omitted, initializes the current directory.
A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const starterEntry = `import { greet } from "./greet.js";

document.body.textContent = greet(document.title || "esgate");
`

const starterModule = `export function greet(name) {
  return "Hello, " + name + "!";
}
`

// runInit refuses to overwrite an existing manifest. Existing source
// files are kept.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	data, err := project.Encode(project.Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	srcDir := filepath.Join(target, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", srcDir, err)
	}
	created := []string{project.ManifestName}
	for _, f := range []struct{ name, body string }{
		{"main.js", starterEntry},
		{"greet.js", starterModule},
	} {
		p := filepath.Join(srcDir, f.name)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.WriteFile(p, []byte(f.body), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		created = append(created, "src/"+f.name)
	}

	if quiet(cmd) {
		return nil
	}
	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized esgate project in %s\n", rel)
	for _, name := range created {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	return nil
}
