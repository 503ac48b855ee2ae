package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fastyaml/fastyaml/pkg/yaml"
	"github.com/fastyaml/fastyaml/pkg/yaml/lint"
)

var lintFlags struct {
	format         string
	rules          []string
	maxDiagnostics int
	watch          bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [path...]",
	Short: "Lint YAML files",
	Long: `Analyze YAML files tolerantly, reporting every problem found:
syntax errors, duplicate keys, bad aliases, and style issues such as
inconsistent indentation, tab indentation, trailing whitespace and
implicit null values. A syntax error in one document never hides
problems in its sibling documents.

Paths may be files or directories; directories are searched for
*.yaml and *.yml files. With no path, stdin is linted.

Examples:
  # Lint one file
  fy lint config.yaml

  # Only structural rules, JSON output for CI
  fy lint --rules syntax,duplicate-key --format json configs/

  # Re-lint on every change
  fy lint --watch config.yaml`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().StringSliceVar(&lintFlags.rules, "rules", nil, "comma-separated rules to enable (default: all)")
	lintCmd.Flags().IntVar(&lintFlags.maxDiagnostics, "max-diagnostics", 0, "cap the number of diagnostics (0 = unlimited)")
	lintCmd.Flags().BoolVar(&lintFlags.watch, "watch", false, "watch files and re-lint on change")
}

func lintConfig() lint.Config {
	cfg := lint.Config{MaxDiagnostics: lintFlags.maxDiagnostics}
	if len(lintFlags.rules) > 0 {
		cfg.EnabledRules = make(map[string]bool, len(lintFlags.rules))
		for _, r := range lintFlags.rules {
			cfg.EnabledRules[strings.TrimSpace(r)] = true
		}
	}
	return cfg
}

func useColors() bool {
	return !noColor && outputPath == "" && isatty.IsTerminal(os.Stdout.Fd())
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.watch && len(args) == 0 {
		return fmt.Errorf("--watch requires file or directory arguments")
	}

	files, err := collectYAMLFiles(args)
	if err != nil {
		return err
	}
	if lintFlags.watch {
		return watchAndLint(files)
	}

	var (
		errorCount int
		report     strings.Builder
	)
	if len(args) == 0 {
		src, _, err := readInput(nil)
		if err != nil {
			return err
		}
		out, n, err := lintOne("<stdin>", src)
		if err != nil {
			return err
		}
		report.WriteString(out)
		errorCount = n
	} else {
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			out, n, err := lintOne(file, src)
			if err != nil {
				return err
			}
			report.WriteString(out)
			errorCount += n
		}
	}
	if !quiet && report.Len() > 0 {
		if err := writeOutput(report.String()); err != nil {
			return err
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d error(s) found", errorCount)
	}
	return nil
}

// lintOne lints one source and renders its report, returning the
// report text and the number of error-severity diagnostics.
func lintOne(name string, src []byte) (string, int, error) {
	diags := yaml.Lint(src, lintConfig())
	if len(diags) == 0 {
		if verbose {
			return fmt.Sprintf("%s: clean\n", name), 0, nil
		}
		return "", 0, nil
	}
	out, err := yaml.FormatDiagnostics(diags, src, lint.Format(lintFlags.format), useColors())
	if err != nil {
		return "", 0, err
	}
	var sb strings.Builder
	if lintFlags.format != "json" {
		fmt.Fprintf(&sb, "%s:\n", name)
	}
	sb.WriteString(out)
	errors := 0
	for _, d := range diags {
		if d.Severity == lint.SeverityError {
			errors++
		}
	}
	return sb.String(), errors, nil
}

// collectYAMLFiles expands the path arguments: files pass through,
// directories are walked for *.yaml and *.yml.
func collectYAMLFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".yaml", ".yml":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// watchAndLint lints the files once, then re-lints whichever file
// changes until interrupted.
func watchAndLint(files []string) error {
	logger := newLogger()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, file := range files {
		if _, err := lintFile(file); err != nil {
			return err
		}
		if err := watcher.Add(file); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", "files", len(files))

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("file changed", "path", ev.Name)
			if _, err := lintFile(ev.Name); err != nil {
				logger.Error("lint failed", "path", ev.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

func lintFile(path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	out, n, err := lintOne(path, src)
	if err != nil {
		return 0, err
	}
	if !quiet && out != "" {
		if err := writeOutput(out); err != nil {
			return n, err
		}
	}
	return n, nil
}
