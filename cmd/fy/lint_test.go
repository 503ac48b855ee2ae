package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLintOneReturnsReport(t *testing.T) {
	origFormat := lintFlags.format
	lintFlags.format = "text"
	defer func() { lintFlags.format = origFormat }()

	out, errorCount, err := lintOne("test.yaml", []byte("a: 1\na: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if errorCount != 1 {
		t.Errorf("errorCount = %d, want 1", errorCount)
	}
	if !strings.HasPrefix(out, "test.yaml:\n") {
		t.Errorf("report missing file header: %q", out)
	}
	if !strings.Contains(out, "duplicate-key") {
		t.Errorf("report missing rule name: %q", out)
	}
}

func TestLintHonorsOutputFlag(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(input, []byte("a: 1\na: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	origOutput := outputPath
	origFormat := lintFlags.format
	outputPath = filepath.Join(dir, "report.txt")
	lintFlags.format = "text"
	defer func() {
		outputPath = origOutput
		lintFlags.format = origFormat
	}()

	err := runLint(lintCmd, []string{input})
	if err == nil || !strings.Contains(err.Error(), "error(s) found") {
		t.Fatalf("err = %v, want error count", err)
	}
	report, readErr := os.ReadFile(outputPath)
	if readErr != nil {
		t.Fatalf("report not written to --output: %v", readErr)
	}
	if !strings.Contains(string(report), "duplicate-key") {
		t.Errorf("report = %q, want duplicate-key diagnostic", report)
	}
	// file output never carries ANSI colors
	if strings.Contains(string(report), "\x1b[") {
		t.Errorf("report contains ANSI escapes: %q", report)
	}
}
