package main

import "testing"

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default")
	}
	if GitCommit == "" {
		t.Error("GitCommit should have a default")
	}
	if BuildDate == "" {
		t.Error("BuildDate should have a default")
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"parse":   false,
		"format":  false,
		"convert": false,
		"lint":    false,
		"batch":   false,
		"version": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("command %q not registered", name)
		}
	}
}
