// fy is a fast YAML 1.2 toolbox built on the fastyaml engine.
//
// It parses, formats, converts and lints YAML documents:
//   - Strict parsing with precise error locations
//   - Canonical formatting with configurable indent and width
//   - YAML <-> JSON conversion preserving key order
//   - Tolerant linting with rule-based diagnostics
//   - Parallel batch processing of whole directories
//
// Usage:
//
//	# Parse a file, reporting the first error with its location
//	fy parse config.yaml
//
//	# Reformat a file in place with 4-space indent
//	fy format --indent 4 --in-place config.yaml
//
//	# Convert to pretty-printed JSON
//	fy convert --to json --pretty config.yaml
//
//	# Lint a directory, JSON output for CI
//	fy lint --format json configs/
//
//	# Lint every YAML file under a tree on all CPUs
//	fy batch lint configs/
package main

func main() {
	Execute()
}
