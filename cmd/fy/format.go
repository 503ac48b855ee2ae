package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastyaml/fastyaml/pkg/yaml"
	"github.com/fastyaml/fastyaml/pkg/yaml/emitter"
)

var formatFlags struct {
	indent        int
	width         int
	sortKeys      bool
	flow          bool
	explicitStart bool
	inPlace       bool
}

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Reformat YAML canonically",
	Long: `Parse YAML and emit it back in a canonical form. Strings that
would read back as another type are quoted, floats keep their decimal
point, and mapping order is preserved unless --sort-keys is given.

Examples:
  # Reformat to stdout
  fy format config.yaml

  # Rewrite the file with sorted keys
  fy format --sort-keys --in-place config.yaml

  # Flow style, 4-space indent
  fy format --flow --indent 4 config.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().IntVar(&formatFlags.indent, "indent", 2, "spaces per nesting level (1-9)")
	formatCmd.Flags().IntVar(&formatFlags.width, "width", 80, "soft line width for flow collections")
	formatCmd.Flags().BoolVar(&formatFlags.sortKeys, "sort-keys", false, "sort mapping keys")
	formatCmd.Flags().BoolVar(&formatFlags.flow, "flow", false, "emit collections in flow style")
	formatCmd.Flags().BoolVar(&formatFlags.explicitStart, "explicit-start", false, "start the document with ---")
	formatCmd.Flags().BoolVar(&formatFlags.inPlace, "in-place", false, "rewrite the input file")
}

func runFormat(cmd *cobra.Command, args []string) error {
	src, name, err := readInput(args)
	if err != nil {
		return err
	}
	if formatFlags.inPlace && name == "<stdin>" {
		return fmt.Errorf("--in-place requires a file argument")
	}

	docs, err := yaml.ParseAllSlice(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	opts := emitter.Options{
		Indent:           formatFlags.indent,
		Width:            formatFlags.width,
		SortKeys:         formatFlags.sortKeys,
		DefaultFlowStyle: formatFlags.flow,
		ExplicitStart:    formatFlags.explicitStart,
	}
	var out string
	if len(docs) == 1 {
		out, err = yaml.Serialize(docs[0], opts)
	} else {
		out, err = yaml.SerializeAll(docs, opts)
	}
	if err != nil {
		return err
	}

	if formatFlags.inPlace {
		return os.WriteFile(name, []byte(out), 0o644)
	}
	return writeOutput(out)
}
