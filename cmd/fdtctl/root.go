package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshuapare/fdtkit/fdt"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	maxDepth int
)

var rootCmd = &cobra.Command{
	Use:   "fdtctl",
	Short: "Inspect flattened device tree blobs",
	Long: `fdtctl decodes and inspects flattened device tree blobs (.dtb files).
It prints the header, memory reservations, nodes and properties, and can
check a blob for structural problems without trusting any of its fields.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose || quiet {
			return nil
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		fdt.SetLogger(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVar(&maxDepth, "max-depth", 0, "Nesting limit for traversals (0 = library default)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openTree maps the blob at path and validates it.
func openTree(path string) (*fdt.Tree, error) {
	printVerbose("Opening blob: %s\n", path)
	var opts []fdt.Option
	if maxDepth > 0 {
		opts = append(opts, fdt.WithMaxDepth(maxDepth))
	}
	tree, err := fdt.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
