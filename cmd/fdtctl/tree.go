package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/fdtkit/fdt/printer"
)

var (
	treeDepth      int
	treeProperties bool
	treeMaxBytes   int
)

func init() {
	rootCmd.AddCommand(newTreeCmd())
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <dtb> [path]",
		Short: "Print the node tree as DTS-like source",
		Long: `The tree command prints the subtree at path (default "/") as DTS-like
source text, or as nested JSON with --json. Paths may start with an alias
name from /aliases.

Example:
  fdtctl tree board.dtb
  fdtctl tree board.dtb /cpus --depth 2
  fdtctl tree board.dtb serial0 --props=false`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum levels to print (0 = unlimited)")
	cmd.Flags().BoolVar(&treeProperties, "props", true, "Include properties")
	cmd.Flags().
		IntVar(&treeMaxBytes, "max-bytes", printer.DefaultMaxValueBytes, "Byte-string display limit (0 = unlimited)")
	return cmd
}

func runTree(args []string) error {
	path := "/"
	if len(args) > 1 {
		path = args[1]
	}

	tree, err := openTree(args[0])
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer tree.Close()

	if quiet {
		_, err := tree.FindNode(path)
		return err
	}

	opts := printer.DefaultOptions()
	opts.MaxDepth = treeDepth
	opts.ShowProperties = treeProperties
	opts.MaxValueBytes = treeMaxBytes
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(tree, os.Stdout, opts).PrintTree(path)
}
