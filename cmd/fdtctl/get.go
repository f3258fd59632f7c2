package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/fdtkit/fdt/printer"
)

var getHex bool

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <dtb> <path> <property>",
		Short: "Print one property value",
		Long: `The get command prints a single property of the node at path.

Example:
  fdtctl get board.dtb / compatible
  fdtctl get board.dtb /memory reg --hex`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	cmd.Flags().BoolVar(&getHex, "hex", false, "Print the raw value as a hex dump")
	return cmd
}

func runGet(args []string) error {
	tree, err := openTree(args[0])
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer tree.Close()

	path, name := args[1], args[2]

	if getHex {
		node, err := tree.FindNode(path)
		if err != nil {
			return fmt.Errorf("failed to find node %q: %w", path, err)
		}
		prop, err := node.Property(name)
		if err != nil {
			return fmt.Errorf("failed to get property %q: %w", name, err)
		}
		printInfo("%s", hex.Dump(prop.Value()))
		return nil
	}

	opts := printer.DefaultOptions()
	opts.MaxValueBytes = 0
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	return printer.New(tree, out, opts).PrintProperty(path, name)
}
