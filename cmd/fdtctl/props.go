package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/joshuapare/fdtkit/fdt/printer"
)

var propsMaxBytes int

func init() {
	rootCmd.AddCommand(newPropsCmd())
}

func newPropsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "props <dtb> <path>",
		Short: "List the properties of a node",
		Long: `The props command lists every property of one node with its length and
decoded value.

Example:
  fdtctl props board.dtb /memory@80000000
  fdtctl props board.dtb /chosen --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProps(args)
		},
	}
	cmd.Flags().
		IntVar(&propsMaxBytes, "max-bytes", printer.DefaultMaxValueBytes, "Byte-string display limit (0 = unlimited)")
	return cmd
}

type propRow struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Len    int    `json:"len"`
	Value  string `json:"value"`
}

func runProps(args []string) error {
	tree, err := openTree(args[0])
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer tree.Close()

	node, err := tree.FindNode(args[1])
	if err != nil {
		return fmt.Errorf("failed to find node %q: %w", args[1], err)
	}

	rows := []propRow{}
	it := node.Properties()
	for it.Next() {
		p := it.Property()
		text, cut := printer.FormatValue(p, propsMaxBytes)
		if cut {
			text += " ..."
		}
		rows = append(rows, propRow{Name: p.Name(), Offset: p.Offset(), Len: p.Len(), Value: text})
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("failed to read properties: %w", err)
	}

	if jsonOut {
		return printJSON(rows)
	}
	if quiet {
		return nil
	}
	if len(rows) == 0 {
		printInfo("No properties\n")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Offset", "Size", "Value"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Name, fmt.Sprintf("0x%x", r.Offset), humanize.IBytes(uint64(r.Len)), r.Value})
	}
	t.Render()
	return nil
}
