package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/joshuapare/fdtkit/fdt"
	"github.com/joshuapare/fdtkit/fdt/verify"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dtb>",
		Short: "Show the header and summary counts of a blob",
		Long: `The info command validates a device tree blob and displays its header
fields along with node, property and reservation counts.

Example:
  fdtctl info board.dtb
  fdtctl info board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoOutput struct {
	File   string           `json:"file"`
	Header fdt.Header       `json:"header"`
	Stats  verify.TreeStats `json:"stats"`
}

func runInfo(args []string) error {
	path := args[0]

	tree, err := openTree(path)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer tree.Close()

	stats, err := verify.Stats(tree)
	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}
	h := tree.Header()

	if jsonOut {
		return printJSON(infoOutput{File: path, Header: h, Stats: stats})
	}
	if quiet {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("%s", path)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Magic", fmt.Sprintf("0x%08x", h.Magic)},
		{"Total size", fmt.Sprintf("%d (%s)", h.TotalSize, humanize.IBytes(uint64(h.TotalSize)))},
		{"Version", h.Version},
		{"Last compatible version", h.LastCompVersion},
		{"Boot CPU", h.BootCPUIDPhys},
		{"Structure block", blockRange(h.OffDtStruct, h.SizeDtStruct)},
		{"Strings block", blockRange(h.OffDtStrings, h.SizeDtStrings)},
		{"Reservation block", fmt.Sprintf("0x%x", h.OffMemRsvmap)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Nodes", stats.Nodes},
		{"Properties", stats.Properties},
		{"Value bytes", humanize.IBytes(uint64(stats.ValueBytes))},
		{"Max depth", stats.MaxDepth},
		{"Reservations", stats.Reserved},
	})
	t.Render()
	return nil
}

func blockRange(off, size uint32) string {
	return fmt.Sprintf("0x%x +%s", off, humanize.IBytes(uint64(size)))
}
