package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/joshuapare/fdtkit/fdt"
)

func init() {
	rootCmd.AddCommand(newRsvmapCmd())
}

func newRsvmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsvmap <dtb>",
		Short: "List memory reservation entries",
		Long: `The rsvmap command lists the physical memory ranges the blob reserves
from use by the operating system.

Example:
  fdtctl rsvmap board.dtb
  fdtctl rsvmap board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRsvmap(args)
		},
	}
	return cmd
}

func runRsvmap(args []string) error {
	tree, err := openTree(args[0])
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer tree.Close()

	entries := tree.AppendReservations(nil)
	if jsonOut {
		if entries == nil {
			entries = []fdt.Reservation{}
		}
		return printJSON(entries)
	}
	if len(entries) == 0 {
		printInfo("No memory reservations\n")
		return nil
	}
	if quiet {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Address", "Size", "End"})
	for i, r := range entries {
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("0x%016x", r.Address),
			fmt.Sprintf("0x%x (%s)", r.Size, humanize.IBytes(r.Size)),
			fmt.Sprintf("0x%016x", r.Address+r.Size),
		})
	}
	t.Render()
	return nil
}
