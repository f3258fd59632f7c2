package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/joshuapare/fdtkit/fdt/verify"
	"github.com/joshuapare/fdtkit/internal/mmfile"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dtb>",
		Short: "Check a blob for structural problems",
		Long: `The validate command checks the header, block layout, reservation
list and token stream of a device tree blob and reports every problem it
finds. It exits non-zero when the blob is invalid.

Example:
  fdtctl validate board.dtb
  fdtctl validate board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

type problemOutput struct {
	Check   string         `json:"check"`
	Message string         `json:"message"`
	Offset  int            `json:"offset"`
	Details map[string]any `json:"details,omitempty"`
}

type validateOutput struct {
	File     string          `json:"file"`
	Valid    bool            `json:"valid"`
	Problems []problemOutput `json:"problems"`
}

func runValidate(args []string) error {
	path := args[0]

	printVerbose("Validating blob: %s\n", path)

	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	if unmap != nil {
		defer unmap()
	}

	problems := multierr.Errors(verify.Blob(data))
	result := validateOutput{File: path, Valid: len(problems) == 0, Problems: []problemOutput{}}
	for _, p := range problems {
		var ve *verify.ValidationError
		if errors.As(p, &ve) {
			result.Problems = append(result.Problems, problemOutput{
				Check: ve.Type, Message: ve.Message, Offset: ve.Offset, Details: ve.Details,
			})
			continue
		}
		result.Problems = append(result.Problems, problemOutput{Message: p.Error(), Offset: -1})
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printInfo("\nValidating %s...\n\n", path)
		for _, p := range problems {
			printInfo("  ✗ %v\n", p)
		}
		if result.Valid {
			printInfo("  ✓ Header valid\n")
			printInfo("  ✓ Blocks aligned and disjoint\n")
			printInfo("  ✓ Reservation list terminated\n")
			printInfo("  ✓ Structure well formed\n")
		}
		printInfo("\n")
	}

	if !result.Valid {
		return fmt.Errorf("%s: %d problem(s) found", path, len(problems))
	}
	return nil
}
