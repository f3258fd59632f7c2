package main

import (
	"testing"

	"github.com/joshuapare/fdtkit/fdt"
)

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name           string
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "table output",
			wantContain: []string{
				"0xd00dfeed", "Version", "17", "Nodes", "6",
				"Properties", "9", "Reservations", "2",
			},
		},
		{
			name:        "JSON output",
			wantJSON:    true,
			wantContain: []string{`"Nodes": 6`, `"Properties": 9`, `"Reserved": 2`, `"Version": 17`},
			wantNotContain: []string{"Field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			args := []string{testBlobPath(t)}
			output, err := captureOutput(t, func() error {
				return runInfo(args)
			})
			if err != nil {
				t.Fatalf("runInfo() error = %v\nOutput: %s", err, output)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestInfoCommand_BadBlob(t *testing.T) {
	resetFlags()
	args := []string{writeBlob(t, []byte("not a device tree blob at all, no magic here"))}
	_, err := captureOutput(t, func() error {
		return runInfo(args)
	})
	if err == nil {
		t.Fatal("expected error for blob without magic")
	}
}

func TestInfoCommand_Quiet(t *testing.T) {
	resetFlags()
	quiet = true
	args := []string{testBlobPath(t)}
	output, err := captureOutput(t, func() error {
		return runInfo(args)
	})
	if err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}
	if output != "" {
		t.Errorf("expected no output in quiet mode, got %q", output)
	}
}

func TestRootCommand_Execute(t *testing.T) {
	resetFlags()
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		fdt.SetLogger(nil)
		resetFlags()
	})

	rootCmd.SetArgs([]string{"info", "--json", "-v", testBlobPath(t)})
	output, err := captureOutput(t, func() error {
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("Execute() error = %v\nOutput: %s", err, output)
	}
	assertContains(t, output, []string{"Opening blob:", `"Nodes": 6`})
}
