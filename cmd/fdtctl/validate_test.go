package main

import (
	"os"
	"testing"

	"github.com/joshuapare/fdtkit/internal/testutil/fdtbuild"
)

func TestValidateCommand(t *testing.T) {
	badMagic := func(t *testing.T) string {
		blob := fdtbuild.Empty()
		blob[0] = 0
		return writeBlob(t, blob)
	}

	tests := []struct {
		name           string
		path           func(t *testing.T) string
		wantJSON       bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "valid blob",
			path:           testBlobPath,
			wantContain:    []string{"✓ Header valid", "✓ Structure well formed"},
			wantNotContain: []string{"✗"},
		},
		{
			name:        "valid blob as JSON",
			path:        testBlobPath,
			wantJSON:    true,
			wantContain: []string{`"valid": true`, `"problems": []`},
		},
		{
			name:           "bad magic",
			path:           badMagic,
			wantErr:        true,
			wantContain:    []string{"✗", "Header"},
			wantNotContain: []string{"✓"},
		},
		{
			name:        "bad magic as JSON",
			path:        badMagic,
			wantJSON:    true,
			wantErr:     true,
			wantContain: []string{`"valid": false`, `"check": "Header"`},
		},
		{
			name: "truncated file",
			path: func(t *testing.T) string {
				return writeBlob(t, fdtbuild.Empty()[:16])
			},
			wantErr:     true,
			wantContain: []string{"blob too small"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			args := []string{tt.path(t)}
			output, err := captureOutput(t, func() error {
				return runValidate(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runValidate() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
				return
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	resetFlags()
	args := []string{os.DevNull + ".missing"}
	_, err := captureOutput(t, func() error {
		return runValidate(args)
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
