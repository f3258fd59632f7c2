package main

import (
	"testing"

	"github.com/joshuapare/fdtkit/internal/testutil/fdtbuild"
)

func TestRsvmapCommand(t *testing.T) {
	tests := []struct {
		name        string
		path        func(t *testing.T) string
		wantJSON    bool
		wantContain []string
	}{
		{
			name: "table output",
			path: testBlobPath,
			wantContain: []string{
				"0x0000000080000000", "1.0 MiB", "0x0000000080100000",
				"0x0000000090000000", "4.0 KiB",
			},
		},
		{
			name:        "JSON output",
			path:        testBlobPath,
			wantJSON:    true,
			wantContain: []string{`"Address": 2147483648`, `"Size": 4096`},
		},
		{
			name: "no reservations",
			path: func(t *testing.T) string {
				return writeBlob(t, fdtbuild.Empty())
			},
			wantContain: []string{"No memory reservations"},
		},
		{
			name: "no reservations as JSON",
			path: func(t *testing.T) string {
				return writeBlob(t, fdtbuild.Empty())
			},
			wantJSON:    true,
			wantContain: []string{"[]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			args := []string{tt.path(t)}
			output, err := captureOutput(t, func() error {
				return runRsvmap(args)
			})
			if err != nil {
				t.Fatalf("runRsvmap() error = %v\nOutput: %s", err, output)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}
