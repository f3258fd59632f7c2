package main

import (
	"testing"
)

func TestGetCommand(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		prop        string
		hex         bool
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "string property",
			path:        "/",
			prop:        "compatible",
			wantContain: []string{`compatible = "acme,board";`},
		},
		{
			name:        "cell property",
			path:        "/",
			prop:        "#size-cells",
			wantContain: []string{"#size-cells = <0x1>;"},
		},
		{
			name:        "hex dump",
			path:        "/soc/uart@1000",
			prop:        "mac",
			hex:         true,
			wantContain: []string{"00000000  de ad be ef 01"},
		},
		{
			name:        "via alias",
			path:        "serial0",
			prop:        "compatible",
			wantContain: []string{"ns16550a"},
		},
		{
			name:        "JSON output",
			path:        "/chosen",
			prop:        "bootargs",
			wantJSON:    true,
			wantContain: []string{"console=ttyS0"},
		},
		{
			name:    "missing property",
			path:    "/chosen",
			prop:    "stdout-path",
			wantErr: true,
		},
		{
			name:    "missing node",
			path:    "/nope",
			prop:    "compatible",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON
			getHex = tt.hex

			args := []string{testBlobPath(t), tt.path, tt.prop}
			output, err := captureOutput(t, func() error {
				return runGet(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runGet() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
				return
			}
			if tt.wantJSON && !tt.wantErr {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}
