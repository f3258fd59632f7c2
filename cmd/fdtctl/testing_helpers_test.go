package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/fdtkit/internal/testutil"
	"github.com/joshuapare/fdtkit/internal/testutil/fdtbuild"
)

// testBlobPath writes a small board blob to a temp file and returns its path
func testBlobPath(t *testing.T) string {
	t.Helper()
	blob := fdtbuild.New().
		Reserve(0x8000_0000, 0x10_0000).
		Reserve(0x9000_0000, 0x1000).
		Tree(&fdtbuild.Node{
			Props: []fdtbuild.NodeProp{
				{Name: "compatible", Value: []byte("acme,board\x00")},
				{Name: "#address-cells", Value: []byte{0, 0, 0, 1}},
				{Name: "#size-cells", Value: []byte{0, 0, 0, 1}},
			},
			Children: []*fdtbuild.Node{
				{Name: "aliases", Props: []fdtbuild.NodeProp{
					{Name: "serial0", Value: []byte("/soc/uart@1000\x00")},
				}},
				{Name: "chosen", Props: []fdtbuild.NodeProp{
					{Name: "bootargs", Value: []byte("console=ttyS0\x00")},
				}},
				{Name: "memory@80000000", Props: []fdtbuild.NodeProp{
					{Name: "device_type", Value: []byte("memory\x00")},
					{Name: "reg", Value: []byte{0x80, 0, 0, 0, 0x10, 0, 0, 0}},
				}},
				{Name: "soc", Children: []*fdtbuild.Node{
					{Name: "uart@1000", Props: []fdtbuild.NodeProp{
						{Name: "compatible", Value: []byte("ns16550a\x00")},
						{Name: "mac", Value: []byte{0xde, 0xad, 0xbe, 0xef, 0x01}},
					}},
				}},
			},
		}).
		Bytes()
	return testutil.WriteBlob(t, blob)
}

// writeBlob writes arbitrary bytes to a temp file and returns its path
func writeBlob(t *testing.T, data []byte) string {
	t.Helper()
	return testutil.WriteBlob(t, data)
}

// resetFlags restores every global flag to its default
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	maxDepth = 0
	treeDepth = 0
	treeProperties = true
	treeMaxBytes = 64
	propsMaxBytes = 64
	getHex = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large output cannot fill the pipe.
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return out, fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
