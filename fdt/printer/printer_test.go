package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fdtkit/fdt"
	"github.com/joshuapare/fdtkit/internal/testutil/fdtbuild"
	"github.com/joshuapare/fdtkit/pkg/types"
)

func openTestTree(t *testing.T) *fdt.Tree {
	t.Helper()
	blob := fdtbuild.New().
		Reserve(0x1000, 0x2000).
		Tree(&fdtbuild.Node{
			Props: []fdtbuild.NodeProp{
				{Name: "compatible", Value: []byte("acme,board\x00acme,soc\x00")},
				{Name: "#address-cells", Value: []byte{0, 0, 0, 1}},
			},
			Children: []*fdtbuild.Node{
				{Name: "cpus", Children: []*fdtbuild.Node{
					{Name: "cpu@0", Props: []fdtbuild.NodeProp{
						{Name: "reg", Value: []byte{0, 0, 0, 0}},
						{Name: "enable-method", Value: []byte("psci\x00")},
					}},
				}},
				{Name: "chosen", Props: []fdtbuild.NodeProp{
					{Name: "mac", Value: []byte{0xde, 0xad, 0xbe, 0xef, 0x01}},
					{Name: "label", Value: []byte("caf\xe9\x00")},
					{Name: "ranges"},
				}},
			},
		}).
		Bytes()
	tree, err := fdt.New(blob)
	require.NoError(t, err)
	return tree
}

func TestPrinter_PrintTree_Text(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	p := New(tree, &buf, DefaultOptions())
	require.NoError(t, p.PrintTree("/"))

	want := `/dts-v1/;

/memreserve/ 0x1000 0x2000;

/ {
    compatible = "acme,board", "acme,soc";
    #address-cells = <0x1>;

    cpus {

        cpu@0 {
            reg = <0x0>;
            enable-method = "psci";
        };
    };

    chosen {
        mac = [de ad be ef 01];
        label = "café";
        ranges;
    };
};
`
	require.Equal(t, want, buf.String())
}

func TestPrinter_PrintTree_MaxDepth(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxDepth = 2
	opts.ShowProperties = false
	opts.IndentSize = 2
	p := New(tree, &buf, opts)
	require.NoError(t, p.PrintTree("/cpus"))

	require.Equal(t, "cpus {\n\n  cpu@0 {\n  };\n};\n", buf.String())

	buf.Reset()
	opts.MaxDepth = 1
	require.NoError(t, New(tree, &buf, opts).PrintTree("/cpus"))
	require.Equal(t, "cpus {\n};\n", buf.String())
}

func TestPrinter_TruncatesBytes(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxValueBytes = 2
	require.NoError(t, New(tree, &buf, opts).PrintProperty("/chosen", "mac"))
	require.Equal(t, "mac = [de ad]; /* truncated, 5 total bytes */\n", buf.String())
}

func TestPrinter_PrintNode_Text(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	require.NoError(t, New(tree, &buf, DefaultOptions()).PrintNode("/cpus/cpu@0"))
	require.Equal(t, "cpu@0 {\n    reg = <0x0>;\n    enable-method = \"psci\";\n};\n", buf.String())
}

func TestPrinter_PrintTree_JSON(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(tree, &buf, opts).PrintTree("/"))

	var doc jsonNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "", doc.Name)
	require.Equal(t, "/", doc.Path)
	require.Len(t, doc.Properties, 2)
	require.Equal(t, "strings", doc.Properties[0].Kind)
	require.Equal(t, []any{"acme,board", "acme,soc"}, doc.Properties[0].Value)

	require.Len(t, doc.Children, 2)
	cpus := doc.Children[0]
	require.Equal(t, "/cpus", cpus.Path)
	require.Len(t, cpus.Children, 1)
	require.Equal(t, "/cpus/cpu@0", cpus.Children[0].Path)
	require.Equal(t, "cells", cpus.Children[0].Properties[0].Kind)

	chosen := doc.Children[1]
	require.Equal(t, "/chosen", chosen.Path)
	require.Equal(t, "bytes", chosen.Properties[0].Kind)
	require.Equal(t, "deadbeef01", chosen.Properties[0].Value)
	require.Equal(t, "empty", chosen.Properties[2].Kind)
	require.Nil(t, chosen.Properties[2].Value)
}

func TestPrinter_PrintProperty_JSON(t *testing.T) {
	tree := openTestTree(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(tree, &buf, opts).PrintProperty("/", "#address-cells"))

	var prop jsonProperty
	require.NoError(t, json.Unmarshal(buf.Bytes(), &prop))
	require.Equal(t, "#address-cells", prop.Name)
	require.Equal(t, 4, prop.Len)
	require.Equal(t, []any{float64(1)}, prop.Value)
}

func TestPrinter_NotFound(t *testing.T) {
	tree := openTestTree(t)
	p := New(tree, &bytes.Buffer{}, DefaultOptions())

	require.ErrorIs(t, p.PrintTree("/nope"), types.ErrNotFound)
	require.ErrorIs(t, p.PrintNode("/nope"), types.ErrNotFound)
	require.ErrorIs(t, p.PrintProperty("/", "nope"), types.ErrNotFound)
}

func TestClassify(t *testing.T) {
	cases := map[string]valueKind{
		"":                 kindEmpty,
		"abc\x00":          kindStrings,
		"a\x00b\x00":       kindStrings,
		"\x00\x00\x00\x01": kindCells,
		"a\x00\x00\x00":    kindCells,
		"ab":               kindBytes,
		"\x00":             kindBytes,
		"abc":              kindBytes,
	}
	for in, want := range cases {
		require.Equal(t, want, classify([]byte(in)), "%q", in)
	}
}

func TestFormatValue(t *testing.T) {
	tree := openTestTree(t)

	cases := []struct {
		path, prop string
		max        int
		want       string
		cut        bool
	}{
		{"/", "compatible", 0, `"acme,board", "acme,soc"`, false},
		{"/", "#address-cells", 0, "<0x1>", false},
		{"/chosen", "mac", 0, "[de ad be ef 01]", false},
		{"/chosen", "mac", 2, "[de ad]", true},
		{"/chosen", "ranges", 0, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.path+":"+tc.prop, func(t *testing.T) {
			n, err := tree.FindNode(tc.path)
			require.NoError(t, err)
			prop, err := n.Property(tc.prop)
			require.NoError(t, err)
			got, cut := FormatValue(prop, tc.max)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.cut, cut)
		})
	}
}
