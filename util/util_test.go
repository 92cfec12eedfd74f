package util_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/util"
)

func TestTerminalPrinter_NotLive(t *testing.T) {
	out := new(bytes.Buffer)
	p := util.NewTerminalPrinterTo(out, time.Millisecond, false)
	p.Write("Run 0\n")
	a := p.NewOutput()
	b := p.NewOutput()
	p.Start(context.Background())

	a.Set("first")
	require.True(t, b.TrySet("second"))
	require.Equal(t, "Run 0\n", out.String())

	p.Stop()
	p.Stop()
	require.Equal(t, "Run 0\nfirst\nsecond\n", out.String())
}

func TestTerminalPrinter_Live(t *testing.T) {
	out := new(bytes.Buffer)
	p := util.NewTerminalPrinterTo(out, time.Millisecond, true)
	status := p.NewOutput()
	p.Start(context.Background())
	status.Set("Iteration 3: max_delta=0.5")
	p.Stop()
	require.True(t, strings.Contains(out.String(), "Iteration 3: max_delta=0.5"))
}

func TestSaveReadJson(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	in := map[string][]int{"a": {1, 2}}
	require.NoError(t, util.SaveJson(p, in))

	var out map[string][]int
	require.NoError(t, util.ReadJson(p, &out))
	require.Equal(t, in, out)
	require.Error(t, util.ReadJson(filepath.Join(t.TempDir(), "missing.json"), &out))
}

func TestCopySlices(t *testing.T) {
	ints := []int{1, 2, 3}
	c := util.CopyIntSlice(ints)
	c[0] = 9
	require.Equal(t, 1, ints[0])

	floats := []float64{0.5}
	f := util.CopyFloatSlice(floats)
	f[0] = 2
	require.Equal(t, 0.5, floats[0])
}
