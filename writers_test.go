package fluxnet

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveBins(t *testing.T) {
	dir := t.TempDir()
	r := &Result{Series: map[string][]float64{
		"flow": {1., 2.5, 3.},
	}}
	require.NoError(t, r.SaveBins(dir+string(filepath.Separator)))

	b, err := os.ReadFile(filepath.Join(dir, "flow.bin"))
	require.NoError(t, err)
	require.Len(t, b, 12) // 3 float32s
	require.Equal(t, float32(2.5), math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])))
}

func TestParamsGobRoundTrip(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "par.gob")
	p := Params{"kq": {.05}, "lag": {1., 4.}}
	require.NoError(t, p.SaveGob(fp))
	got, err := LoadGobParams(fp)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestSaveCSV(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "out.csv")
	r := &Result{Series: map[string][]float64{
		"flow": {1., 2.},
		"evap": {.5, .25},
	}}
	require.NoError(t, r.SaveCSV(fp))

	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	lns := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lns, 3)
	require.Equal(t, "evap,flow", strings.TrimSpace(lns[0])) // columns sorted
	require.True(t, strings.HasPrefix(lns[1], "0.5"))
}
