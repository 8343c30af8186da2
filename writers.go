package fluxnet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/maseology/mmio"
)

func writeFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return nil
}

// SaveBins dumps every result series to little-endian float32 binaries,
// one file per variable, prefixed by outdirprfx.
func (r *Result) SaveBins(outdirprfx string) error {
	for nm, v := range r.Series {
		if err := writeFloats(outdirprfx+nm+".bin", v); err != nil {
			return err
		}
	}
	return nil
}

// SaveCSV writes the result series as one dated-less CSV table, columns
// sorted by name.
func (r *Result) SaveCSV(fp string) error {
	names := make([]string, 0, len(r.Series))
	nt := 0
	for nm, v := range r.Series {
		names = append(names, nm)
		nt = len(v)
	}
	sort.Strings(names)
	lns := make([]string, nt+1)
	for _, nm := range names {
		if lns[0] != "" {
			lns[0] += ","
		}
		lns[0] += nm
	}
	for j := 0; j < nt; j++ {
		for i, nm := range names {
			if i > 0 {
				lns[j+1] += ","
			}
			lns[j+1] += fmt.Sprintf("%f", r.Series[nm][j])
		}
	}
	mmio.WriteLines(fp, lns)
	return nil
}
