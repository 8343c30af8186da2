// Package forcing carries the meteorological series that drive a
// simulation: a shared time index plus named per-variable series, with gob
// persistence and a plain-text loader.
package forcing

import (
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maseology/mmio"
)

type Forcing struct {
	T      []time.Time          // [dateID]
	Series map[string][]float64 // [variable][dateID]
}

// CheckAndPrint summarizes the forcing record.
func (frc *Forcing) CheckAndPrint() {
	nt := len(frc.T)
	fmt.Printf("Forcing summary:\n %v to %v (%d timesteps), %d variables\n", frc.T[0], frc.T[nt-1], nt, len(frc.Series))
	for nm, v := range frc.Series {
		s := 0.
		for _, vv := range v {
			s += vv
		}
		fmt.Printf("  %-16s mean %.5f\n", nm, s/float64(nt))
	}
}

func (frc *Forcing) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" forcing.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(frc); err != nil {
		return fmt.Errorf(" forcing.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobForcing(fp string) (*Forcing, error) {
	var frc Forcing
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	enc := gob.NewDecoder(f)
	err = enc.Decode(&frc)
	if err != nil {
		return nil, err
	}
	f.Close()
	return &frc, nil
}

// LoadCSV reads a dated CSV of the form
//
//	date,var1,var2,...
//	2006-01-02,0.1,3.4,...
func LoadCSV(fp string) (*Forcing, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf(" forcing.LoadCSV %s: %v", fp, err)
	}
	if len(a) < 2 {
		return nil, fmt.Errorf(" forcing.LoadCSV %s: empty record", fp)
	}
	hdr := strings.Split(strings.TrimSpace(a[0]), ",")
	if len(hdr) < 2 || hdr[0] != "date" {
		return nil, fmt.Errorf(" forcing.LoadCSV %s: bad header %q", fp, a[0])
	}
	frc := Forcing{Series: make(map[string][]float64, len(hdr)-1)}
	for _, nm := range hdr[1:] {
		frc.Series[nm] = []float64{}
	}
	for i, ln := range a[1:] {
		ln = strings.TrimSpace(ln)
		if len(ln) == 0 {
			continue
		}
		sp := strings.Split(ln, ",")
		if len(sp) != len(hdr) {
			return nil, fmt.Errorf(" forcing.LoadCSV %s: line %d has %d fields, expected %d", fp, i+2, len(sp), len(hdr))
		}
		t, err := time.Parse("2006-01-02", sp[0])
		if err != nil {
			return nil, fmt.Errorf(" forcing.LoadCSV %s: line %d: %v", fp, i+2, err)
		}
		frc.T = append(frc.T, t)
		for j, nm := range hdr[1:] {
			v, err := strconv.ParseFloat(sp[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf(" forcing.LoadCSV %s: line %d %s: %v", fp, i+2, nm, err)
			}
			frc.Series[nm] = append(frc.Series[nm], v)
		}
	}
	return &frc, nil
}
