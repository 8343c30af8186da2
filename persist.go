package fluxnet

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SaveGob persists a parameter set, e.g. a calibrated best draw.
func (p Params) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" Params.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf(" Params.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobParams(fp string) (Params, error) {
	var p Params
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	enc := gob.NewDecoder(f)
	err = enc.Decode(&p)
	if err != nil {
		return nil, err
	}
	f.Close()
	return p, nil
}
