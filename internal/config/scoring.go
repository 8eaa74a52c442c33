package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"ims/internal/engine"
)

// LoadScoring builds an engine from a YAML scoring file laid over the
// built-in tables. An empty path yields the defaults. Band lists replace the
// defaults wholesale; exposure weights are merged per level.
//
//	risk:
//	  name: risk
//	  bands:
//	    - {level: LOW, min: 1, max: 8}
//	    ...
//	exposure:
//	  HIGH: 0.5
func LoadScoring(path string) (*engine.Engine, error) {
	if path == "" {
		return engine.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := ParseScoring(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

func ParseScoring(r io.Reader) (*engine.Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tables := engine.DefaultTables()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&tables); err != nil {
			return nil, fmt.Errorf("decode scoring tables: %w", err)
		}
	}
	return engine.New(tables)
}
