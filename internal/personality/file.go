package personality

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadVector reads a YAML trait vector. Traits the file leaves out keep
// their default value; unknown keys are an error. Values are clamped.
func LoadVector(path string) (Vector, error) {
	v := DefaultVector()

	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("reading traits: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return DefaultVector(), fmt.Errorf("parsing traits %s: %w", path, err)
	}
	return v.Clamp(), nil
}

// SaveVector writes v as YAML, creating parent directories.
func SaveVector(path string, v Vector) error {
	data, err := yaml.Marshal(v.Clamp())
	if err != nil {
		return fmt.Errorf("marshaling traits: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating traits dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing traits: %w", err)
	}
	return nil
}
