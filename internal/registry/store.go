package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and validates the registry file at path.
//
// An absent file fails with ErrNotFound; malformed JSON, unknown fields,
// and invariant violations fail with ErrCorruptIndex so callers can tell
// "never built" apart from "built and damaged".
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: registry file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("cannot read registry %s: %w", path, err)
	}

	var reg Registry
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reg); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in %s: %v", ErrCorruptIndex, path, err)
	}
	if err := reg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptIndex, path, err)
	}
	return &reg, nil
}

// Save writes reg to path as a single atomic replacement: stats are
// recomputed, the document is serialized to a sibling temp file, synced,
// and renamed over the target. A reader never observes a partial write;
// on failure the previous file is left untouched.
func Save(path string, reg *Registry) error {
	if reg.Version == 0 {
		reg.Version = SchemaVersion
	}
	reg.RecomputeStats()

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal registry: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot create temp registry %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot write temp registry %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot sync temp registry %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot close temp registry %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot replace registry %s: %w", path, err)
	}
	return nil
}
