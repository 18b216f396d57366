package registry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testRegistry() *Registry {
	reg := &Registry{
		Version: SchemaVersion,
		Entries: []Entry{
			{Name: "go-reviewer", Path: "agents/go-reviewer.md", Summary: "Reviews Go code", Keywords: []string{"go", "review"}, TokenEstimate: 120, ContentHash: "abc123def456"},
			{Name: "react-expert", Path: "agents/react-expert.md", Summary: "React guidance", Keywords: []string{"react"}, TokenEstimate: 200, ContentHash: "def456abc123"},
		},
	}
	reg.RecomputeStats()
	return reg
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := testRegistry()

	if err := Save(path, reg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[0].Name != "go-reviewer" {
		t.Fatalf("unexpected first entry: %q", got.Entries[0].Name)
	}
}

func TestSave_MaintainsStatsInvariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := testRegistry()
	// Deliberately wrong stats; Save must recompute them.
	reg.Stats = Stats{TotalAgents: 99, TotalTokens: 1}

	if err := Save(path, reg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Stats.TotalAgents != len(got.Entries) {
		t.Fatalf("total_agents %d != %d entries", got.Stats.TotalAgents, len(got.Entries))
	}
	sum := 0
	for _, e := range got.Entries {
		sum += e.TokenEstimate
	}
	if got.Stats.TotalTokens != sum {
		t.Fatalf("total_tokens %d != entry sum %d", got.Stats.TotalTokens, sum)
	}
}

func TestLoad_MissingFileIsNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "registry.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_MalformedJSONIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestLoad_UnknownFieldIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	body := `{"version":1,"entries":[],"stats":{"total_agents":0,"total_tokens":0,"tokens_saved_vs_preload":0},"extra":true}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestLoad_StatsMismatchIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := testRegistry()
	reg.Stats.TotalTokens++ // break the invariant by hand
	data, err := json.Marshal(reg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(path)
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestLoad_MissingEntryFieldsAreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	body := `{"version":1,"entries":[{"name":"a","path":"","summary":"","keywords":[],"token_estimate":0,"content_hash":"x"}],"stats":{"total_agents":1,"total_tokens":0,"tokens_saved_vs_preload":0}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	if err := Save(path, testRegistry()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after save")
	}
}
