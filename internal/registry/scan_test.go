package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeAgent(t *testing.T, home, rel, content string) {
	t.Helper()
	path := filepath.Join(home, "agents", rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_ParsesFrontmatter(t *testing.T) {
	home := t.TempDir()
	writeAgent(t, home, "react-expert.md",
		"---\nname: react-expert\ndescription: Deep React guidance\nkeywords:\n  - react\n  - hooks\n---\n\n# React Expert\n\nBody text here.\n")

	reg, err := Scan(home)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(reg.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(reg.Entries))
	}
	e := reg.Entries[0]
	if e.Name != "react-expert" {
		t.Fatalf("unexpected name %q", e.Name)
	}
	if e.Summary != "Deep React guidance" {
		t.Fatalf("unexpected summary %q", e.Summary)
	}
	if !reflect.DeepEqual(e.Keywords, []string{"react", "hooks"}) {
		t.Fatalf("unexpected keywords %v", e.Keywords)
	}
	if e.Path != "agents/react-expert.md" {
		t.Fatalf("unexpected path %q", e.Path)
	}
	if e.TokenEstimate <= 0 {
		t.Fatalf("expected positive token estimate, got %d", e.TokenEstimate)
	}
	if len(e.ContentHash) != 12 {
		t.Fatalf("expected 12-char hash, got %q", e.ContentHash)
	}
}

func TestScan_DefaultsFromFileAndBody(t *testing.T) {
	home := t.TempDir()
	writeAgent(t, home, "plain-agent.md", "# Heading\n\nFirst real line of the body.\n")

	reg, err := Scan(home)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	e := reg.Entries[0]
	if e.Name != "plain-agent" {
		t.Fatalf("expected name from file stem, got %q", e.Name)
	}
	if e.Summary != "First real line of the body." {
		t.Fatalf("expected summary from body, got %q", e.Summary)
	}
}

func TestScan_CommaKeywords(t *testing.T) {
	home := t.TempDir()
	writeAgent(t, home, "a.md", "---\nname: a\ntags: Go, Testing , \n---\nbody\n")

	reg, err := Scan(home)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(reg.Entries[0].Keywords, []string{"go", "testing"}) {
		t.Fatalf("unexpected keywords %v", reg.Entries[0].Keywords)
	}
}

func TestScan_DeterministicAcrossRuns(t *testing.T) {
	home := t.TempDir()
	writeAgent(t, home, "b-agent.md", "---\nname: b-agent\ndescription: B\n---\nbody b\n")
	writeAgent(t, home, "a-agent.md", "---\nname: a-agent\ndescription: A\n---\nbody a\n")

	first, err := Scan(home)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	second, err := Scan(home)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two scans of unchanged content differ:\n%+v\n%+v", first, second)
	}
	if first.Entries[0].Name != "a-agent" {
		t.Fatalf("entries not sorted by name: %q first", first.Entries[0].Name)
	}
}

func TestScan_DuplicateNamesFail(t *testing.T) {
	home := t.TempDir()
	writeAgent(t, home, "one.md", "---\nname: same-agent\n---\nx\n")
	writeAgent(t, home, "two.md", "---\nname: Same-Agent\n---\ny\n")

	if _, err := Scan(home); err == nil {
		t.Fatal("expected duplicate-name error")
	}
}

func TestScan_MissingAgentsDirIsEmpty(t *testing.T) {
	reg, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(reg.Entries) != 0 || reg.Stats.TotalAgents != 0 {
		t.Fatalf("expected empty registry, got %+v", reg)
	}
}
