package registry

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaVersion is the registry file format version. Files carrying a
// different version are rejected on load so format changes never get
// misread as data corruption further down the line.
const SchemaVersion = 1

// indexOverheadTokens approximates the metadata cost of keeping one entry
// in the index, used when estimating how many tokens lazy loading saves
// compared to preloading every agent body.
const indexOverheadTokens = 40

// Entry is one indexed agent's metadata. The full document body lives at
// Path (relative to the registry home) and is only read on demand.
type Entry struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Summary       string   `json:"summary"`
	Keywords      []string `json:"keywords"`
	TokenEstimate int      `json:"token_estimate"`
	ContentHash   string   `json:"content_hash"`
}

// Stats holds the aggregate counters persisted alongside the entries.
type Stats struct {
	TotalAgents int `json:"total_agents"`
	TotalTokens int `json:"total_tokens"`
	TokensSaved int `json:"tokens_saved_vs_preload"`
}

// Registry is the whole persisted index: schema version, entries, and
// aggregate stats. It is always loaded, mutated in memory, and rewritten
// as a unit; there are no partial on-disk updates.
type Registry struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
	Stats   Stats   `json:"stats"`
}

// RecomputeStats rebuilds the aggregate counters from the entries.
// Save calls this before every write, so a persisted registry always
// satisfies TotalAgents == len(Entries) and TotalTokens == sum of
// entry token estimates.
func (r *Registry) RecomputeStats() {
	total := 0
	for _, e := range r.Entries {
		total += e.TokenEstimate
	}
	saved := total - len(r.Entries)*indexOverheadTokens
	if saved < 0 {
		saved = 0
	}
	r.Stats = Stats{
		TotalAgents: len(r.Entries),
		TotalTokens: total,
		TokensSaved: saved,
	}
}

// FindByName returns the entry whose name equals name, case-insensitively.
func (r *Registry) FindByName(name string) (*Entry, bool) {
	for i := range r.Entries {
		if strings.EqualFold(r.Entries[i].Name, name) {
			return &r.Entries[i], true
		}
	}
	return nil, false
}

// FindPartial returns the entries whose name contains name as a
// case-insensitive substring, sorted by name.
func (r *Registry) FindPartial(name string) []*Entry {
	needle := strings.ToLower(name)
	var out []*Entry
	for i := range r.Entries {
		if strings.Contains(strings.ToLower(r.Entries[i].Name), needle) {
			out = append(out, &r.Entries[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// validate checks the structural invariants a freshly loaded registry must
// satisfy. Violations are surfaced as ErrCorruptIndex by Load; nothing is
// silently defaulted or repaired.
func (r *Registry) validate() error {
	if r.Version != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", r.Version, SchemaVersion)
	}
	seen := make(map[string]struct{}, len(r.Entries))
	total := 0
	for i, e := range r.Entries {
		if e.Name == "" {
			return fmt.Errorf("entry %d has no name", i)
		}
		if e.Path == "" {
			return fmt.Errorf("entry %q has no path", e.Name)
		}
		if e.TokenEstimate < 0 {
			return fmt.Errorf("entry %q has negative token estimate", e.Name)
		}
		if e.ContentHash == "" {
			return fmt.Errorf("entry %q has no content hash", e.Name)
		}
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate entry name %q", e.Name)
		}
		seen[key] = struct{}{}
		total += e.TokenEstimate
	}
	if r.Stats.TotalAgents != len(r.Entries) {
		return fmt.Errorf("stats.total_agents is %d but registry holds %d entries", r.Stats.TotalAgents, len(r.Entries))
	}
	if r.Stats.TotalTokens != total {
		return fmt.Errorf("stats.total_tokens is %d but entries sum to %d", r.Stats.TotalTokens, total)
	}
	return nil
}
