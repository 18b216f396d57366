package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// agentsSubdir is the directory under the registry home that holds the
// full agent documents.
const agentsSubdir = "agents"

// Scan walks home/agents/**/*.md and derives a fresh registry from the
// documents found there. Entries are sorted by name; a missing agents
// directory yields an empty registry rather than an error. Scanning the
// same unchanged tree twice produces identical entries and stats.
func Scan(home string) (*Registry, error) {
	agentsDir := filepath.Join(home, agentsSubdir)
	info, err := os.Stat(agentsDir)
	if err != nil {
		if os.IsNotExist(err) {
			reg := &Registry{Version: SchemaVersion}
			reg.RecomputeStats()
			return reg, nil
		}
		return nil, fmt.Errorf("cannot stat agents directory %s: %w", agentsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("agents path is not a directory: %s", agentsDir)
	}

	var entries []Entry
	seen := make(map[string]string)
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		e, err := entryFromFile(home, path)
		if err != nil {
			return err
		}
		key := strings.ToLower(e.Name)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate agent name %q (%s and %s)", e.Name, prev, e.Path)
		}
		seen[key] = e.Path
		entries = append(entries, e)
		return nil
	}
	if err := filepath.WalkDir(agentsDir, walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan agents: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	reg := &Registry{Version: SchemaVersion, Entries: entries}
	reg.RecomputeStats()
	return reg, nil
}

// entryFromFile reads one agent document and recomputes its full metadata.
// Entries are always re-derived whole; nothing is patched in place.
func entryFromFile(home, path string) (Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	meta, body := splitFrontmatter(string(b))

	name := meta.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	summary := meta.description
	if summary == "" {
		summary = firstBodyLine(body)
	}

	rel, err := filepath.Rel(home, path)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:          name,
		Path:          filepath.ToSlash(rel),
		Summary:       summary,
		Keywords:      meta.keywords,
		TokenEstimate: EstimateTokens(b),
		ContentHash:   ContentHash(b),
	}, nil
}

type agentMeta struct {
	name        string
	description string
	keywords    []string
}

// splitFrontmatter separates a YAML frontmatter block from the document
// body. Documents without frontmatter, or with frontmatter that does not
// parse, are indexed from their body alone.
func splitFrontmatter(content string) (agentMeta, string) {
	s := strings.TrimPrefix(content, "\uFEFF")
	if !strings.HasPrefix(s, "---") {
		return agentMeta{}, content
	}
	parts := strings.SplitN(s, "---", 3)
	if len(parts) < 3 {
		return agentMeta{}, content
	}
	body := strings.TrimPrefix(parts[2], "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(parts[1])), &raw); err != nil {
		return agentMeta{}, content
	}

	meta := agentMeta{
		name:        strings.TrimSpace(stringField(raw, "name")),
		description: strings.TrimSpace(stringField(raw, "description")),
		keywords:    keywordField(raw, "keywords"),
	}
	if len(meta.keywords) == 0 {
		meta.keywords = keywordField(raw, "tags")
	}
	return meta, body
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

// keywordField accepts both a YAML list and a comma-separated string and
// returns lowercase trimmed keywords.
func keywordField(raw map[string]any, key string) []string {
	var items []string
	switch v := raw[key].(type) {
	case string:
		items = strings.FieldsFunc(v, func(r rune) bool { return r == ',' })
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok {
				items = append(items, s)
			}
		}
	}
	var out []string
	for _, it := range items {
		kw := strings.ToLower(strings.TrimSpace(it))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func firstBodyLine(body string) string {
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		return ln
	}
	return ""
}

// ContentHash returns a short fingerprint of an agent document, used only
// to detect content drift between rebuilds.
func ContentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:12]
}

// EstimateTokens approximates the token cost of loading content into a
// model context, at roughly four bytes per token.
func EstimateTokens(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := len(b) / 4
	if n == 0 {
		n = 1
	}
	return n
}
