package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadContent resolves name against the registry and reads the matched
// entry's full document from disk.
//
// Resolution is exact case-insensitive first, then case-insensitive
// substring. A substring that matches several entries fails with
// *AmbiguousError listing the candidates instead of guessing. An entry
// whose backing file has disappeared fails with ErrMissingContent, which
// is distinct from ErrNotFound so the caller knows a rebuild (not a
// re-ingest) is the fix.
func LoadContent(reg *Registry, home, name string) (*Entry, string, error) {
	if e, ok := reg.FindByName(name); ok {
		return readEntryContent(home, e)
	}

	matches := reg.FindPartial(name)
	switch len(matches) {
	case 0:
		return nil, "", fmt.Errorf("%w: no agent named %q", ErrNotFound, name)
	case 1:
		return readEntryContent(home, matches[0])
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, "", &AmbiguousError{Name: name, Candidates: names}
	}
}

func readEntryContent(home string, e *Entry) (*Entry, string, error) {
	path := filepath.Join(home, filepath.FromSlash(e.Path))
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %q points at %s which no longer exists; run a rebuild", ErrMissingContent, e.Name, e.Path)
		}
		return nil, "", fmt.Errorf("cannot read agent content %s: %w", path, err)
	}
	return e, string(b), nil
}
