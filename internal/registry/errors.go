package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the registry file or a named entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrCorruptIndex indicates the persisted registry is malformed and
	// must be regenerated with a rebuild; it is never repaired silently.
	ErrCorruptIndex = errors.New("corrupt registry index")

	// ErrMissingContent indicates an entry's backing document no longer
	// exists on disk, i.e. the index is stale.
	ErrMissingContent = errors.New("agent content missing")
)

// AmbiguousError reports a partial name that matched more than one entry.
// Candidates is sorted by name so callers can disambiguate.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous agent name %q: matches %s", e.Name, strings.Join(e.Candidates, ", "))
}
