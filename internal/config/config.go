package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the registry home directory. AGENT_REGISTRY_DIR overrides
// the default of ~/.agent-registry.
func Dir() (string, error) {
	if v := os.Getenv("AGENT_REGISTRY_DIR"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".agent-registry"), nil
}

// RegistryPath returns the path of the persisted index inside dir.
func RegistryPath(dir string) string {
	return filepath.Join(dir, "registry.json")
}

// AgentsDir returns the directory holding the full agent documents.
func AgentsDir(dir string) string {
	return filepath.Join(dir, "agents")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
