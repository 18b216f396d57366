package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentregistry/agr/internal/config"
	"github.com/agentregistry/agr/internal/registry"
)

var rootCmd = &cobra.Command{
	Use:          "agr",
	Short:        "Agent Registry: search agent documents, load content lazily",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `agr keeps a lightweight searchable index of agent documents under
~/.agent-registry/ and loads a document's full content only when you
pick it, instead of preloading every agent into context.`,
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRegistry resolves the registry home and loads the index, turning
// store errors into actionable messages.
func loadRegistry() (*registry.Registry, string, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, "", err
	}
	reg, err := registry.Load(config.RegistryPath(dir))
	if err != nil {
		return nil, "", describeLoadError(err)
	}
	return reg, dir, nil
}

func describeLoadError(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return fmt.Errorf("no registry index found: %w\nRun 'agr rebuild' to create one.", err)
	case errors.Is(err, registry.ErrCorruptIndex):
		return fmt.Errorf("%w\nThe index file was left untouched. Run 'agr rebuild' to regenerate it.", err)
	default:
		return err
	}
}
