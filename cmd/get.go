package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/agentregistry/agr/internal/registry"
	"github.com/agentregistry/agr/internal/telemetry"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print an agent's full content",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	reg, dir, err := loadRegistry()
	if err != nil {
		return err
	}

	name := args[0]
	_, content, err := registry.LoadContent(reg, dir, name)
	if err != nil {
		var amb *registry.AmbiguousError
		switch {
		case errors.As(err, &amb):
			return fmt.Errorf("%w\nUse one of the listed names to disambiguate.", err)
		case errors.Is(err, registry.ErrNotFound):
			if sugg := suggestNames(reg, name); len(sugg) > 0 {
				return fmt.Errorf("%w\nDid you mean: %s", err, strings.Join(sugg, ", "))
			}
			return err
		default:
			return err
		}
	}

	telemetry.Track("get", nil)
	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
	return nil
}

// suggestNames returns up to three entry names close to the requested one.
func suggestNames(reg *registry.Registry, name string) []string {
	names := make([]string, len(reg.Entries))
	for i, e := range reg.Entries {
		names[i] = e.Name
	}
	matches := fuzzy.Find(name, names)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
