package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentregistry/agr/internal/telemetry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed agents with their metadata",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("\nIndexed agents (%d):\n\n", len(reg.Entries))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tTOKENS\tKEYWORDS\tSUMMARY")
	for _, e := range reg.Entries {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n",
			e.Name, e.TokenEstimate, strings.Join(e.Keywords, ","), e.Summary)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d agents, ~%d tokens indexed, ~%d tokens saved vs preloading\n",
		reg.Stats.TotalAgents, reg.Stats.TotalTokens, reg.Stats.TokensSaved)

	telemetry.Track("list", nil)
	return nil
}
