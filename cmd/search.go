package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentregistry/agr/internal/search"
)

var (
	flagSearchTop      int
	flagSearchPage     int
	flagSearchPageSize int
	flagSearchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed agents by relevance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchTop, "top", 0, "Maximum number of results (0 = all matches)")
	searchCmd.Flags().IntVar(&flagSearchPage, "page", 0, "Page of results to show (1-indexed)")
	searchCmd.Flags().IntVar(&flagSearchPageSize, "page-size", 0, "Results per page (default 10 when paging)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "Print results as machine-readable JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := search.Search(reg, query, search.Options{
		TopK:     flagSearchTop,
		Page:     flagSearchPage,
		PageSize: flagSearchPageSize,
	})

	if flagSearchJSON {
		return printResultsJSON(results)
	}
	printResults(query, results)
	return nil
}

// searchResultJSON is the machine-readable shape of one result.
type searchResultJSON struct {
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Path          string   `json:"path"`
	TokenEstimate int      `json:"token_estimate"`
	MatchedTerms  []string `json:"matched_terms"`
}

func printResultsJSON(results []search.Result) error {
	out := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, searchResultJSON{
			Name:          r.Entry.Name,
			Score:         r.Score,
			Summary:       r.Entry.Summary,
			Path:          r.Entry.Path,
			TokenEstimate: r.Entry.TokenEstimate,
			MatchedTerms:  r.MatchedTerms,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printResults(query string, results []search.Result) {
	fmt.Printf("\nagr search %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, r := range results {
		fmt.Fprintf(w, "  %d.\t[%.3f]\t%s\t(~%d tokens)\n", i+1, r.Score, r.Entry.Name, r.Entry.TokenEstimate)
		if s := strings.TrimSpace(r.Entry.Summary); s != "" {
			fmt.Fprintf(w, "  \t\t- %s\n", s)
		}
	}
	_ = w.Flush()
}
