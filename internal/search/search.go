package search

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/agentregistry/agr/internal/registry"
	"github.com/agentregistry/agr/internal/telemetry"
)

// DefaultPageSize is used when pagination is requested without an
// explicit page size.
const DefaultPageSize = 10

// Options controls result shaping for one Search call.
type Options struct {
	TopK     int // maximum results; 0 means all non-zero-score matches
	Page     int // 1-indexed page; 0 disables pagination
	PageSize int // results per page; DefaultPageSize when zero
}

// Result is one scored match. Scores are normalized to [0,1] against the
// best match of the query, so the top result always scores 1.0.
type Result struct {
	Entry        registry.Entry
	Score        float64
	MatchedTerms []string
}

// Search scores every registry entry against the query with the default
// ranking configuration and returns ranked, paginated results.
func Search(reg *registry.Registry, query string, opts Options) []Result {
	return SearchWithConfig(reg, query, opts, DefaultConfig())
}

// SearchWithConfig is Search with explicit ranking parameters.
//
// Corpus statistics (document frequencies, average document length) are
// derived exactly once per call. Entries scoring zero are excluded; ties
// break by entry name ascending so identical inputs always produce the
// identical ordered result list. On completion a telemetry event is
// emitted carrying only the result count, elapsed time, and top score.
func SearchWithConfig(reg *registry.Registry, query string, opts Options, cfg Config) []Result {
	start := time.Now()

	terms := QueryTerms(query)
	var ranked []Result
	if len(terms) > 0 && len(reg.Entries) > 0 {
		cs := collectStats(reg.Entries)

		var maxRaw float64
		for i, e := range reg.Entries {
			score, matched := cfg.scoreEntry(terms, cs.entries[i], cs)
			if score <= 0 {
				continue
			}
			ranked = append(ranked, Result{Entry: e, Score: score, MatchedTerms: matched})
			if score > maxRaw {
				maxRaw = score
			}
		}
		for i := range ranked {
			ranked[i].Score /= maxRaw
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Score == ranked[j].Score {
				return ranked[i].Entry.Name < ranked[j].Entry.Name
			}
			return ranked[i].Score > ranked[j].Score
		})
	}

	topScore := 0.0
	if len(ranked) > 0 {
		topScore = ranked[0].Score
	}
	telemetry.Track("search", map[string]string{
		"n":   strconv.Itoa(len(ranked)),
		"ms":  strconv.FormatInt(time.Since(start).Milliseconds(), 10),
		"top": fmt.Sprintf("%.3f", topScore),
	})

	return paginate(ranked, opts)
}

// paginate applies the TopK cap and then the requested page window.
// A page past the last one yields an empty slice, not an error.
func paginate(results []Result, opts Options) []Result {
	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	if opts.Page <= 0 {
		return results
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	lo := (opts.Page - 1) * size
	if lo >= len(results) {
		return []Result{}
	}
	hi := lo + size
	if hi > len(results) {
		hi = len(results)
	}
	return results[lo:hi]
}
