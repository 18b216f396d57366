package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/agentregistry/agr/internal/registry"
)

// stopwords are dropped from term statistics: articles and conjunctions
// carry no ranking signal and only inflate document lengths.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {}, "for": {},
}

// Tokenize normalizes text into lowercase alphanumeric terms. Input is
// NFKC-folded so composed and compatibility characters index identically,
// split on non-alphanumeric boundaries, and filtered to terms of at least
// two characters that are not stopwords.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))

	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if utf8.RuneCountInString(tok) < 2 {
			return
		}
		if _, drop := stopwords[tok]; drop {
			return
		}
		tokens = append(tokens, tok)
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// QueryTerms tokenizes a query and deduplicates the terms, preserving
// first-seen order. Each distinct term contributes once to scoring.
func QueryTerms(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range Tokenize(query) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// entryStats holds the per-entry term statistics derived for one query
// evaluation.
type entryStats struct {
	terms    map[string]int      // term frequency within the entry's bag
	length   int                 // total bag size
	keywords map[string]struct{} // normalized keyword set
}

// corpusStats holds the corpus-wide statistics BM25 needs.
type corpusStats struct {
	n       int
	avgdl   float64
	df      map[string]int
	entries []entryStats
}

// collectStats derives the indexable term bag of every entry (name,
// summary, and keywords concatenated) plus corpus document frequencies
// and average document length. It runs once per query evaluation; the
// corpus stays small enough that a persisted inverted index is not worth
// the bookkeeping.
func collectStats(entries []registry.Entry) corpusStats {
	cs := corpusStats{
		n:       len(entries),
		df:      make(map[string]int),
		entries: make([]entryStats, 0, len(entries)),
	}
	totalLen := 0
	for _, e := range entries {
		parts := append([]string{e.Name, e.Summary}, e.Keywords...)
		bag := Tokenize(strings.Join(parts, " "))

		tf := make(map[string]int, len(bag))
		for _, t := range bag {
			tf[t]++
		}
		kw := make(map[string]struct{}, len(e.Keywords))
		for _, k := range e.Keywords {
			for _, t := range Tokenize(k) {
				kw[t] = struct{}{}
			}
		}

		cs.entries = append(cs.entries, entryStats{terms: tf, length: len(bag), keywords: kw})
		for t := range tf {
			cs.df[t]++
		}
		totalLen += len(bag)
	}
	if cs.n > 0 {
		cs.avgdl = float64(totalLen) / float64(cs.n)
	}
	return cs
}
