package search

import (
	"math"
	"unicode/utf8"
)

// Config holds the ranking tuning parameters. K1 and B are the standard
// BM25 constants; the rest drive the keyword and fuzzy heuristics layered
// on top of the base score.
type Config struct {
	K1              float64 // term frequency saturation
	B               float64 // document length normalization
	KeywordBonus    float64 // raw-score bonus per exact keyword hit
	FuzzyFactor     float64 // fraction of KeywordBonus awarded to fuzzy keyword hits
	MinFuzzyLen     int     // minimum query term length eligible for fuzzy matching
	MaxEditDistance int     // edit distance bound for fuzzy keyword matches
}

// DefaultConfig returns the standard BM25 parameters with the default
// keyword and fuzzy weights.
func DefaultConfig() Config {
	return Config{
		K1:              1.5,
		B:               0.75,
		KeywordBonus:    2.0,
		FuzzyFactor:     0.5,
		MinFuzzyLen:     4,
		MaxEditDistance: 1,
	}
}

// idf computes ln((N-df+0.5)/(df+0.5)+1). The +1 keeps the value
// non-negative even when a term appears in most documents.
func idf(n, df int) float64 {
	return math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
}

// scoreEntry returns the raw (un-normalized) relevance of one entry for
// the query terms, plus the terms that contributed.
//
// Per term: the BM25 contribution when the term occurs in the entry's
// bag, plus KeywordBonus when it exactly matches one of the entry's
// keywords. A term absent from the whole corpus (df == 0) may instead
// earn a reduced fuzzy bonus against keywords only; the df gate
// guarantees fuzzy never fires for a term that has an exact match
// anywhere.
func (c Config) scoreEntry(terms []string, es entryStats, cs corpusStats) (float64, []string) {
	var score float64
	var matched []string
	for _, t := range terms {
		hit := false
		if tf := es.terms[t]; tf > 0 {
			tfNorm := (float64(tf) * (c.K1 + 1)) /
				(float64(tf) + c.K1*(1-c.B+c.B*float64(es.length)/cs.avgdl))
			score += idf(cs.n, cs.df[t]) * tfNorm
			hit = true
		}
		if _, kw := es.keywords[t]; kw {
			score += c.KeywordBonus
			hit = true
		}
		if !hit && cs.df[t] == 0 && utf8.RuneCountInString(t) >= c.MinFuzzyLen {
			if _, ok := fuzzyKeywordMatch(t, es.keywords, c.MaxEditDistance); ok {
				score += c.FuzzyFactor * c.KeywordBonus
				hit = true
			}
		}
		if hit {
			matched = append(matched, t)
		}
	}
	return score, matched
}
