// Package analysis extracts recurring issue terms from negative review text.
package analysis

import (
	"sort"
	"strings"
	"unicode"

	"review_radar/internal/domain"
)

type Config struct {
	MinTermLength int                 // candidates shorter than this are dropped
	TopN          int                 // max issues returned
	Stopwords     map[string]struct{} // excluded from candidacy; nil means DefaultStopwords()
}

func DefaultConfig() Config {
	return Config{MinTermLength: 3, TopN: 5, Stopwords: DefaultStopwords()}
}

// DefaultStopwords returns a fresh copy of the built-in English stopword set.
// Besides the usual function words it drops generic e-commerce filler
// ("product", "item", "order") that would otherwise top any complaint ranking.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"the", "and", "for", "are", "was", "were", "this", "that", "these",
		"those", "with", "have", "has", "had", "but", "not", "you", "your",
		"its", "very", "too", "also", "from", "they", "them", "there",
		"their", "what", "when", "will", "would", "can", "could", "should",
		"just", "than", "then", "out", "all", "one", "get", "got", "after",
		"before", "about", "only", "even", "did", "does", "don", "doesn",
		"didn", "isn", "wasn", "because", "product", "item", "order",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

type candidate struct {
	term  string
	count int
	first int // position in the global token stream at first occurrence
}

// Top counts normalized terms across the given texts and returns at most
// cfg.TopN of them, most frequent first. Ties rank the term that appeared
// earlier in the token stream first; the stream position spans all texts in
// input order and runs left-to-right within each text, so the order is total
// and deterministic. Empty input yields an empty result. Top is pure: no
// I/O, no shared state, same output for the same input every time.
func Top(texts []string, cfg Config) []domain.IssueTerm {
	if cfg.MinTermLength <= 0 {
		cfg.MinTermLength = 3
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	stop := cfg.Stopwords
	if stop == nil {
		stop = DefaultStopwords()
	}

	counts := make(map[string]*candidate)
	pos := 0
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			pos++
			if len([]rune(tok)) < cfg.MinTermLength {
				continue
			}
			if _, skip := stop[tok]; skip {
				continue
			}
			if c, ok := counts[tok]; ok {
				c.count++
			} else {
				counts[tok] = &candidate{term: tok, count: 1, first: pos}
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]*candidate, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, c)
	}
	// first positions are unique, so this order is total; map iteration
	// order cannot leak into the output
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	n := cfg.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]domain.IssueTerm, n)
	for i := 0; i < n; i++ {
		out[i] = domain.IssueTerm{Term: ranked[i].term, Count: ranked[i].count}
	}
	return out
}

// tokenize lowercases text and splits it on every rune that is neither a
// letter nor a digit, so whitespace and punctuation both end a token.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
