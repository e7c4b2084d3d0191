// Package textscore provides term-frequency/inverse-document-frequency scoring
// of small text corpora.
//
// Weights follow the usual smoothed formulation: raw term counts, idf =
// ln((1+n)/(1+df)) + 1, each document vector L2-normalised. Tokens are
// lower-cased runs of two or more letters, digits or underscores.
package textscore

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Scorer reduces a corpus to one aggregate weight. Implementations fit a new
// vocabulary on every call, return 0 for an empty corpus and are
// deterministic for a given multiset of documents.
type Scorer interface {
	FitAndScore(docs []string) float64
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func Tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

type weightedDoc struct {
	terms   []string
	weights []float64
}

// fit returns the normalised weight vector of every document.
func fit(docs []string) []weightedDoc {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, tok := range Tokenize(doc) {
			c[tok]++
		}
		for term := range c {
			df[term]++
		}
		counts[i] = c
	}
	if len(df) == 0 {
		return nil
	}

	n := float64(len(docs))
	out := make([]weightedDoc, len(docs))
	for i, c := range counts {
		terms := make([]string, 0, len(c))
		for term := range c {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		weights := make([]float64, len(terms))
		var norm float64
		for j, term := range terms {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			w := float64(c[term]) * idf
			weights[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range weights {
				weights[j] /= norm
			}
		}
		out[i] = weightedDoc{terms: terms, weights: weights}
	}
	return out
}

// sumSorted adds per-document totals smallest first so the result does not
// depend on document order.
func sumSorted(parts []float64) float64 {
	sort.Float64s(parts)
	var total float64
	for _, p := range parts {
		total += p
	}
	return total
}

// TFIDF sums every weight in the fitted matrix.
type TFIDF struct{}

func (TFIDF) FitAndScore(docs []string) float64 {
	if len(docs) == 0 {
		return 0
	}
	fitted := fit(docs)
	parts := make([]float64, 0, len(fitted))
	for _, d := range fitted {
		var s float64
		for _, w := range d.weights {
			s += w
		}
		parts = append(parts, s)
	}
	return sumSorted(parts)
}

// Lexicon fits the same matrix but only sums the columns of its terms.
type Lexicon struct {
	terms map[string]struct{}
}

func NewLexicon(terms []string) *Lexicon {
	l := &Lexicon{terms: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		for _, tok := range Tokenize(t) {
			l.terms[tok] = struct{}{}
		}
	}
	return l
}

func (l *Lexicon) FitAndScore(docs []string) float64 {
	if len(docs) == 0 || len(l.terms) == 0 {
		return 0
	}
	fitted := fit(docs)
	parts := make([]float64, 0, len(fitted))
	for _, d := range fitted {
		var s float64
		for j, term := range d.terms {
			if _, ok := l.terms[term]; ok {
				s += d.weights[j]
			}
		}
		parts = append(parts, s)
	}
	return sumSorted(parts)
}

// For picks the scorer for one signal: the lexicon scorer when terms are
// configured, the generic TF-IDF otherwise.
func For(terms []string) Scorer {
	if len(terms) == 0 {
		return TFIDF{}
	}
	return NewLexicon(terms)
}
