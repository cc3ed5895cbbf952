// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores passages against a query with BM25 and selects the
// most relevant ones as the evidence pool for generation.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	// DefaultK1 is the BM25 term-frequency saturation parameter.
	DefaultK1 = 1.5

	// DefaultB is the BM25 length-normalization parameter.
	DefaultB = 0.75

	// DefaultTopK is the number of passages selected as evidence.
	DefaultTopK = 6

	// idfFloorEpsilon scales the average IDF to produce the floor applied
	// to terms that occur in most passages and would otherwise score
	// negatively.
	idfFloorEpsilon = 0.25
)

// TopK ranks chunks against the query and returns the min(k, len(chunks))
// highest scoring ones, best first. The sort is stable: passages with equal
// scores keep their original order, so a query with no usable terms returns
// the first k passages as given.
func TopK(chunks []types.Chunk, query string, k int, cfg types.RankingConfig) []types.Chunk {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}

	k1 := cfg.K1
	if k1 == 0 {
		k1 = DefaultK1
	}
	b := cfg.B
	if b == 0 {
		b = DefaultB
	}

	corpus := make([][]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = Tokenize(c.Text)
	}

	scores := newIndex(corpus, k1, b).score(Tokenize(query))

	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if k > len(chunks) {
		k = len(chunks)
	}
	top := make([]types.Chunk, k)
	for i := range top {
		top[i] = chunks[order[i]]
	}
	return top
}

// Tokenize lower-cases s and returns its maximal ASCII alphanumeric runs.
// Any other character, including non-ASCII letters, acts as a separator.
func Tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// index holds BM25 statistics for one tokenized corpus.
type index struct {
	k1, b    float64
	avgdl    float64
	docLen   []float64
	termFreq []map[string]int
	idf      map[string]float64
}

// newIndex computes document statistics and IDF values. Terms that occur in
// over half the corpus get a negative raw IDF; those are floored to
// idfFloorEpsilon times the average IDF so common terms still contribute a
// small positive weight.
func newIndex(corpus [][]string, k1, b float64) *index {
	idx := &index{
		k1:       k1,
		b:        b,
		docLen:   make([]float64, len(corpus)),
		termFreq: make([]map[string]int, len(corpus)),
		idf:      make(map[string]float64),
	}

	df := make(map[string]int)
	total := 0
	for i, doc := range corpus {
		idx.docLen[i] = float64(len(doc))
		total += len(doc)
		freq := make(map[string]int, len(doc))
		for _, w := range doc {
			freq[w]++
		}
		idx.termFreq[i] = freq
		for w := range freq {
			df[w]++
		}
	}
	if len(df) == 0 {
		// Nothing tokenized; every query scores zero.
		return idx
	}
	idx.avgdl = float64(total) / float64(len(corpus))

	n := float64(len(corpus))
	var sum float64
	var negative []string
	for w, f := range df {
		v := math.Log(n-float64(f)+0.5) - math.Log(float64(f)+0.5)
		idx.idf[w] = v
		sum += v
		if v < 0 {
			negative = append(negative, w)
		}
	}
	floor := idfFloorEpsilon * (sum / float64(len(df)))
	for _, w := range negative {
		idx.idf[w] = floor
	}

	return idx
}

// score returns one BM25 score per document for the tokenized query.
// Repeated query terms contribute once per occurrence, as given.
func (idx *index) score(query []string) []float64 {
	scores := make([]float64, len(idx.docLen))
	for _, q := range query {
		w, ok := idx.idf[q]
		if !ok {
			continue
		}
		for i := range scores {
			tf := float64(idx.termFreq[i][q])
			if tf == 0 {
				continue
			}
			scores[i] += w * tf * (idx.k1 + 1) / (tf + idx.k1*(1-idx.b+idx.b*idx.docLen[i]/idx.avgdl))
		}
	}
	return scores
}
