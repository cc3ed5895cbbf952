package rank

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/summary-engine/pkg/types"
)

func chunksFromTexts(texts ...string) []types.Chunk {
	chunks := make([]types.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		chunks[i] = types.Chunk{ID: i, Start: offset, End: offset + len(text), Text: text}
		offset += len(text)
	}
	return chunks
}

func ids(chunks []types.Chunk) []int {
	var out []int
	for _, c := range chunks {
		out = append(out, c.ID)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			in:   "Red Apples, are sweet!",
			want: []string{"red", "apples", "are", "sweet"},
		},
		{
			name: "keeps digits",
			in:   "BM25 at k1=1.5",
			want: []string{"bm25", "at", "k1", "1", "5"},
		},
		{
			name: "non-ascii letters separate tokens",
			in:   "Café №42",
			want: []string{"caf", "42"},
		},
		{
			name: "empty string",
			in:   "",
			want: nil,
		},
		{
			name: "punctuation only",
			in:   "?!... --- ***",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTopKRankingOrder(t *testing.T) {
	chunks := chunksFromTexts(
		"apples are red",
		"the sky is blue",
		"red apples are sweet",
	)

	top := TopK(chunks, "red apples", 3, types.RankingConfig{})
	if len(top) != 3 {
		t.Fatalf("got %d chunks, want 3", len(top))
	}

	// Both passages containing the query terms outrank the one with
	// neither; the shorter of the two comes first under length
	// normalization.
	want := []int{0, 2, 1}
	if got := ids(top); !reflect.DeepEqual(got, want) {
		t.Errorf("ranked order = %v, want %v", got, want)
	}
}

func TestTopKEmptyQuery(t *testing.T) {
	chunks := chunksFromTexts("first passage", "second passage", "third passage")

	for _, query := range []string{"", "?!- --"} {
		top := TopK(chunks, query, 2, types.RankingConfig{})
		if got, want := ids(top), []int{0, 1}; !reflect.DeepEqual(got, want) {
			t.Errorf("query %q: order = %v, want %v (original order on all-zero scores)", query, got, want)
		}
	}
}

func TestTopKStableTies(t *testing.T) {
	// Identical passages score identically; original order must hold.
	chunks := chunksFromTexts("same words here", "same words here", "same words here", "same words here")

	top := TopK(chunks, "same words", 4, types.RankingConfig{})
	if got, want := ids(top), []int{0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("tied order = %v, want %v", got, want)
	}
}

func TestTopKFewerChunksThanK(t *testing.T) {
	chunks := chunksFromTexts(
		"apples are red",
		"the sky is blue",
		"red apples are sweet",
	)
	top := TopK(chunks, "red apples", 10, types.RankingConfig{})
	if len(top) != 3 {
		t.Fatalf("got %d chunks, want 3 (all passages when k exceeds corpus)", len(top))
	}
	if top[2].ID != 1 {
		t.Errorf("top[2].ID = %d, want 1 (passage without query terms last)", top[2].ID)
	}
}

func TestTopKDegenerateInputs(t *testing.T) {
	chunks := chunksFromTexts("a passage")
	if got := TopK(nil, "query", 3, types.RankingConfig{}); got != nil {
		t.Errorf("TopK(nil chunks) = %v, want nil", got)
	}
	if got := TopK(chunks, "query", 0, types.RankingConfig{}); got != nil {
		t.Errorf("TopK(k=0) = %v, want nil", got)
	}
}

func TestTopKQueryTermAbsentFromCorpus(t *testing.T) {
	chunks := chunksFromTexts("apples are red", "the sky is blue")
	top := TopK(chunks, "zebra", 2, types.RankingConfig{})
	if got, want := ids(top), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v (unknown terms score zero)", got, want)
	}
}

func TestTopKDeterminism(t *testing.T) {
	var texts []string
	words := []string{"transformer", "attention", "benchmark", "accuracy", "dataset", "model"}
	for i := 0; i < 20; i++ {
		texts = append(texts, strings.Join([]string{words[i%len(words)], words[(i+1)%len(words)], words[(i+2)%len(words)]}, " "))
	}
	chunks := chunksFromTexts(texts...)

	first := TopK(chunks, "attention benchmark", 6, types.RankingConfig{})
	second := TopK(chunks, "attention benchmark", 6, types.RankingConfig{})
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls produced different rankings")
	}
}

func TestTopKAllEmptyPassages(t *testing.T) {
	// Tokenization can leave the whole corpus empty; ranking then falls
	// back to original order instead of dividing by zero.
	chunks := chunksFromTexts("...", "!!!", "---")
	top := TopK(chunks, "anything", 2, types.RankingConfig{})
	if got, want := ids(top), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}
