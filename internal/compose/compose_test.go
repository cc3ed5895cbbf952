// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// mockGenerator returns a canned response and records the request for
// assertions.
type mockGenerator struct {
	response string
	err      error

	calls           int
	lastMessages    []types.ChatMessage
	lastTemperature float64
	lastMaxTokens   int
}

func (m *mockGenerator) Generate(_ context.Context, messages []types.ChatMessage, temperature float64, maxTokens int) (string, error) {
	m.calls++
	m.lastMessages = messages
	m.lastTemperature = temperature
	m.lastMaxTokens = maxTokens
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

const cleanDraftJSON = `{
	"mode": "micro",
	"lay_summary": "Bees pollinate crops. Fewer bees mean smaller harvests. Protecting them protects food.",
	"headline": "Why bee decline matters",
	"keywords": ["bees", "pollination"],
	"jargon_definitions": {"pollination": "moving pollen between flowers"},
	"sentences": [
		{"text": "Bees pollinate crops.", "citations": [0, 2]},
		{"text": "Fewer bees mean smaller harvests.", "citations": [1]},
		{"text": "Protecting them protects food.", "citations": [0]}
	]
}`

func TestComposeRequestShape(t *testing.T) {
	gen := &mockGenerator{response: cleanDraftJSON}
	evidence := []types.Chunk{
		{ID: 7, Page: 0, Start: 0, End: 13, Text: "First passage"},
		{ID: 2, Page: 0, Start: 13, End: 27, Text: "Second passage"},
	}

	_, err := Compose(context.Background(), gen, types.ModeMicro, "Tiny abstract.", evidence)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	if gen.lastTemperature != composeTemperature {
		t.Errorf("temperature = %v, want %v", gen.lastTemperature, composeTemperature)
	}
	if gen.lastMaxTokens != composeMaxTokens {
		t.Errorf("maxTokens = %d, want %d", gen.lastMaxTokens, composeMaxTokens)
	}
	if len(gen.lastMessages) != 2 {
		t.Fatalf("got %d messages, want 2", len(gen.lastMessages))
	}
	if gen.lastMessages[0].Role != types.RoleSystem || gen.lastMessages[0].Content != systemPrompt {
		t.Errorf("first message is not the system prompt: %+v", gen.lastMessages[0])
	}
	if gen.lastMessages[1].Role != types.RoleUser {
		t.Errorf("second message role = %q, want user", gen.lastMessages[1].Role)
	}

	prompt := gen.lastMessages[1].Content
	for _, want := range []string{
		"Output format (strict JSON):",
		`"""Tiny abstract."""`,
		"(chunk_id → passage):\n[7] First passage\n[2] Second passage",
		"\nMode: micro\n",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestComposeCleanResponse(t *testing.T) {
	gen := &mockGenerator{response: cleanDraftJSON}
	abstract := "A randomized controlled trial of patients measured crop yields."

	res, err := Compose(context.Background(), gen, types.ModeMicro, abstract, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	d := res.Draft
	if d.Mode != types.ModeMicro {
		t.Errorf("mode = %q, want micro", d.Mode)
	}
	if d.Headline != "Why bee decline matters" {
		t.Errorf("headline = %q", d.Headline)
	}
	if len(d.Sentences) != 3 {
		t.Fatalf("got %d sentences, want 3", len(d.Sentences))
	}
	if got := d.Sentences[0].Citations; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("first sentence citations = %v, want [0 2]", got)
	}
	if d.JargonDefinitions["pollination"] == "" {
		t.Errorf("jargon definition lost: %v", d.JargonDefinitions)
	}

	if res.Reading.FleschKincaidGrade == -1.0 {
		t.Errorf("reading grade not computed for non-empty summary")
	}
	if len(res.Disclaimers) != 1 || res.Disclaimers[0] != healthDisclaimer {
		t.Errorf("disclaimers = %v, want only the health notice", res.Disclaimers)
	}
}

func TestComposeNoisyResponse(t *testing.T) {
	gen := &mockGenerator{response: "Sure! Here is the summary you asked for:\n```json\n" + cleanDraftJSON + "\n```\nLet me know if you need anything else."}

	res, err := Compose(context.Background(), gen, types.ModeMicro, "An abstract.", nil)
	if err != nil {
		t.Fatalf("Compose on fenced response: %v", err)
	}
	if len(res.Draft.Sentences) != 3 {
		t.Errorf("got %d sentences, want 3", len(res.Draft.Sentences))
	}
}

func TestComposeGeneratorError(t *testing.T) {
	genErr := &types.GenerationError{Op: "chat completion", Err: errors.New("connection refused")}
	gen := &mockGenerator{err: genErr}

	_, err := Compose(context.Background(), gen, types.ModeMicro, "An abstract.", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var ge *types.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error %v does not unwrap to GenerationError", err)
	}
}

func TestComposeUnparseableResponse(t *testing.T) {
	gen := &mockGenerator{response: "I could not produce a summary for this document."}

	_, err := Compose(context.Background(), gen, types.ModeMicro, "An abstract.", nil)
	var pe *types.DraftParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v does not unwrap to DraftParseError", err)
	}
	if pe.Raw != "I could not produce a summary for this document." {
		t.Errorf("Raw = %q, want the verbatim response", pe.Raw)
	}
}

func TestParseDraft(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, d types.Draft)
	}{
		{
			name: "missing collections repaired",
			raw:  `{"mode": "micro", "lay_summary": "s", "headline": "h"}`,
			check: func(t *testing.T, d types.Draft) {
				if d.Keywords == nil || d.JargonDefinitions == nil || d.Sentences == nil {
					t.Errorf("nil collections survived normalization: %+v", d)
				}
			},
		},
		{
			name: "absent mode takes requested",
			raw:  `{"lay_summary": "s", "sentences": [{"text": "a claim."}]}`,
			check: func(t *testing.T, d types.Draft) {
				if d.Mode != types.ModeExtended {
					t.Errorf("mode = %q, want extended", d.Mode)
				}
				if d.Sentences[0].Citations == nil {
					t.Errorf("nil citations survived normalization")
				}
			},
		},
		{
			name: "whitespace sentences dropped and text trimmed",
			raw:  `{"mode": "micro", "sentences": [{"text": "  padded claim.  "}, {"text": "   "}, {"text": ""}]}`,
			check: func(t *testing.T, d types.Draft) {
				if len(d.Sentences) != 1 {
					t.Fatalf("got %d sentences, want 1", len(d.Sentences))
				}
				if d.Sentences[0].Text != "padded claim." {
					t.Errorf("text = %q, want trimmed", d.Sentences[0].Text)
				}
			},
		},
		{
			name:    "unknown mode rejected",
			raw:     `{"mode": "haiku", "sentences": []}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			raw:     "plain prose answer",
			wantErr: true,
		},
		{
			name:    "json but not an object",
			raw:     `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name: "prefix and suffix noise stripped",
			raw:  "Here you go: {\"mode\": \"micro\", \"sentences\": [{\"text\": \"claim.\"}]} Hope that helps!",
			check: func(t *testing.T, d types.Draft) {
				if len(d.Sentences) != 1 || d.Sentences[0].Text != "claim." {
					t.Errorf("draft = %+v", d)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := parseDraft(tc.raw, types.ModeExtended)
			if tc.wantErr {
				var pe *types.DraftParseError
				if !errors.As(err, &pe) {
					t.Fatalf("err = %v, want DraftParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDraft: %v", err)
			}
			if tc.check != nil {
				tc.check(t, d)
			}
		})
	}
}

func TestPromptTruncation(t *testing.T) {
	gen := &mockGenerator{response: cleanDraftJSON}
	longAbstract := strings.Repeat("a", abstractLimit+100)
	evidence := []types.Chunk{{ID: 0, Text: strings.Repeat("b", evidenceLimit+100)}}

	_, err := Compose(context.Background(), gen, types.ModeMicro, longAbstract, evidence)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	prompt := gen.lastMessages[1].Content
	if !strings.Contains(prompt, strings.Repeat("a", abstractLimit)) {
		t.Errorf("abstract truncated below %d bytes", abstractLimit)
	}
	if strings.Contains(prompt, strings.Repeat("a", abstractLimit+1)) {
		t.Errorf("abstract not truncated to %d bytes", abstractLimit)
	}
	if strings.Contains(prompt, strings.Repeat("b", evidenceLimit+1)) {
		t.Errorf("evidence passage not truncated to %d bytes", evidenceLimit)
	}
}

func TestTruncateBytesRuneBoundary(t *testing.T) {
	// Two-byte runes; an odd limit must snap back to a boundary.
	s := strings.Repeat("ä", 10)
	got := truncateBytes(s, 7)
	if got != strings.Repeat("ä", 3) {
		t.Errorf("truncateBytes = %q (%d bytes)", got, len(got))
	}
	if got := truncateBytes("short", 100); got != "short" {
		t.Errorf("truncateBytes left input alone = %q", got)
	}
}

func TestReadability(t *testing.T) {
	t.Run("no words sentinel", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\n\t"} {
			m := Readability(text)
			if m.FleschKincaidGrade != -1.0 || m.FleschReadingEase != -1.0 {
				t.Errorf("Readability(%q) = %+v, want sentinel", text, m)
			}
		}
	})

	t.Run("simple prose", func(t *testing.T) {
		m := Readability("The cat sat. The dog ran.")
		if m.FleschKincaidGrade != -2.6 {
			t.Errorf("grade = %v, want -2.6", m.FleschKincaidGrade)
		}
		if m.FleschReadingEase != 119.19 {
			t.Errorf("ease = %v, want 119.19", m.FleschReadingEase)
		}
	})

	t.Run("dense prose scores harder", func(t *testing.T) {
		simple := Readability("The cat sat on the mat. It was warm.")
		dense := Readability("Photosynthesis converts electromagnetic radiation into chemically exploitable energy, fundamentally sustaining heterotrophic organisms.")
		if dense.FleschKincaidGrade <= simple.FleschKincaidGrade {
			t.Errorf("dense grade %v not above simple grade %v", dense.FleschKincaidGrade, simple.FleschKincaidGrade)
		}
		if dense.FleschReadingEase >= simple.FleschReadingEase {
			t.Errorf("dense ease %v not below simple ease %v", dense.FleschReadingEase, simple.FleschReadingEase)
		}
	})
}

func TestCountSentences(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"One. Two! Three?", 3},
		{"No terminator at all", 1},
		{"Wait... what?", 2},
		{"a.b.c", 2},
	}
	for _, tc := range cases {
		if got := countSentences(tc.text); got != tc.want {
			t.Errorf("countSentences(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"the", 1},
		{"make", 1},
		{"table", 2},
		{"see", 1},
		{"strength", 1},
		{"readability", 5},
		{"xyz", 1},
		{"qqq", 1},
	}
	for _, tc := range cases {
		if got := countSyllables(tc.word); got != tc.want {
			t.Errorf("countSyllables(%q) = %d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestDetectDisclaimers(t *testing.T) {
	cases := []struct {
		name     string
		abstract string
		want     []string
	}{
		{
			name:     "health from trial vocabulary",
			abstract: "A randomized controlled trial of patients with hypertension.",
			want:     []string{healthDisclaimer},
		},
		{
			name:     "finance",
			abstract: "We model portfolio returns under stress.",
			want:     []string{financeDisclaimer},
		},
		{
			name:     "case insensitive",
			abstract: "REGULATORY frameworks for gene editing.",
			want:     []string{legalDisclaimer},
		},
		{
			name:     "multiple categories in fixed order",
			abstract: "Statute changes affected treatment costs and stock prices.",
			want:     []string{healthDisclaimer, financeDisclaimer, legalDisclaimer},
		},
		{
			name:     "substring matches count",
			abstract: "Outlaw mining operations in protected forests.",
			want:     []string{legalDisclaimer},
		},
		{
			name:     "no triggers",
			abstract: "A faster algorithm for sparse matrix multiplication.",
			want:     nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectDisclaimers(tc.abstract)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("disclaimer[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
