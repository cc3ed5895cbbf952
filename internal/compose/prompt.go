// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// systemPrompt fixes the generator's audience and register for every
// summary request.
const systemPrompt = "You are a helpful assistant that converts technical abstracts and passages into lay summaries for an informed general audience (science journalists, policymakers, interested non-specialists). Make the paper understandable, accurate, and concise. Avoid jargon unless strictly necessary."

// userPromptTmpl is the user message for one draft request. The leading
// block pins the strict JSON output contract and the per-mode structural
// rules; the tail embeds the abstract, the evidence pool, and the mode.
var userPromptTmpl = template.Must(template.New("compose").Parse(`Output format (strict JSON):

{
  "mode": "micro" | "extended",
  "lay_summary": "...",
  "headline": "...",
  "keywords": ["...","..."],
  "jargon_definitions": { "term": "short plain explanation", "...": "..." },
  "sentences": [
    { "text": "first sentence", "citations": [chunk_id,...] }
  ]
}

Rules:
- Audience: informed layperson.
- Structure:
  - micro: exactly 3 sentences (Problem, What they did/found, Why it matters).
  - extended: 5 paragraphs (Background; How the study worked; What they found; Why it matters; Limits & next).
- Length: micro ≤ 200 words total; extended ≤ 5 short paragraphs; concise sentences.
- Veracity: only use facts supported by the provided evidence. Do not invent numbers.
- Jargon: keep minimal; if used, add one-line definition.
- Distinctiveness: be specific about this paper.
- Accessibility: analogies ok if clarifying, not replacing meaning.
- For each sentence, include citations as [chunk_id] from the evidence pool.

Abstract & snippets:
"""{{.Abstract}}"""

Relevant evidence pool (chunk_id → passage):
{{.Evidence}}

Requirements — produce the lay summary and auxiliary outputs exactly as described above.
Mode: {{.Mode}}
`))

type promptData struct {
	Abstract string
	Evidence string
	Mode     types.Mode
}

// renderUserPrompt fills the prompt template. The abstract is capped at
// abstractLimit bytes and each evidence passage at evidenceLimit bytes.
func renderUserPrompt(mode types.Mode, abstract string, evidence []types.Chunk) (string, error) {
	lines := make([]string, len(evidence))
	for i, c := range evidence {
		lines[i] = fmt.Sprintf("[%d] %s", c.ID, truncateBytes(c.Text, evidenceLimit))
	}

	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, promptData{
		Abstract: truncateBytes(abstract, abstractLimit),
		Evidence: strings.Join(lines, "\n"),
		Mode:     mode,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
