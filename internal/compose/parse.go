// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/summary-engine/pkg/types"
)

var validate = validator.New()

// parseDraft decodes generator output into a draft. Models often wrap the
// JSON object in prose or markdown fences, so a failed decode retries on
// the substring between the first '{' and the last '}'. The decoded draft
// is normalized, then validated.
func parseDraft(raw string, requested types.Mode) (types.Draft, error) {
	var draft types.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		inner := extractObject(raw)
		if inner == "" {
			return types.Draft{}, &types.DraftParseError{Raw: raw, Err: err}
		}
		draft = types.Draft{}
		if err := json.Unmarshal([]byte(inner), &draft); err != nil {
			return types.Draft{}, &types.DraftParseError{Raw: raw, Err: err}
		}
	}

	normalizeDraft(&draft, requested)

	if err := validate.Struct(draft); err != nil {
		return types.Draft{}, &types.DraftParseError{Raw: raw, Err: err}
	}
	return draft, nil
}

// extractObject returns the substring spanning the first '{' through the
// last '}' in raw, or "" when no such span exists.
func extractObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// normalizeDraft repairs the gaps models leave in otherwise usable output:
// a missing mode falls back to the requested one, nil collections become
// empty ones, sentence text is trimmed, and sentences reduced to
// whitespace are dropped.
func normalizeDraft(d *types.Draft, requested types.Mode) {
	if d.Mode == "" {
		d.Mode = requested
	}
	if d.Keywords == nil {
		d.Keywords = []string{}
	}
	if d.JargonDefinitions == nil {
		d.JargonDefinitions = map[string]string{}
	}

	sentences := make([]types.SentenceClaim, 0, len(d.Sentences))
	for _, s := range d.Sentences {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.Citations == nil {
			s.Citations = []int{}
		}
		sentences = append(sentences, s)
	}
	d.Sentences = sentences
}
