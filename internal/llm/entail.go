// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	entailSystemPrompt  = "You are a careful scientific fact checker. Answer strictly YES or NO."
	rewriteSystemPrompt = "Rewrite the claim to be fully supported by the evidence. Keep it short and accurate."

	entailTemperature = 0.0
	entailMaxTokens   = 2

	rewriteTemperature = 0.1
	rewriteMaxTokens   = 120
)

// Entails asks the model for a strict YES/NO entailment judgment. The
// first whitespace-separated token of the answer decides, case
// insensitively; anything other than YES counts as NO.
func (b *Backend) Entails(ctx context.Context, evidence, claim string) (bool, error) {
	messages := []types.ChatMessage{
		{Role: types.RoleSystem, Content: entailSystemPrompt},
		{Role: types.RoleUser, Content: fmt.Sprintf("Evidence:\n\"\"\"\n%s\n\"\"\"\nClaim:\n\"%s\"\nDoes the evidence fully entail the claim? Answer YES or NO only.", evidence, claim)},
	}

	out, err := b.chat(ctx, "entailment check", messages, entailTemperature, entailMaxTokens)
	if err != nil {
		return false, err
	}

	fields := strings.Fields(out)
	if len(fields) == 0 {
		return false, nil
	}
	return strings.ToUpper(fields[0]) == "YES", nil
}

// Rewrite asks the model for a replacement claim supported by the
// evidence. The caller trims and re-attaches the result.
func (b *Backend) Rewrite(ctx context.Context, evidence, claim string) (string, error) {
	messages := []types.ChatMessage{
		{Role: types.RoleSystem, Content: rewriteSystemPrompt},
		{Role: types.RoleUser, Content: fmt.Sprintf("Evidence:\n%s\n\nClaim:\n%s\n\nRewrite:", evidence, claim)},
	}
	return b.chat(ctx, "rewrite", messages, rewriteTemperature, rewriteMaxTokens)
}
