// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import "strings"

// Disclaimer trigger vocabularies, matched case-insensitively as plain
// substrings of the abstract.
var (
	healthTerms  = []string{"randomized", "trial", "treatment", "patients", "diagnosis", "therapy", "risk factor"}
	financeTerms = []string{"stock", "portfolio", "investment", "trading", "returns"}
	legalTerms   = []string{"regulatory", "law", "statute", "liability"}
)

const (
	healthDisclaimer  = "Health: Not medical advice."
	financeDisclaimer = "Finance: Not investment advice."
	legalDisclaimer   = "Legal: Not legal advice."
)

// DetectDisclaimers scans the abstract for sensitive-domain vocabulary and
// returns the advisory notices to attach. Each category fires at most
// once, always in health, finance, legal order.
func DetectDisclaimers(abstract string) []string {
	lowered := strings.ToLower(abstract)

	var out []string
	if containsAny(lowered, healthTerms) {
		out = append(out, healthDisclaimer)
	}
	if containsAny(lowered, financeTerms) {
		out = append(out, financeDisclaimer)
	}
	if containsAny(lowered, legalTerms) {
		out = append(out, legalDisclaimer)
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
