// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"math"
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Readability scores text with the Flesch-Kincaid grade level and the
// Flesch reading ease. Text with no words cannot be scored and returns the
// sentinel pair {-1, -1}.
func Readability(text string) types.ReadingMetrics {
	words := strings.Fields(text)
	if len(words) == 0 {
		return types.ReadingMetrics{FleschKincaidGrade: -1.0, FleschReadingEase: -1.0}
	}

	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord

	return types.ReadingMetrics{
		FleschKincaidGrade: math.Round(grade*10) / 10,
		FleschReadingEase:  math.Round(ease*100) / 100,
	}
}

// countSentences counts runs of terminator characters. Text with words but
// no terminator counts as one sentence.
func countSentences(text string) int {
	count := 0
	prevTerminator := false
	for _, r := range text {
		isTerminator := r == '.' || r == '!' || r == '?'
		if isTerminator && !prevTerminator {
			count++
		}
		prevTerminator = isTerminator
	}
	if count == 0 {
		return 1
	}
	return count
}

// countSyllables estimates syllables as vowel groups, treating 'y' as a
// vowel and discounting a silent trailing 'e'. Every word counts at least
// one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u' || r == 'y'
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}
	if count == 0 {
		return 1
	}
	return count
}
