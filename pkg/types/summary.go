// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Mode selects the summary length and structure.
type Mode string

const (
	// ModeMicro is a three-sentence summary: problem, approach and
	// finding, significance.
	ModeMicro Mode = "micro"

	// ModeExtended is a five-paragraph summary: background, method,
	// findings, implications, limitations.
	ModeExtended Mode = "extended"
)

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	return m == ModeMicro || m == ModeExtended
}

// Chunk is a bounded, offset-addressed passage of document text. Chunks are
// produced once per document and never change; the ID is the sole citation
// key throughout the pipeline.
type Chunk struct {
	// ID is unique within a document, assigned in order from 0.
	ID int `json:"id" yaml:"id"`

	// Page is the source page number. Always 0 for plain-text input.
	Page int `json:"page" yaml:"page"`

	// Start is the absolute byte offset of the passage in the document.
	Start int `json:"start" yaml:"start"`

	// End is the absolute byte offset one past the passage's last byte.
	End int `json:"end" yaml:"end"`

	// Text is the passage content, equal to document[Start:End].
	Text string `json:"text" yaml:"text"`
}

// EvidenceSpan locates a supporting region inside a cited chunk.
type EvidenceSpan struct {
	// ChunkID identifies the cited chunk.
	ChunkID int `json:"chunk_id" yaml:"chunk_id"`

	// Page is the chunk's source page number.
	Page int `json:"page" yaml:"page"`

	// Start and End are byte offsets within the document.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// SentenceClaim is one summary sentence together with the chunk IDs it
// claims support from. The verifier may replace Text with a rewrite; the
// citation list is preserved as-is.
type SentenceClaim struct {
	// Text is the sentence as shown to the reader.
	Text string `json:"text" yaml:"text" validate:"required"`

	// Citations lists the IDs of the chunks claimed as evidence, in the
	// order the generator cited them.
	Citations []int `json:"citations" yaml:"citations"`

	// Spans optionally narrows citations to regions within the cited
	// chunks. Empty unless a downstream stage fills them in.
	Spans []EvidenceSpan `json:"spans,omitempty" yaml:"spans,omitempty"`
}

// Draft is the structured summary produced by the composer and corrected by
// the verifier. The verifier returns a new Draft; it never mutates its input.
type Draft struct {
	// Mode is the summary mode the draft was generated for.
	Mode Mode `json:"mode" yaml:"mode" validate:"required,oneof=micro extended"`

	// LaySummary is the summary prose. In micro mode it is recomputed
	// from Sentences after verification, never generated independently.
	LaySummary string `json:"lay_summary" yaml:"lay_summary"`

	// Headline is a one-line title for the summary.
	Headline string `json:"headline" yaml:"headline"`

	// Keywords are topic terms chosen by the generator.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// JargonDefinitions maps each unavoidable technical term to a short
	// plain-language explanation.
	JargonDefinitions map[string]string `json:"jargon_definitions" yaml:"jargon_definitions"`

	// Sentences are the summary's claims with their citations.
	Sentences []SentenceClaim `json:"sentences" yaml:"sentences" validate:"dive"`
}

// ReadingMetrics holds readability scores for the summary prose. Both
// fields are -1.0 when the computation fails; it never raises.
type ReadingMetrics struct {
	// FleschKincaidGrade is the US school-grade reading level.
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade" yaml:"flesch_kincaid_grade"`

	// FleschReadingEase is the 0-100 ease score (higher reads easier).
	FleschReadingEase float64 `json:"flesch_reading_ease" yaml:"flesch_reading_ease"`
}

// SummaryPayload is the terminal, immutable pipeline output. Ownership
// passes to the caller; the pipeline never stores it.
type SummaryPayload struct {
	// Mode is the summary mode.
	Mode Mode `json:"mode" yaml:"mode"`

	// LaySummary is the final summary prose.
	LaySummary string `json:"lay_summary" yaml:"lay_summary"`

	// Headline is the one-line title.
	Headline string `json:"headline" yaml:"headline"`

	// Keywords are topic terms. Never nil; empty when the generator
	// supplied none.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// JargonDefinitions maps technical terms to plain explanations.
	// Never nil.
	JargonDefinitions map[string]string `json:"jargon_definitions" yaml:"jargon_definitions"`

	// Sentences are the verified claims with citations. Never nil.
	Sentences []SentenceClaim `json:"sentences" yaml:"sentences"`

	// ReadingLevel holds readability metrics for the summary prose.
	ReadingLevel ReadingMetrics `json:"reading_level" yaml:"reading_level"`

	// Disclaimers lists the advisory notices triggered by the abstract.
	// Never nil.
	Disclaimers []string `json:"disclaimers" yaml:"disclaimers"`

	// Language is the payload language as a BCP 47 tag. "en" unless an
	// external translation stage has run.
	Language string `json:"language" yaml:"language"`
}
