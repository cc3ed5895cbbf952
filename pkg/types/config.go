package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "summary-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ChunkingConfig holds settings for splitting a document into passages.
type ChunkingConfig struct {
	// Window is the maximum passage length in bytes (default 1200).
	Window int `json:"window" yaml:"window"`

	// Overlap is the passage overlap budget in bytes (default 200).
	// Must be smaller than Window.
	Overlap int `json:"overlap" yaml:"overlap"`
}

// RankingConfig holds settings for relevance ranking.
type RankingConfig struct {
	// K1 is the BM25 term-frequency saturation parameter (default 1.5).
	K1 float64 `json:"k1" yaml:"k1"`

	// B is the BM25 length-normalization parameter (default 0.75).
	B float64 `json:"b" yaml:"b"`

	// TopK is the number of passages selected as evidence (default 6).
	TopK int `json:"top_k" yaml:"top_k"`
}

// VerificationConfig holds settings for per-sentence evidence checking.
type VerificationConfig struct {
	// Concurrency bounds the number of sentences verified at once
	// (default 4; 1 verifies sequentially).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// ContinueOnError keeps a sentence in its pre-verification state
	// when its capability call fails, flagging its index in the result
	// instead of failing the run.
	ContinueOnError bool `json:"continue_on_error" yaml:"continue_on_error"`
}

// LLMConfig holds shared settings for stages that call a chat-completion API.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the chat model identifier (e.g. "openai/gpt-oss-120b").
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer token for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible API root. Defaults to DeepInfra.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited or
	// unavailable API calls (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CachePath is an optional SQLite file for caching chat responses.
	// Empty disables caching.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`
}

// PipelineConfig groups all stage configurations for one summarization run.
type PipelineConfig struct {
	// Mode selects micro or extended output (default micro).
	Mode Mode `json:"mode" yaml:"mode"`

	// Language is the payload language tag (default "en").
	Language string `json:"language" yaml:"language"`

	Chunking     ChunkingConfig     `json:"chunking" yaml:"chunking"`
	Ranking      RankingConfig      `json:"ranking" yaml:"ranking"`
	Verification VerificationConfig `json:"verification" yaml:"verification"`
	LLM          LLMConfig          `json:"llm" yaml:"llm"`
}
