// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConfigError reports invalid stage parameters. It is a programmer error,
// fatal at construction, never recoverable by retrying the run.
type ConfigError struct {
	// Reason describes the rejected parameter combination.
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// GenerationError reports a failed generation capability call: transport,
// auth, quota, or a malformed provider response. Fatal for the current
// document; the caller may retry the whole run.
type GenerationError struct {
	// Op names the failing call: "chat completion", "entailment check",
	// or "rewrite".
	Op string

	// Err is the underlying failure.
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// DraftParseError reports generator output that could not be recovered as a
// draft, either because no JSON object was found or because the decoded
// object failed validation. The raw output is kept for inspection; callers
// should not blindly retry without adjusting the prompt.
type DraftParseError struct {
	// Raw is the unmodified generator output.
	Raw string

	// Err is the decode or validation failure.
	Err error
}

func (e *DraftParseError) Error() string {
	return fmt.Sprintf("parsing draft: %v", e.Err)
}

func (e *DraftParseError) Unwrap() error {
	return e.Err
}

// VerificationError reports a capability failure while checking one
// sentence. It is isolated to that sentence; the remaining sentences are
// still verified.
type VerificationError struct {
	// Sentence is the zero-based index of the affected sentence.
	Sentence int

	// Err is the underlying entailment or rewrite failure.
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verifying sentence %d: %v", e.Sentence, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
