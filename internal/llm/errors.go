package llm

import (
	"errors"
	"fmt"
	"strings"
)

// GenerationError is the single failure kind surfaced by the gateway.
// Transient means the upstream signalled overload and an immediate retry with
// the same input may succeed; the gateway itself never retries.
type GenerationError struct {
	Transient bool
	Message   string
}

func (e *GenerationError) Error() string {
	if e.Transient {
		return fmt.Sprintf("generation failed (transient): %s", e.Message)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

// IncompleteArtifactError reports a generation that succeeded at the transport
// level but returned a structurally invalid result (missing section, empty
// required list, undecodable payload). Callers treat it like a non-transient
// generation failure.
type IncompleteArtifactError struct {
	Reason string
}

func (e *IncompleteArtifactError) Error() string {
	return fmt.Sprintf("incomplete artifact: %s", e.Reason)
}

// overloadSignatures are substrings that mark an upstream failure as
// retryable. Matching is case-insensitive.
var overloadSignatures = []string{
	"503",
	"429",
	"overloaded",
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota",
	"unavailable",
	"capacity",
}

// Classify wraps an upstream error as a GenerationError, inspecting its
// message for an overload/rate-limit signature. Already-classified errors
// pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	var incomplete *IncompleteArtifactError
	if errors.As(err, &incomplete) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, sig := range overloadSignatures {
		if strings.Contains(lower, sig) {
			return &GenerationError{Transient: true, Message: msg}
		}
	}
	return &GenerationError{Transient: false, Message: msg}
}

// IsTransient reports whether err is a retryable generation failure.
func IsTransient(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Transient
}
