// Package vmops orchestrates the VM operations exposed as tools: each
// operation is a fixed, strictly sequential pipeline of control-plane calls
// whose later steps consume identifiers produced by earlier ones. Every path
// through the package terminates in an Envelope; nothing here returns a raw
// error to the dispatcher.
package vmops

import (
	"fmt"
	"strings"
)

// Outcome is the terminal classification of one tool call.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
)

// Guest script progress markers. These are conventions of our own scripts,
// not a stable external protocol; keep them in one place.
const (
	successMarker = "✅"
	failureMarker = "❌"
	warningMarker = "⚠️"
)

// StepResult records one pipeline step. ResourceID is the opaque identifier
// the control plane returned, empty when the step failed.
type StepResult struct {
	Step       string `json:"step"`
	ResourceID string `json:"resource_id,omitempty"`
	Succeeded  bool   `json:"succeeded"`
}

// Envelope is the uniform result returned for every tool call regardless of
// which pipeline produced it. A failure always carries an error description
// in Data; a success means every required step succeeded.
type Envelope struct {
	Outcome Outcome        `json:"outcome"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// successEnvelope builds a success envelope. data may be nil.
func successEnvelope(message string, data map[string]any) Envelope {
	return Envelope{Outcome: OutcomeSuccess, Message: message, Data: data}
}

// partialEnvelope builds a partial envelope, used when guest output is
// ambiguous. Never upgraded to success.
func partialEnvelope(message string, data map[string]any) Envelope {
	return Envelope{Outcome: OutcomePartial, Message: message, Data: data}
}

// failureEnvelope builds a failure envelope with an error description.
func failureEnvelope(message string, data map[string]any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["error"]; !ok {
		data["error"] = message
	}
	return Envelope{Outcome: OutcomeFailure, Message: message, Data: data}
}

// remoteFailure normalizes an unrecovered control-plane error: the provider
// message is embedded verbatim, prefixed with the tool and target so the
// failure is locatable in logs and transcripts.
func remoteFailure(tool, target, step string, steps []StepResult, err error) Envelope {
	msg := fmt.Sprintf("%s %s failed for '%s': step %s: %s", failureMarker, tool, target, step, err.Error())
	return failureEnvelope(msg, map[string]any{
		"tool":   tool,
		"target": target,
		"step":   step,
		"error":  err.Error(),
		"steps":  steps,
	})
}

// ClassifyGuestOutput applies the ordered classification policy to captured
// guest script output: explicit failure marker, then non-empty stderr, then
// explicit success marker (our marker or a case-insensitive "success" token),
// and otherwise partial. The order is deliberate; do not add leniency.
func ClassifyGuestOutput(stdout, stderr string) Outcome {
	if strings.Contains(stdout, failureMarker) {
		return OutcomeFailure
	}
	if strings.TrimSpace(stderr) != "" {
		return OutcomeFailure
	}
	if strings.Contains(stdout, successMarker) || strings.Contains(strings.ToLower(stdout), "success") {
		return OutcomeSuccess
	}
	return OutcomePartial
}
