/* knockout.go
 * Contains the knockout-activation resolver: deciding whether the knockout bracket
 * should be treated as active, blending real fixture state with an optional manual
 * override used in preview/demo contexts
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"
)

// Activation modes. The demo override is only honoured in preview/demo mode;
// live mode always follows the inferred state.
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// Activation source labels
const (
	SourceInferred = "inferred"
	SourceOverride = "override"
)

// ActivationInput carries everything the resolver needs. All state arrives as
// explicit parameters; the resolver reads no ambient or global state.
type ActivationInput struct {
	Mode            string
	DemoOverride    *bool // manual override, preview/demo contexts only
	GroupComplete   bool
	DrawReady       bool
	KnockoutStarted bool
}

// ActivationDecision is the resolver's output for conditional UI gating
type ActivationDecision struct {
	Active           bool   `json:"active"`
	InferredActive   bool   `json:"inferredActive"`
	ForcedByOverride bool   `json:"forcedByOverride"`
	MismatchWarning  string `json:"mismatchWarning,omitempty"`
	SourceLabel      string `json:"sourceLabel"`
}

// ResolveKnockoutActivation decides whether the knockout bracket is active.
// The inferred state is: groups complete AND draw ready AND knockout not yet
// started. A demo override that disagrees with the inference still wins, but a
// human-readable warning names the blocking conditions the inference found; the
// warning is informational only and never blocks the forced activation.
func ResolveKnockoutActivation(in ActivationInput) ActivationDecision {
	inferred := in.GroupComplete && in.DrawReady && !in.KnockoutStarted

	decision := ActivationDecision{
		Active:         inferred,
		InferredActive: inferred,
		SourceLabel:    SourceInferred,
	}

	if in.Mode != ModeDemo || in.DemoOverride == nil {
		return decision
	}

	decision.Active = *in.DemoOverride
	decision.ForcedByOverride = true
	decision.SourceLabel = SourceOverride

	if *in.DemoOverride && !inferred {
		decision.MismatchWarning = mismatchWarning(in)
	}

	return decision
}

// mismatchWarning explains which condition(s) the inference found blocking
func mismatchWarning(in ActivationInput) string {
	var reasons []string
	if !in.GroupComplete {
		reasons = append(reasons, "group stage incomplete")
	}
	if !in.DrawReady {
		reasons = append(reasons, "knockout draw not ready")
	}
	if in.KnockoutStarted {
		reasons = append(reasons, "knockout already started")
	}
	if len(reasons) == 0 {
		return ""
	}
	return "override forces activation but inference disagrees: " + strings.Join(reasons, ", ")
}
