package domain

import "strings"

// EventConfig describes how a single notification event is delivered:
// which channels it reaches, its priority, and its message templates.
// Templates use {{placeholder}} substitution (see RenderTemplate).
type EventConfig struct {
	InApp          bool
	EmailDigest    bool
	SMSDigest      bool
	Priority       string
	TitleTemplate  string
	BodyTemplate   string
	RequiresAction bool
}

// eventCatalog is the static per-event configuration. It is built once and
// never mutated. Every event constant must have exactly one entry here.
var eventCatalog = map[string]EventConfig{
	EventClaimCreated: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityNormal,
		TitleTemplate: "Claim started",
		BodyTemplate:  "Your diminished value claim #{{claim_id}} has been started.",
	},
	EventClaimDisqualified: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityHigh,
		TitleTemplate: "Claim disqualified",
		BodyTemplate:  "Claim #{{claim_id}} does not qualify for diminished value recovery.",
	},
	EventRepairCostPending: {
		InApp:          true,
		EmailDigest:    true,
		Priority:       PriorityNormal,
		TitleTemplate:  "Repair estimate needed",
		BodyTemplate:   "Claim #{{claim_id}} is waiting on a repair cost estimate. Upload one to continue.",
		RequiresAction: true,
	},
	EventDVClaimCreated: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityNormal,
		TitleTemplate: "Claim ready",
		BodyTemplate:  "Your diminished value report for claim #{{claim_id}} is ready.",
	},
	EventClaimSubmitted: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityNormal,
		TitleTemplate: "Claim submitted",
		BodyTemplate:  "Claim #{{claim_id}} has been submitted to the insurance company.",
	},
	EventNegotiationStarted: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityNormal,
		TitleTemplate: "Negotiation started",
		BodyTemplate:  "The insurer has responded on claim #{{claim_id}} and negotiation is underway.",
	},
	EventFinalOfferMade: {
		InApp:          true,
		EmailDigest:    true,
		SMSDigest:      true,
		Priority:       PriorityHigh,
		TitleTemplate:  "Final offer received",
		BodyTemplate:   "The insurer made a final offer on claim #{{claim_id}}. Review it to settle.",
		RequiresAction: true,
	},
	EventClaimSettled: {
		InApp:         true,
		EmailDigest:   true,
		SMSDigest:     true,
		Priority:      PriorityHigh,
		TitleTemplate: "Claim settled",
		BodyTemplate:  "Claim #{{claim_id}} has been settled. Payment is on its way.",
	},
	EventClaimPaid: {
		InApp:         true,
		EmailDigest:   true,
		SMSDigest:     true,
		Priority:      PriorityHigh,
		TitleTemplate: "Payment received",
		BodyTemplate:  "Payment for claim #{{claim_id}} has been recorded.",
	},
	EventClaimClosed: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityLow,
		TitleTemplate: "Claim closed",
		BodyTemplate:  "Claim #{{claim_id}} is now closed.",
	},
	EventUserClaimUpdated: {
		Priority:      PriorityLow,
		TitleTemplate: "Claim updated",
		BodyTemplate:  "Details on claim #{{claim_id}} were updated.",
	},
	EventWelcome: {
		InApp:         true,
		EmailDigest:   true,
		Priority:      PriorityNormal,
		TitleTemplate: "Welcome to ClearClaim",
		BodyTemplate:  "Your account is ready. Start a claim to estimate your vehicle's diminished value.",
	},
}

// LookupEvent returns the configuration for an event type. The second return
// is false for unknown events; callers must treat that as "nothing to notify".
func LookupEvent(eventType string) (EventConfig, bool) {
	cfg, ok := eventCatalog[eventType]
	return cfg, ok
}

// RenderTemplate substitutes {{key}} placeholders with their values.
// Unmatched placeholders are left as-is.
func RenderTemplate(tpl string, vars map[string]string) string {
	out := tpl
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
