package domain

import "testing"

func TestEveryEventHasExactlyOneConfig(t *testing.T) {
	events := []string{
		EventClaimCreated,
		EventClaimDisqualified,
		EventRepairCostPending,
		EventDVClaimCreated,
		EventClaimSubmitted,
		EventNegotiationStarted,
		EventFinalOfferMade,
		EventClaimSettled,
		EventClaimPaid,
		EventClaimClosed,
		EventUserClaimUpdated,
		EventWelcome,
	}
	for _, e := range events {
		cfg, ok := LookupEvent(e)
		if !ok {
			t.Errorf("event %s has no catalog entry", e)
			continue
		}
		if cfg.Priority == "" {
			t.Errorf("event %s has no priority", e)
		}
		if cfg.TitleTemplate == "" || cfg.BodyTemplate == "" {
			t.Errorf("event %s is missing templates", e)
		}
	}
}

func TestLookupUnknownEvent(t *testing.T) {
	if _, ok := LookupEvent("NO_SUCH_EVENT"); ok {
		t.Fatal("unknown event should not resolve")
	}
}

func TestClaimSettledChannels(t *testing.T) {
	cfg, ok := LookupEvent(EventClaimSettled)
	if !ok {
		t.Fatal("CLAIM_SETTLED not configured")
	}
	if !cfg.InApp || !cfg.EmailDigest || !cfg.SMSDigest {
		t.Fatalf("CLAIM_SETTLED should reach all channels, got %+v", cfg)
	}
	if cfg.Priority != PriorityHigh {
		t.Fatalf("CLAIM_SETTLED priority = %s, want HIGH", cfg.Priority)
	}
}

func TestUserClaimUpdatedIsDigestDeadWeight(t *testing.T) {
	cfg, ok := LookupEvent(EventUserClaimUpdated)
	if !ok {
		t.Fatal("USER_CLAIM_UPDATED not configured")
	}
	if cfg.InApp || cfg.EmailDigest || cfg.SMSDigest {
		t.Fatalf("USER_CLAIM_UPDATED should be record-only, got %+v", cfg)
	}
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars map[string]string
		want string
	}{
		{"substitutes", "Claim #{{claim_id}} is ready.", map[string]string{"claim_id": "42"}, "Claim #42 is ready."},
		{"multiple occurrences", "{{x}} and {{x}}", map[string]string{"x": "a"}, "a and a"},
		{"unmatched left alone", "Claim #{{claim_id}}", nil, "Claim #{{claim_id}}"},
		{"no placeholders", "Welcome", map[string]string{"claim_id": "1"}, "Welcome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderTemplate(tt.tpl, tt.vars); got != tt.want {
				t.Errorf("RenderTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}
