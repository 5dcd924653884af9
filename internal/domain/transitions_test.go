package domain

import (
	"strings"
	"testing"
)

var allStatuses = []string{
	StatusInProgress,
	StatusRepairCostPending,
	StatusDVClaimCreated,
	StatusSubmittedToInsurer,
	StatusNegotiation,
	StatusFinalOfferMade,
	StatusClaimSettled,
	StatusClaimPaid,
	StatusClosed,
	StatusDisqualified,
}

func TestCanTransition_FullMatrix(t *testing.T) {
	legal := map[string]map[string]bool{
		StatusDisqualified:       {StatusClosed: true},
		StatusInProgress:         {StatusRepairCostPending: true, StatusDVClaimCreated: true, StatusDisqualified: true, StatusClosed: true},
		StatusRepairCostPending:  {StatusDVClaimCreated: true, StatusDisqualified: true, StatusClosed: true},
		StatusDVClaimCreated:     {StatusSubmittedToInsurer: true, StatusClosed: true},
		StatusSubmittedToInsurer: {StatusNegotiation: true, StatusClosed: true},
		StatusNegotiation:        {StatusFinalOfferMade: true, StatusClosed: true},
		StatusFinalOfferMade:     {StatusClaimSettled: true, StatusClosed: true},
		StatusClaimSettled:       {StatusClaimPaid: true, StatusClosed: true},
		StatusClaimPaid:          {StatusClosed: true},
		StatusClosed:             {},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	if n := len(AllowedFrom(StatusClosed)); n != 0 {
		t.Fatalf("CLOSED should have no outgoing transitions, got %d", n)
	}
	for _, to := range allStatuses {
		if CanTransition(StatusClosed, to) {
			t.Errorf("CLOSED -> %s should be illegal", to)
		}
	}
}

func TestDisqualifiedOnlyEscapesToClosed(t *testing.T) {
	next := AllowedFrom(StatusDisqualified)
	if len(next) != 1 || next[0] != StatusClosed {
		t.Fatalf("DISQUALIFIED should only transition to CLOSED, got %v", next)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false", s)
		}
	}
	for _, s := range []string{"", "OPEN", "inprogress", "DELETED"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = true", s)
		}
	}
}

func TestIllegalTransitionErrorNamesBothStates(t *testing.T) {
	err := &IllegalTransitionError{From: StatusDVClaimCreated, To: StatusInProgress}
	msg := err.Error()
	if !strings.Contains(msg, StatusDVClaimCreated) || !strings.Contains(msg, StatusInProgress) {
		t.Fatalf("error message should name both states, got %q", msg)
	}
}

func TestEventForStatus(t *testing.T) {
	// Every status except the initial one maps to exactly one event.
	for _, s := range allStatuses {
		event, ok := EventForStatus[s]
		if s == StatusInProgress {
			if ok {
				t.Errorf("INPROGRESS should not map to an event, got %s", event)
			}
			continue
		}
		if !ok {
			t.Errorf("status %s has no mapped event", s)
			continue
		}
		if _, known := LookupEvent(event); !known {
			t.Errorf("status %s maps to unconfigured event %s", s, event)
		}
	}
}
