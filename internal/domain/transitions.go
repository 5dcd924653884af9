package domain

import "fmt"

// allowedTransitions holds the directed edges of the claim lifecycle.
// A missing edge means the transition is illegal.
var allowedTransitions = map[string][]string{
	StatusDisqualified:       {StatusClosed},
	StatusInProgress:         {StatusRepairCostPending, StatusDVClaimCreated, StatusDisqualified, StatusClosed},
	StatusRepairCostPending:  {StatusDVClaimCreated, StatusDisqualified, StatusClosed},
	StatusDVClaimCreated:     {StatusSubmittedToInsurer, StatusClosed},
	StatusSubmittedToInsurer: {StatusNegotiation, StatusClosed},
	StatusNegotiation:        {StatusFinalOfferMade, StatusClosed},
	StatusFinalOfferMade:     {StatusClaimSettled, StatusClosed},
	StatusClaimSettled:       {StatusClaimPaid, StatusClosed},
	StatusClaimPaid:          {StatusClosed},
	StatusClosed:             {},
}

// IsValidStatus reports whether s is a member of the claim status set.
func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether the edge from -> to exists.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedFrom returns the statuses reachable in one step from the given status.
func AllowedFrom(from string) []string {
	next := allowedTransitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IllegalTransitionError is returned when a requested status change has no
// edge in the transition table. It carries both states so callers can show
// a meaningful message.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal claim status transition from %s to %s", e.From, e.To)
}

// EventForStatus maps each claim status to the notification event fired when
// a claim enters it. Statuses without an entry produce no event.
var EventForStatus = map[string]string{
	StatusRepairCostPending:  EventRepairCostPending,
	StatusDVClaimCreated:     EventDVClaimCreated,
	StatusSubmittedToInsurer: EventClaimSubmitted,
	StatusNegotiation:        EventNegotiationStarted,
	StatusFinalOfferMade:     EventFinalOfferMade,
	StatusClaimSettled:       EventClaimSettled,
	StatusClaimPaid:          EventClaimPaid,
	StatusClosed:             EventClaimClosed,
	StatusDisqualified:       EventClaimDisqualified,
}
