package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claim lifecycle statuses.
const (
	StatusInProgress         = "INPROGRESS"
	StatusRepairCostPending  = "REPAIR_COST_PENDING"
	StatusDVClaimCreated     = "DV_CLAIM_CREATED"
	StatusSubmittedToInsurer = "SUBMITTED_TO_INSURER"
	StatusNegotiation        = "NEGOTIATION"
	StatusFinalOfferMade     = "FINAL_OFFER_MADE"
	StatusClaimSettled       = "CLAIM_SETTLED"
	StatusClaimPaid          = "CLAIM_PAID"
	StatusClosed             = "CLOSED"
	StatusDisqualified       = "DISQUALIFIED"
)

const (
	PriorityHigh   = "HIGH"
	PriorityNormal = "NORMAL"
	PriorityLow    = "LOW"
)

// Notification event types.
const (
	EventClaimCreated       = "CLAIM_CREATED"
	EventClaimDisqualified  = "CLAIM_DISQUALIFIED"
	EventRepairCostPending  = "REPAIR_COST_PENDING"
	EventDVClaimCreated     = "DV_CLAIM_CREATED"
	EventClaimSubmitted     = "CLAIM_SUBMITTED_TO_INSURER"
	EventNegotiationStarted = "CLAIM_NEGOTIATION_STARTED"
	EventFinalOfferMade     = "FINAL_OFFER_MADE"
	EventClaimSettled       = "CLAIM_SETTLED"
	EventClaimPaid          = "CLAIM_PAID"
	EventClaimClosed        = "CLAIM_CLOSED"
	EventUserClaimUpdated   = "USER_CLAIM_UPDATED"
	EventWelcome            = "WELCOME"
)

// States where third-party diminished value recovery is not available.
var DisqualifyingStates = map[string]bool{
	"MI": true,
	"ND": true,
	"SD": true,
}
