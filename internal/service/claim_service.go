package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clearclaim/internal/domain"
	"clearclaim/internal/events"
	"clearclaim/internal/models"

	"gorm.io/datatypes"
)

// ClaimStore is the slice of the claim repository the state machine needs.
type ClaimStore interface {
	Create(c *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetByIDForUser(id, userID uint) (*models.Claim, error)
	Save(c *models.Claim) error
	UpdateStatusIf(id uint, from, to string, now time.Time) (int64, error)
}

type ClaimService struct {
	claims    ClaimStore
	notifier  *NotificationService
	publisher events.Publisher // optional, nil when no broker configured
	now       func() time.Time
}

func NewClaimService(claims ClaimStore, notifier *NotificationService, publisher events.Publisher) *ClaimService {
	return &ClaimService{claims: claims, notifier: notifier, publisher: publisher, now: time.Now}
}

// IntakeStepRequest carries the JSON sections posted by one intake step.
// Sections are merged shallowly into the stored claim; absent sections are
// left untouched.
type IntakeStepRequest struct {
	VehicleInfo   map[string]interface{} `json:"vehicle_info"`
	AccidentInfo  map[string]interface{} `json:"accident_info"`
	InsuranceInfo map[string]interface{} `json:"insurance_info"`
	PricingPlan   map[string]interface{} `json:"pricing_plan"`
	LiabilityInfo map[string]interface{} `json:"liability_info"`
}

// Create starts a new claim in INPROGRESS for the user.
func (s *ClaimService) Create(userID uint) (*models.Claim, error) {
	now := s.now()
	c := &models.Claim{
		UserID:         userID,
		Status:         domain.StatusInProgress,
		LastAccessedAt: now,
	}
	if err := s.claims.Create(c); err != nil {
		return nil, err
	}
	if _, err := s.notifier.Notify(userID, domain.EventClaimCreated, c.ID, map[string]interface{}{"claim_id": c.ID}, "", ""); err != nil {
		log.Printf("[claims] notify claim created failed for claim %d: %v", c.ID, err)
	}
	return c, nil
}

// Transition validates the requested status change against the transition
// table and applies it. The status write is conditional on the status read,
// so a concurrent transition on the same claim fails cleanly instead of
// overwriting. Persistence completes before the notification side effect is
// attempted; notification and event publishing are best-effort and never
// fail the transition.
func (s *ClaimService) Transition(ctx context.Context, claimID uint, target string) (*models.Claim, error) {
	if !domain.IsValidStatus(target) {
		return nil, fmt.Errorf("unknown claim status %q", target)
	}
	claim, err := s.claims.GetByID(claimID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(claim.Status, target) {
		return nil, &domain.IllegalTransitionError{From: claim.Status, To: target}
	}

	now := s.now()
	rows, err := s.claims.UpdateStatusIf(claimID, claim.Status, target, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// A concurrent writer moved the claim first. Re-read and report
		// the transition against the fresh status.
		fresh, err := s.claims.GetByID(claimID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.IllegalTransitionError{From: fresh.Status, To: target}
	}

	previous := claim.Status
	claim.Status = target
	claim.UpdatedAt = now
	claim.LastAccessedAt = now

	if _, err := s.notifier.NotifyStatusChanged(claim.UserID, claim.ID, previous, target); err != nil {
		log.Printf("[claims] notify failed for claim %d (%s -> %s): %v", claim.ID, previous, target, err)
	}
	if s.publisher != nil {
		evt := events.ClaimStatusChanged{
			ClaimID:        claim.ID,
			UserID:         claim.UserID,
			PreviousStatus: previous,
			NewStatus:      target,
			OccurredAt:     now,
		}
		if err := s.publisher.PublishStatusChanged(ctx, evt); err != nil {
			log.Printf("[claims] event publish failed for claim %d: %v", claim.ID, err)
		}
	}
	return claim, nil
}

// SaveIntakeStep merges one step's sections into the claim and advances the
// step cursor. At step 2 the liability answers are evaluated first: an
// at-fault claimant, a disqualifying state or a hit-and-run drives the claim
// to DISQUALIFIED, and a missing repair estimate drives it to
// REPAIR_COST_PENDING, short-circuiting normal step progression.
func (s *ClaimService) SaveIntakeStep(ctx context.Context, userID, claimID uint, step int, req IntakeStepRequest) (*models.Claim, error) {
	claim, err := s.claims.GetByIDForUser(claimID, userID)
	if err != nil {
		return nil, err
	}

	claim.VehicleInfo = mergeSection(claim.VehicleInfo, req.VehicleInfo)
	claim.AccidentInfo = mergeSection(claim.AccidentInfo, req.AccidentInfo)
	claim.InsuranceInfo = mergeSection(claim.InsuranceInfo, req.InsuranceInfo)
	claim.PricingPlan = mergeSection(claim.PricingPlan, req.PricingPlan)
	claim.LiabilityInfo = mergeSection(claim.LiabilityInfo, req.LiabilityInfo)

	now := s.now()
	claim.LastAccessedAt = now

	// The automatic outcomes short-circuit normal step progression: the
	// merged answers are saved, but the cursor does not advance.
	if step == 2 {
		if target, ok := s.liabilityOutcome(claim); ok {
			if err := s.claims.Save(claim); err != nil {
				return nil, err
			}
			// Re-saving the step while already in the outcome state is a
			// no-op, not a self-transition.
			if target == claim.Status {
				return claim, nil
			}
			return s.Transition(ctx, claim.ID, target)
		}
	}

	if step+1 > claim.CurrentStep {
		claim.CurrentStep = step + 1
	}
	if err := s.claims.Save(claim); err != nil {
		return nil, err
	}

	if _, err := s.notifier.Notify(userID, domain.EventUserClaimUpdated, claim.ID, map[string]interface{}{"claim_id": claim.ID, "step": step}, "", ""); err != nil {
		log.Printf("[claims] notify claim updated failed for claim %d: %v", claim.ID, err)
	}
	return claim, nil
}

// liabilityOutcome evaluates the automatic side conditions against the
// claim's merged liability section.
func (s *ClaimService) liabilityOutcome(claim *models.Claim) (string, bool) {
	liability := decodeSection(claim.LiabilityInfo)
	if liability == nil {
		return "", false
	}
	atFault, _ := liability["isAtFault"].(bool)
	hitAndRun, _ := liability["hitAndRun"].(bool)
	state, _ := liability["accidentState"].(string)
	if atFault || hitAndRun || domain.DisqualifyingStates[state] {
		return domain.StatusDisqualified, true
	}
	if v, present := liability["hasRepairEstimate"]; present {
		if hasEstimate, _ := v.(bool); !hasEstimate {
			return domain.StatusRepairCostPending, true
		}
	}
	return "", false
}

func mergeSection(existing datatypes.JSON, patch map[string]interface{}) datatypes.JSON {
	if patch == nil {
		return existing
	}
	merged := decodeSection(existing)
	if merged == nil {
		merged = map[string]interface{}{}
	}
	for k, v := range patch {
		merged[k] = v
	}
	out, _ := json.Marshal(merged)
	return out
}

func decodeSection(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
