package service

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"clearclaim/internal/domain"
	"clearclaim/internal/models"
)

// inAppThrottleWindow is the per-user window within which at most one new
// in-app notification may be created, regardless of event type.
const inAppThrottleWindow = time.Hour

// NotificationStore is the slice of the notification repository the
// dispatcher needs.
type NotificationStore interface {
	Create(n *models.Notification) error
	LatestSince(userID uint, since time.Time) (*models.Notification, error)
}

type NotificationService struct {
	store NotificationStore
	now   func() time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, now: time.Now}
}

// Notify records a notification for one event occurrence. Unknown events
// are logged and skipped. Events not eligible for in-app display always get
// a row (they still need digest delivery); in-app-eligible events are
// throttled per user on any notification in the trailing hour, in which
// case the existing row is returned and nothing is created.
func (s *NotificationService) Notify(userID uint, eventType string, claimID uint, payload map[string]interface{}, titleOverride, bodyOverride string) (*models.Notification, error) {
	cfg, ok := domain.LookupEvent(eventType)
	if !ok {
		log.Printf("[notify] unknown event %s for user %d, skipping", eventType, userID)
		return nil, nil
	}

	vars := map[string]string{}
	if claimID != 0 {
		vars["claim_id"] = strconv.FormatUint(uint64(claimID), 10)
	}
	title := titleOverride
	if title == "" {
		title = domain.RenderTemplate(cfg.TitleTemplate, vars)
	}
	body := bodyOverride
	if body == "" {
		body = domain.RenderTemplate(cfg.BodyTemplate, vars)
	}

	var payloadJSON []byte
	if payload != nil {
		payloadJSON, _ = json.Marshal(payload)
	}

	n := &models.Notification{
		UserID:    userID,
		EventType: eventType,
		Title:     title,
		Body:      body,
		Payload:   payloadJSON,
		Priority:  cfg.Priority,
	}

	if !cfg.InApp {
		if err := s.store.Create(n); err != nil {
			return nil, err
		}
		return n, nil
	}

	existing, err := s.store.LatestSince(userID, s.now().Add(-inAppThrottleWindow))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Throttle hit: the new occurrence is dropped, not queued.
		return existing, nil
	}
	if err := s.store.Create(n); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyStatusChanged translates a claim status transition into its catalog
// event and dispatches it. Statuses without a mapped event are skipped.
func (s *NotificationService) NotifyStatusChanged(userID, claimID uint, previous, current string) (*models.Notification, error) {
	eventType, ok := domain.EventForStatus[current]
	if !ok {
		log.Printf("[notify] no event mapped for claim status %s, skipping", current)
		return nil, nil
	}
	payload := map[string]interface{}{
		"claim_id":        claimID,
		"previous_status": previous,
		"new_status":      current,
	}
	return s.Notify(userID, eventType, claimID, payload, "", "")
}
