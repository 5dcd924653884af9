package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"clearclaim/internal/domain"
	"clearclaim/internal/models"
)

// digestWindow bounds how far back a pending notification stays eligible
// for digest delivery. Rows older than this drop out of consideration even
// if never sent.
const digestWindow = 24 * time.Hour

const defaultSendTimeout = 15 * time.Second

// DigestStore is the slice of the notification repository the digest needs.
type DigestStore interface {
	PendingEmailUserIDs(since time.Time) ([]uint, error)
	PendingForUser(userID uint, since time.Time) ([]models.Notification, error)
	MarkEmailSent(ids []uint, t time.Time) error
	MarkSmsSent(ids []uint, t time.Time) error
}

type UserGetter interface {
	GetByID(id uint) (*models.User, error)
}

type PreferenceStore interface {
	GetOrCreate(userID uint) (*models.NotificationPreference, error)
}

// EmailSender delivers a rendered digest over email. Implementations report
// success or failure only; there are no partial sends.
type EmailSender interface {
	SendHTMLEmail(ctx context.Context, to, subject, html, text string) error
}

// SmsSender delivers a single aggregate text message.
type SmsSender interface {
	SendPlainSMS(ctx context.Context, phone, body string) error
}

type DigestService struct {
	store       DigestStore
	users       UserGetter
	prefs       PreferenceStore
	email       EmailSender
	sms         SmsSender
	sendTimeout time.Duration
	now         func() time.Time
}

func NewDigestService(store DigestStore, users UserGetter, prefs PreferenceStore, email EmailSender, sms SmsSender, sendTimeout time.Duration) *DigestService {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &DigestService{
		store:       store,
		users:       users,
		prefs:       prefs,
		email:       email,
		sms:         sms,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// RunDailyDigest batches pending notifications per user and sends each user
// one email and/or one SMS. It is safe to invoke repeatedly: idempotence is
// guarded by the sent timestamps, not by a lock. One user's failure never
// aborts the rest of the batch.
func (s *DigestService) RunDailyDigest(ctx context.Context) {
	since := s.now().Add(-digestWindow)
	userIDs, err := s.store.PendingEmailUserIDs(since)
	if err != nil {
		log.Printf("[digest] pending user lookup failed: %v", err)
		return
	}
	log.Printf("[digest] daily run: %d users with pending notifications", len(userIDs))
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			log.Printf("[digest] daily run cancelled: %v", ctx.Err())
			return
		}
		if err := s.RunUserDigest(ctx, userID); err != nil {
			log.Printf("[digest] user %d digest failed: %v", userID, err)
		}
	}
}

// RunUserDigest sends the user's pending notifications on each enabled
// channel. On a successful send the entire fetched batch is stamped for
// that channel, including rows the channel's partition excluded, so the
// same rows are never re-evaluated. On failure timestamps are untouched
// and the rows retry on the next run within the 24h window.
func (s *DigestService) RunUserDigest(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	prefs, err := s.prefs.GetOrCreate(userID)
	if err != nil {
		return err
	}

	now := s.now()
	pending, err := s.store.PendingForUser(userID, now.Add(-digestWindow))
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	allIDs := make([]uint, 0, len(pending))
	var emailItems, smsItems []models.Notification
	for _, n := range pending {
		allIDs = append(allIDs, n.ID)
		cfg, known := domain.LookupEvent(n.EventType)
		// Unknown events fail open for email and closed for SMS.
		if !known || cfg.EmailDigest {
			emailItems = append(emailItems, n)
		}
		if known && cfg.SMSDigest {
			smsItems = append(smsItems, n)
		}
	}

	// Email and SMS are independent: a failure on one channel never blocks
	// the other.
	if prefs.EnableEmailNotifications && user.Email != "" && len(emailItems) > 0 && s.email != nil {
		subject := fmt.Sprintf("Your claim updates (%d)", len(emailItems))
		html, text := renderEmailDigest(user.Name, emailItems)
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.email.SendHTMLEmail(sendCtx, user.Email, subject, html, text)
		cancel()
		if err != nil {
			log.Printf("[digest] email send failed for user %d: %v", userID, err)
		} else if err := s.store.MarkEmailSent(allIDs, now); err != nil {
			log.Printf("[digest] marking email sent failed for user %d: %v", userID, err)
		}
	}

	if prefs.EnableSmsNotifications && user.Phone != "" && len(smsItems) > 0 && s.sms != nil {
		body := renderSmsDigest(smsItems)
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.sms.SendPlainSMS(sendCtx, user.Phone, body)
		cancel()
		if err != nil {
			log.Printf("[digest] sms send failed for user %d: %v", userID, err)
		} else if err := s.store.MarkSmsSent(allIDs, now); err != nil {
			log.Printf("[digest] marking sms sent failed for user %d: %v", userID, err)
		}
	}
	return nil
}

// renderEmailDigest lists the items chronologically.
func renderEmailDigest(name string, items []models.Notification) (html, text string) {
	var h, t strings.Builder
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	h.WriteString("<h2>" + greeting + ",</h2>\n")
	h.WriteString("<p>Here is what happened on your claims today:</p>\n<ul>\n")
	t.WriteString(greeting + ",\n\nHere is what happened on your claims today:\n\n")
	for _, n := range items {
		h.WriteString("<li><strong>" + n.Title + "</strong>: " + n.Body + "</li>\n")
		t.WriteString("* " + n.Title + ": " + n.Body + "\n")
	}
	h.WriteString("</ul>\n<p>Sign in to ClearClaim to see the full details.</p>\n")
	t.WriteString("\nSign in to ClearClaim to see the full details.\n")
	return h.String(), t.String()
}

// renderSmsDigest produces the single aggregate text for the run: never one
// message per notification.
func renderSmsDigest(items []models.Notification) string {
	high := 0
	for _, n := range items {
		if n.Priority == domain.PriorityHigh {
			high++
		}
	}
	if high > 0 {
		return fmt.Sprintf("ClearClaim: you have %d important updates on your claims. Sign in to review them.", high)
	}
	return fmt.Sprintf("ClearClaim: you have %d updates on your claims. Sign in to review them.", len(items))
}
