package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clearclaim/internal/domain"
	"clearclaim/internal/models"
)

type digestFixture struct {
	svc   *DigestService
	store *fakeDigestStore
	users *fakeUserStore
	prefs *fakePrefStore
	email *fakeEmailSender
	sms   *fakeSmsSender
	clock *fakeClock
}

func newDigestFixture() *digestFixture {
	clock := newFakeClock()
	f := &digestFixture{
		store: &fakeDigestStore{clock: clock},
		users: &fakeUserStore{users: map[uint]*models.User{}},
		prefs: &fakePrefStore{},
		email: &fakeEmailSender{},
		sms:   &fakeSmsSender{},
		clock: clock,
	}
	f.svc = NewDigestService(f.store, f.users, f.prefs, f.email, f.sms, 0)
	f.svc.now = clock.Now
	return f
}

func (f *digestFixture) addUser(id uint, email, phone string) {
	f.users.users[id] = &models.User{ID: id, Name: "Test User", Email: email, Phone: phone}
}

func (f *digestFixture) enableSms(userID uint) {
	p, _ := f.prefs.GetOrCreate(userID)
	p.EnableSmsNotifications = true
}

func TestNewDigestServiceSendTimeout(t *testing.T) {
	svc := NewDigestService(nil, nil, nil, nil, nil, 5*time.Second)
	if svc.sendTimeout != 5*time.Second {
		t.Fatalf("sendTimeout = %v, want 5s", svc.sendTimeout)
	}
	svc = NewDigestService(nil, nil, nil, nil, nil, 0)
	if svc.sendTimeout != defaultSendTimeout {
		t.Fatalf("zero timeout should fall back to the default, got %v", svc.sendTimeout)
	}
}

func TestRunUserDigestStampsWholeBatch(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	settled := f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Body: "Claim #1 has been settled.", Priority: domain.PriorityHigh})
	// Digest dead weight: no channel ever renders it, but a successful send
	// of an unrelated eligible notification stamps it too.
	deadWeight := f.store.add(models.Notification{UserID: 1, EventType: domain.EventUserClaimUpdated, Title: "Claim updated", Priority: domain.PriorityLow})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 1 {
		t.Fatalf("expected 1 email, got %d", len(f.email.Calls))
	}
	if strings.Contains(f.email.Calls[0].HTML, "Claim updated") {
		t.Error("dead-weight event must not appear in the rendered digest")
	}
	if settled.EmailSentAt == nil || deadWeight.EmailSentAt == nil {
		t.Fatal("the whole fetched batch must be stamped, including ineligible rows")
	}
	if settled.SmsSentAt != nil || deadWeight.SmsSentAt != nil {
		t.Fatal("sms must not be stamped when sms is disabled")
	}
	if len(f.sms.Calls) != 0 {
		t.Fatal("sms must not be sent when disabled")
	}
}

func TestRunDailyDigestIsIdempotent(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimPaid, Title: "Payment received", Priority: domain.PriorityHigh})

	f.svc.RunDailyDigest(context.Background())
	f.svc.RunDailyDigest(context.Background())

	if len(f.email.Calls) != 1 {
		t.Fatalf("second run must find nothing pending, got %d emails", len(f.email.Calls))
	}
}

func TestEmailFailureLeavesRowsPendingForRetry(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	n := f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh})

	f.email.Err = errors.New("smtp timeout")
	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("channel failure must not fail the digest: %v", err)
	}
	if n.EmailSentAt != nil {
		t.Fatal("failed send must leave the timestamp untouched")
	}

	f.email.Err = nil
	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 1 || n.EmailSentAt == nil {
		t.Fatal("retry within the window must send and stamp")
	}
}

func TestEmailFailureDoesNotBlockSms(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "+15550100")
	f.enableSms(1)
	n := f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh})

	f.email.Err = errors.New("smtp down")
	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sms.Calls) != 1 {
		t.Fatal("sms must be attempted independently of email")
	}
	if n.SmsSentAt == nil || n.EmailSentAt != nil {
		t.Fatal("only the sms stamp should be set")
	}
}

func TestSmsAggregateMessage(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "+15550100")
	f.enableSms(1)
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh})
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimPaid, Title: "Payment received", Priority: domain.PriorityHigh})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sms.Calls) != 1 {
		t.Fatalf("expected a single aggregate sms, got %d", len(f.sms.Calls))
	}
	if !strings.Contains(f.sms.Calls[0].Body, "2 important") {
		t.Fatalf("aggregate sms should count HIGH items, got %q", f.sms.Calls[0].Body)
	}
}

func TestRenderSmsDigestGenericMessage(t *testing.T) {
	items := []models.Notification{
		{Priority: domain.PriorityNormal},
		{Priority: domain.PriorityLow},
		{Priority: domain.PriorityNormal},
	}
	body := renderSmsDigest(items)
	if !strings.Contains(body, "3 updates") {
		t.Fatalf("generic message should count all items, got %q", body)
	}
}

func TestUnknownEventFailsOpenForEmailClosedForSms(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "+15550100")
	f.enableSms(1)
	n := f.store.add(models.Notification{UserID: 1, EventType: "LEGACY_EVENT", Title: "Legacy update", Priority: domain.PriorityNormal})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 1 || !strings.Contains(f.email.Calls[0].HTML, "Legacy update") {
		t.Fatal("unknown events must be email-eligible")
	}
	if len(f.sms.Calls) != 0 {
		t.Fatal("unknown events must never reach sms")
	}
	if n.EmailSentAt == nil {
		t.Fatal("row should be stamped after the email send")
	}
}

func TestNoEmailAddressSkipsEmail(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "", "")
	n := f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 0 || n.EmailSentAt != nil {
		t.Fatal("no email address means no send and no stamp")
	}
}

func TestEmptyPendingIsNoop(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 0 {
		t.Fatal("nothing pending means nothing sent")
	}
}

func TestNotificationsOlderThanWindowDropOut(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	old := f.store.add(models.Notification{
		UserID:    1,
		EventType: domain.EventClaimSettled,
		Title:     "Claim settled",
		Priority:  domain.PriorityHigh,
		CreatedAt: f.clock.Now().Add(-25 * time.Hour),
	})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.email.Calls) != 0 || old.EmailSentAt != nil {
		t.Fatal("rows older than 24h must drop out of batch consideration")
	}
}

func TestRunDailyDigestIsolatesUserFailures(t *testing.T) {
	f := newDigestFixture()
	// User 2 has pending rows but no user record; its failure must not
	// abort user 1's digest.
	f.store.add(models.Notification{UserID: 2, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh})
	f.addUser(1, "user@example.com", "")
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimPaid, Title: "Payment received", Priority: domain.PriorityHigh})

	f.svc.RunDailyDigest(context.Background())

	if len(f.email.Calls) != 1 || f.email.Calls[0].To != "user@example.com" {
		t.Fatalf("user 1 should still receive a digest, got %+v", f.email.Calls)
	}
}

func TestDigestEmailListsItemsChronologically(t *testing.T) {
	f := newDigestFixture()
	f.addUser(1, "user@example.com", "")
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSubmitted, Title: "Claim submitted", Priority: domain.PriorityNormal, CreatedAt: f.clock.Now().Add(-2 * time.Hour)})
	f.store.add(models.Notification{UserID: 1, EventType: domain.EventClaimSettled, Title: "Claim settled", Priority: domain.PriorityHigh, CreatedAt: f.clock.Now().Add(-time.Hour)})

	if err := f.svc.RunUserDigest(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := f.email.Calls[0].HTML
	if strings.Index(html, "Claim submitted") > strings.Index(html, "Claim settled") {
		t.Fatal("digest should list items oldest first")
	}
}
