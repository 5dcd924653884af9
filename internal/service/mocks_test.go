package service

import (
	"context"
	"time"

	"clearclaim/internal/events"
	"clearclaim/internal/models"

	"gorm.io/gorm"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeNotificationStore keeps rows in memory and stamps CreatedAt from the
// shared clock.
type fakeNotificationStore struct {
	clock     *fakeClock
	rows      []*models.Notification
	nextID    uint
	CreateErr error
}

func newFakeNotificationStore(clock *fakeClock) *fakeNotificationStore {
	return &fakeNotificationStore{clock: clock}
}

func (f *fakeNotificationStore) Create(n *models.Notification) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = f.clock.Now()
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationStore) LatestSince(userID uint, since time.Time) (*models.Notification, error) {
	var latest *models.Notification
	for _, n := range f.rows {
		if n.UserID != userID || !n.CreatedAt.After(since) {
			continue
		}
		if latest == nil || n.CreatedAt.After(latest.CreatedAt) {
			latest = n
		}
	}
	return latest, nil
}

// fakeClaimStore holds claims keyed by id. UpdateStatusIfFunc, when set,
// overrides the conditional write (used to simulate a concurrent loser).
type fakeClaimStore struct {
	clock              *fakeClock
	claims             map[uint]*models.Claim
	nextID             uint
	SaveErr            error
	UpdateStatusIfFunc func(id uint, from, to string, now time.Time) (int64, error)
}

func newFakeClaimStore(clock *fakeClock) *fakeClaimStore {
	return &fakeClaimStore{clock: clock, claims: map[uint]*models.Claim{}}
}

func (f *fakeClaimStore) Create(c *models.Claim) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = f.clock.Now()
	c.UpdatedAt = f.clock.Now()
	f.claims[c.ID] = c
	return nil
}

func (f *fakeClaimStore) GetByID(id uint) (*models.Claim, error) {
	c, ok := f.claims[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClaimStore) GetByIDForUser(id, userID uint) (*models.Claim, error) {
	c, ok := f.claims[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClaimStore) Save(c *models.Claim) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	c.UpdatedAt = f.clock.Now()
	cp := *c
	f.claims[c.ID] = &cp
	return nil
}

func (f *fakeClaimStore) UpdateStatusIf(id uint, from, to string, now time.Time) (int64, error) {
	if f.UpdateStatusIfFunc != nil {
		return f.UpdateStatusIfFunc(id, from, to, now)
	}
	c, ok := f.claims[id]
	if !ok || c.Status != from {
		return 0, nil
	}
	c.Status = to
	c.UpdatedAt = now
	c.LastAccessedAt = now
	return 1, nil
}

type fakePublisher struct {
	Published []events.ClaimStatusChanged
	Err       error
}

func (f *fakePublisher) PublishStatusChanged(ctx context.Context, evt events.ClaimStatusChanged) error {
	if f.Err != nil {
		return f.Err
	}
	f.Published = append(f.Published, evt)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// Digest fakes.

type fakeDigestStore struct {
	clock *fakeClock
	rows  []*models.Notification
}

func (f *fakeDigestStore) add(n models.Notification) *models.Notification {
	cp := n
	cp.ID = uint(len(f.rows) + 1)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = f.clock.Now()
	}
	f.rows = append(f.rows, &cp)
	return &cp
}

func (f *fakeDigestStore) PendingEmailUserIDs(since time.Time) ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, n := range f.rows {
		if n.EmailSentAt == nil && n.CreatedAt.After(since) && !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}
	return ids, nil
}

func (f *fakeDigestStore) PendingForUser(userID uint, since time.Time) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID && n.EmailSentAt == nil && n.CreatedAt.After(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeDigestStore) MarkEmailSent(ids []uint, t time.Time) error {
	for _, n := range f.rows {
		for _, id := range ids {
			if n.ID == id {
				ts := t
				n.EmailSentAt = &ts
			}
		}
	}
	return nil
}

func (f *fakeDigestStore) MarkSmsSent(ids []uint, t time.Time) error {
	for _, n := range f.rows {
		for _, id := range ids {
			if n.ID == id {
				ts := t
				n.SmsSentAt = &ts
			}
		}
	}
	return nil
}

type fakeUserStore struct {
	users map[uint]*models.User
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakePrefStore struct {
	prefs map[uint]*models.NotificationPreference
}

func (f *fakePrefStore) GetOrCreate(userID uint) (*models.NotificationPreference, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	p := &models.NotificationPreference{UserID: userID, EnableEmailNotifications: true}
	if f.prefs == nil {
		f.prefs = map[uint]*models.NotificationPreference{}
	}
	f.prefs[userID] = p
	return p, nil
}

type emailCall struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type fakeEmailSender struct {
	Calls []emailCall
	Err   error
}

func (f *fakeEmailSender) SendHTMLEmail(ctx context.Context, to, subject, html, text string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Calls = append(f.Calls, emailCall{To: to, Subject: subject, HTML: html, Text: text})
	return nil
}

type smsCall struct {
	Phone string
	Body  string
}

type fakeSmsSender struct {
	Calls []smsCall
	Err   error
}

func (f *fakeSmsSender) SendPlainSMS(ctx context.Context, phone, body string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Calls = append(f.Calls, smsCall{Phone: phone, Body: body})
	return nil
}
