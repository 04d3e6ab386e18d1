package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub user store (case-insensitive like the Mongo store)
// ---------------------------------------------------------------------------

type stubUserStore struct {
	users     map[string]*domain.User // keyed by lowercased username
	createErr    error
	lookupErr    error
	findErr      error
	setActiveErr error
	nextID       int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	_, ok := r.users[strings.ToLower(username)]
	return ok, nil
}

func (r *stubUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	key := strings.ToLower(user.Username)
	if _, exists := r.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[key] = stored
	return cloneUser(stored), nil
}

func (r *stubUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserStore) byID(id string) *domain.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *stubUserStore) SetActive(_ context.Context, username string, active bool) error {
	if r.setActiveErr != nil {
		return r.setActiveErr
	}
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserStore) UpdateProfile(_ context.Context, userID string, profile domain.Profile) error {
	u := r.byID(userID)
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.Profile = profile
	return nil
}

func (r *stubUserStore) UpdateAccount(_ context.Context, userID string, update domain.AccountUpdate) error {
	u := r.byID(userID)
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.Email = update.FirstName, update.LastName, update.Email
	return nil
}

func (r *stubUserStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u := r.byID(userID)
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ---------------------------------------------------------------------------
// Activation store, mailer, captcha, countries
// ---------------------------------------------------------------------------

type stubActivations struct {
	keys     map[string]string
	lastTTL  time.Duration
	issueErr  error
	revokeErr error
	n         int
}

func newStubActivations() *stubActivations {
	return &stubActivations{keys: make(map[string]string)}
}

func (a *stubActivations) Issue(_ context.Context, username string, ttl time.Duration) (string, error) {
	if a.issueErr != nil {
		return "", a.issueErr
	}
	a.n++
	key := fmt.Sprintf("key-%d", a.n)
	a.keys[key] = username
	a.lastTTL = ttl
	return key, nil
}

func (a *stubActivations) Lookup(_ context.Context, key string) (string, error) {
	username, ok := a.keys[key]
	if !ok {
		return "", domain.ErrActivationKeyInvalid
	}
	return username, nil
}

func (a *stubActivations) Revoke(_ context.Context, key string) error {
	if a.revokeErr != nil {
		return a.revokeErr
	}
	delete(a.keys, key)
	return nil
}

type stubMailer struct {
	sent []ports.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubCaptcha struct {
	ok  bool
	err error
}

func (c stubCaptcha) Verify(context.Context, string, string) (bool, error) {
	return c.ok, c.err
}

type recordingCaptcha struct {
	calls []domain.CaptchaAnswer
}

func (c *recordingCaptcha) Verify(_ context.Context, token, remoteIP string) (bool, error) {
	c.calls = append(c.calls, domain.CaptchaAnswer{Token: token, RemoteIP: remoteIP})
	return true, nil
}

type stubCountries map[string]string

func (c stubCountries) Countries() []domain.Country {
	out := make([]domain.Country, 0, len(c))
	for code, name := range c {
		out = append(out, domain.Country{Code: code, Name: name})
	}
	return out
}

func (c stubCountries) Lookup(code string) (domain.Country, bool) {
	name, ok := c[code]
	return domain.Country{Code: code, Name: name}, ok
}

var nopLogger = zerolog.Nop()
