package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
	"github.com/pyconafrica/registration/internal/core/validation"
)

// RegistrationValidator decides whether a sign-up submission is acceptable.
type RegistrationValidator interface {
	Validate(ctx context.Context, req domain.RegistrationRequest) (domain.RegistrationRequest, error)
}

// RegistrationOptions carries the account activation settings.
type RegistrationOptions struct {
	JWTSecret           string
	TokenTTL            time.Duration
	SendActivationEmail bool
	ActivationTTL       time.Duration
	EmailSubjectPrefix  string
	SiteURL             string
}

// RegistrationService implements sign-up, activation and login.
type RegistrationService struct {
	store       ports.UserStore
	validator   RegistrationValidator
	activations ports.ActivationStore
	mailer      ports.Mailer
	opts        RegistrationOptions
	logger      zerolog.Logger
}

func NewRegistrationService(
	store ports.UserStore,
	validator RegistrationValidator,
	activations ports.ActivationStore,
	mailer ports.Mailer,
	opts RegistrationOptions,
	logger zerolog.Logger,
) *RegistrationService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.ActivationTTL <= 0 {
		opts.ActivationTTL = 7 * 24 * time.Hour
	}
	return &RegistrationService{
		store:       store,
		validator:   validator,
		activations: activations,
		mailer:      mailer,
		opts:        opts,
		logger:      logger,
	}
}

// Register validates req and creates the account. When activation email is
// enabled the account starts inactive and an activation key is mailed out.
func (s *RegistrationService) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error) {
	clean, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(clean.Password1)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     clean.Username,
		Email:        clean.Email,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		IsActive:     !s.opts.SendActivationEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Lost a race with a concurrent sign-up for the same name.
			return nil, validation.DuplicateUsername()
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.opts.SendActivationEmail {
		if err := s.sendActivation(ctx, created); err != nil {
			s.logger.Warn().Err(err).Str("username", created.Username).Msg("activation email not sent")
		}
	}

	s.logger.Info().Str("username", created.Username).Bool("active", created.IsActive).Msg("user registered")
	return created, nil
}

// Activate marks the account bound to key active. The key is revoked only
// once the account is active, so a failed store call leaves it usable.
func (s *RegistrationService) Activate(ctx context.Context, key string) (*domain.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrActivationKeyInvalid
	}

	username, err := s.activations.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	if !user.IsActive {
		if err := s.store.SetActive(ctx, user.Username, true); err != nil {
			return nil, fmt.Errorf("activate: %w", err)
		}
		user.IsActive = true
		s.logger.Info().Str("username", user.Username).Msg("account activated")
	}

	if err := s.activations.Revoke(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("username", user.Username).Msg("activation key not revoked")
	}
	return user, nil
}

// ResendActivation mails a fresh activation key to an inactive account with
// the given email. Unknown or already active addresses are ignored so that
// callers cannot probe which emails are registered.
func (s *RegistrationService) ResendActivation(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("activation resend for unknown email")
			return nil
		}
		return fmt.Errorf("resend activation: %w", err)
	}
	if user.IsActive {
		return nil
	}

	if err := s.sendActivation(ctx, user); err != nil {
		return fmt.Errorf("resend activation: %w", err)
	}
	return nil
}

// Login authenticates username/password and returns a signed access token.
func (s *RegistrationService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrAccountInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *RegistrationService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.opts.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.opts.JWTSecret))
}

func (s *RegistrationService) sendActivation(ctx context.Context, user *domain.User) error {
	key, err := s.activations.Issue(ctx, user.Username, s.opts.ActivationTTL)
	if err != nil {
		return fmt.Errorf("issue activation key: %w", err)
	}

	days := int(s.opts.ActivationTTL.Hours() / 24)
	msg := ports.MailMessage{
		To:      user.Email,
		Subject: strings.TrimSpace(s.opts.EmailSubjectPrefix + " Activate your account"),
		Body: fmt.Sprintf(
			"Hello %s,\n\nActivate your account within %d days by visiting:\n\n%s/accounts/activate/%s\n",
			user.Username, days, strings.TrimRight(s.opts.SiteURL, "/"), key,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send activation email: %w", err)
	}
	return nil
}
