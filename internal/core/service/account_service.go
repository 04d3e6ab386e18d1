package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
	"github.com/pyconafrica/registration/internal/core/validation"
)

const (
	fieldCountry      = "country"
	fieldEmail        = "email"
	fieldOldPassword  = "old_password"
	fieldNewPassword1 = "new_password1"
	fieldNewPassword2 = "new_password2"
)

// AccountOptions toggles optional account checks.
type AccountOptions struct {
	// UniqueEmail rejects an email change to an address another account uses.
	UniqueEmail bool
}

// AccountService applies changes an authenticated user makes to their own
// account: profile fields, user fields and password.
type AccountService struct {
	store     ports.UserStore
	countries ports.CountryList
	captcha   ports.CaptchaVerifier
	policy    validation.PasswordPolicy
	opts      AccountOptions
	logger    zerolog.Logger
}

// NewAccountService returns an AccountService. captcha may be nil to skip
// captcha checks.
func NewAccountService(
	store ports.UserStore,
	countries ports.CountryList,
	captcha ports.CaptchaVerifier,
	policy validation.PasswordPolicy,
	opts AccountOptions,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		store:     store,
		countries: countries,
		captcha:   captcha,
		policy:    policy,
		opts:      opts,
		logger:    logger,
	}
}

func (s *AccountService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return s.store.FindByUsername(ctx, username)
}

// UpdateProfile replaces the caller's profile. The country, when set, must be
// an ISO 3166-1 alpha-2 code from the country list.
func (s *AccountService) UpdateProfile(ctx context.Context, who domain.Identity, profile domain.Profile, captcha domain.CaptchaAnswer) (*domain.User, error) {
	verr := &domain.ValidationError{}
	if err := validation.CheckCaptcha(ctx, s.captcha, captcha.Token, captcha.RemoteIP, verr); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	profile.Country = strings.ToUpper(strings.TrimSpace(profile.Country))
	if profile.Country != "" {
		if _, ok := s.countries.Lookup(profile.Country); !ok {
			verr.Add(fieldCountry, domain.CodeInvalidCountry,
				fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", profile.Country))
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProfile(ctx, who.UserID, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info().Str("username", who.Username).Msg("profile updated")
	return s.store.FindByUsername(ctx, who.Username)
}

// UpdateAccount changes the caller's first name, last name and email.
func (s *AccountService) UpdateAccount(ctx context.Context, who domain.Identity, update domain.AccountUpdate, captcha domain.CaptchaAnswer) (*domain.User, error) {
	verr := &domain.ValidationError{}
	if err := validation.CheckCaptcha(ctx, s.captcha, captcha.Token, captcha.RemoteIP, verr); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	update.FirstName = strings.TrimSpace(update.FirstName)
	update.LastName = strings.TrimSpace(update.LastName)
	update.Email = strings.TrimSpace(update.Email)
	if update.Email != "" && !validation.ValidEmail(update.Email) {
		verr.Add(fieldEmail, domain.CodeMalformedEmail, "Enter a valid email address.")
	}
	if s.opts.UniqueEmail && update.Email != "" {
		current, err := s.store.FindByUsername(ctx, who.Username)
		if err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
		if !strings.EqualFold(current.Email, update.Email) {
			if err := validation.CheckEmailAvailable(ctx, s.store, fieldEmail, update.Email, verr); err != nil {
				return nil, fmt.Errorf("update account: %w", err)
			}
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateAccount(ctx, who.UserID, update); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.logger.Info().Str("username", who.Username).Msg("account updated")
	return s.store.FindByUsername(ctx, who.Username)
}

// ChangePassword verifies the old password, applies the password policy to
// the new one and stores its hash.
func (s *AccountService) ChangePassword(ctx context.Context, who domain.Identity, change domain.PasswordChange, captcha domain.CaptchaAnswer) error {
	user, err := s.store.FindByUsername(ctx, who.Username)
	if err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	if err := validation.CheckCaptcha(ctx, s.captcha, captcha.Token, captcha.RemoteIP, verr); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if !checkPassword(user.PasswordHash, change.OldPassword) {
		verr.Add(fieldOldPassword, domain.CodeInvalidOldPassword,
			"Your old password was entered incorrectly. Please enter it again.")
	}
	if change.NewPassword1 == "" {
		verr.Add(fieldNewPassword1, domain.CodeRequired, "This field is required.")
	}
	if change.NewPassword2 == "" {
		verr.Add(fieldNewPassword2, domain.CodeRequired, "This field is required.")
	}
	if change.NewPassword1 != "" && change.NewPassword2 != "" && change.NewPassword1 != change.NewPassword2 {
		verr.Add(fieldNewPassword2, domain.CodePasswordMismatch, "The two password fields didn't match.")
	}
	if !verr.HasField(fieldNewPassword2) {
		if fe := s.policy.Check(fieldNewPassword2, change.NewPassword2, user.Username, user.Email); fe != nil {
			verr.Add(fe.Field, fe.Code, fe.Message)
		}
	}
	if err := verr.Err(); err != nil {
		return err
	}

	hash, err := hashPassword(change.NewPassword2)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("password changed")
	return nil
}
