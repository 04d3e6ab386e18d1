package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
	"github.com/pyconafrica/registration/internal/core/validation"
)

const seedPassword = "gr8-snakes-in-accra"

func seededAccountService(t *testing.T, captcha ports.CaptchaVerifier) (*AccountService, *stubUserStore, domain.Identity) {
	t.Helper()
	store := newStubUserStore()
	hash, err := hashPassword(seedPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	created, err := store.Create(context.Background(), &domain.User{
		Username:     "abena",
		Email:        "abena@pycon.africa",
		PasswordHash: hash,
		Role:         domain.RoleMember,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	countries := stubCountries{"GH": "Ghana", "NG": "Nigeria", "ZA": "South Africa"}
	svc := NewAccountService(store, countries, captcha, validation.DefaultPasswordPolicy(8),
		AccountOptions{UniqueEmail: true}, nopLogger)
	who := domain.Identity{UserID: created.ID, Username: created.Username, Role: created.Role}
	return svc, store, who
}

func TestAccountService_UpdateProfile(t *testing.T) {
	svc, _, who := seededAccountService(t, nil)

	user, err := svc.UpdateProfile(context.Background(), who, domain.Profile{
		Name:         "Abena",
		Surname:      "Mensah",
		Organization: "PyCon Ghana",
		Country:      " gh ",
	}, domain.CaptchaAnswer{})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if user.Profile.Country != "GH" || user.Profile.Surname != "Mensah" {
		t.Fatalf("unexpected profile: %+v", user.Profile)
	}
}

func TestAccountService_UpdateProfile_InvalidCountry(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)

	_, err := svc.UpdateProfile(context.Background(), who, domain.Profile{Name: "Abena", Country: "ZZ"}, domain.CaptchaAnswer{})
	verr, ok := domain.AsValidationError(err)
	if !ok || !verr.Has(domain.CodeInvalidCountry) {
		t.Fatalf("expected invalid_country, got %v", err)
	}

	u, _ := store.FindByUsername(context.Background(), "abena")
	if u.Profile.Name != "" {
		t.Errorf("profile must not be saved on rejection")
	}
}

func TestAccountService_UpdateProfile_Captcha(t *testing.T) {
	svc, _, who := seededAccountService(t, stubCaptcha{ok: false})

	_, err := svc.UpdateProfile(context.Background(), who, domain.Profile{Country: "NG"}, domain.CaptchaAnswer{Token: "token"})
	verr, ok := domain.AsValidationError(err)
	if !ok || !verr.Has(domain.CodeCaptchaInvalid) {
		t.Fatalf("expected captcha_invalid, got %v", err)
	}

	svc, _, who = seededAccountService(t, stubCaptcha{err: errors.New("recaptcha unreachable")})
	if _, err := svc.UpdateProfile(context.Background(), who, domain.Profile{}, domain.CaptchaAnswer{Token: "token"}); err == nil {
		t.Fatal("expected verifier outage to be fatal")
	} else if _, ok := domain.AsValidationError(err); ok {
		t.Fatalf("verifier outage must not be a field error: %v", err)
	}
}

func TestAccountService_UpdateAccount(t *testing.T) {
	svc, _, who := seededAccountService(t, nil)

	user, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{
		FirstName: " Abena ",
		LastName:  "Mensah",
		Email:     "abena.mensah@pycon.africa",
	}, domain.CaptchaAnswer{})
	if err != nil {
		t.Fatalf("UpdateAccount returned error: %v", err)
	}
	if user.FirstName != "Abena" || user.Email != "abena.mensah@pycon.africa" {
		t.Fatalf("unexpected user: %+v", user)
	}

	_, err = svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{Email: "nope"}, domain.CaptchaAnswer{})
	if verr, ok := domain.AsValidationError(err); !ok || !verr.Has(domain.CodeMalformedEmail) {
		t.Fatalf("expected malformed_email, got %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)

	err := svc.ChangePassword(context.Background(), who, domain.PasswordChange{
		OldPassword:  seedPassword,
		NewPassword1: "lagos-lizards-2026",
		NewPassword2: "lagos-lizards-2026",
	}, domain.CaptchaAnswer{})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	u, _ := store.FindByUsername(context.Background(), "abena")
	if !checkPassword(u.PasswordHash, "lagos-lizards-2026") {
		t.Fatalf("expected new password to be stored")
	}
}

func TestAccountService_ChangePassword_Rejections(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)
	before, _ := store.FindByUsername(context.Background(), "abena")

	cases := []struct {
		name   string
		change domain.PasswordChange
		field  string
		code   domain.ErrorCode
	}{
		{"wrong old", domain.PasswordChange{OldPassword: "nope", NewPassword1: "lagos-lizards-2026", NewPassword2: "lagos-lizards-2026"}, fieldOldPassword, domain.CodeInvalidOldPassword},
		{"mismatch", domain.PasswordChange{OldPassword: seedPassword, NewPassword1: "lagos-lizards-2026", NewPassword2: "lagos-lizards-2027"}, fieldNewPassword2, domain.CodePasswordMismatch},
		{"too short", domain.PasswordChange{OldPassword: seedPassword, NewPassword1: "short", NewPassword2: "short"}, fieldNewPassword2, domain.CodePasswordTooShort},
		{"similar", domain.PasswordChange{OldPassword: seedPassword, NewPassword1: "abena-rocks", NewPassword2: "abena-rocks"}, fieldNewPassword2, domain.CodePasswordSimilar},
		{"missing", domain.PasswordChange{OldPassword: seedPassword}, fieldNewPassword1, domain.CodeRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), who, tc.change, domain.CaptchaAnswer{})
			verr, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, fe := range verr.Fields {
				if fe.Field == tc.field && fe.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s on %s, got %+v", tc.code, tc.field, verr.Fields)
			}
		})
	}

	after, _ := store.FindByUsername(context.Background(), "abena")
	if after.PasswordHash != before.PasswordHash {
		t.Errorf("password hash must not change on rejection")
	}
}

func TestAccountService_UpdateAccount_EmailTakenByAnotherAccount(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)
	if _, err := store.Create(context.Background(), &domain.User{Username: "kofi", Email: "kofi@pycon.africa"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{Email: "KOFI@pycon.africa"}, domain.CaptchaAnswer{})
	verr, ok := domain.AsValidationError(err)
	if !ok || !verr.Has(domain.CodeDuplicateEmail) {
		t.Fatalf("expected duplicate_email, got %v", err)
	}
	u, _ := store.FindByUsername(context.Background(), "abena")
	if u.Email != "abena@pycon.africa" {
		t.Errorf("email must not change on rejection, got %s", u.Email)
	}

	// Re-submitting the caller's own address in another case is not a conflict.
	if _, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{Email: "Abena@PYCON.africa"}, domain.CaptchaAnswer{}); err != nil {
		t.Fatalf("own email rejected: %v", err)
	}
}

func TestAccountService_UpdateAccount_EmailLookupFailure(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)
	store.lookupErr = errors.New("server selection timeout")

	_, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{Email: "new@pycon.africa"}, domain.CaptchaAnswer{})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := domain.AsValidationError(err); ok {
		t.Fatalf("store failure must be fatal, got validation error %v", err)
	}
}

func TestAccountService_UpdateAccount_DuplicateEmailAllowedWhenDisabled(t *testing.T) {
	_, store, who := seededAccountService(t, nil)
	if _, err := store.Create(context.Background(), &domain.User{Username: "kofi", Email: "kofi@pycon.africa"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewAccountService(store, stubCountries{}, nil, validation.DefaultPasswordPolicy(8), AccountOptions{}, nopLogger)

	if _, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{Email: "kofi@pycon.africa"}, domain.CaptchaAnswer{}); err != nil {
		t.Fatalf("expected shared email to be accepted, got %v", err)
	}
}

func TestAccountService_CaptchaReceivesRemoteIP(t *testing.T) {
	captcha := &recordingCaptcha{}
	svc, _, who := seededAccountService(t, captcha)
	answer := domain.CaptchaAnswer{Token: "token", RemoteIP: "197.255.10.4"}

	if _, err := svc.UpdateProfile(context.Background(), who, domain.Profile{}, answer); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if _, err := svc.UpdateAccount(context.Background(), who, domain.AccountUpdate{}, answer); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	err := svc.ChangePassword(context.Background(), who, domain.PasswordChange{
		OldPassword:  seedPassword,
		NewPassword1: "lagos-lizards-2026",
		NewPassword2: "lagos-lizards-2026",
	}, answer)
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if len(captcha.calls) != 3 {
		t.Fatalf("expected 3 captcha checks, got %d", len(captcha.calls))
	}
	for i, got := range captcha.calls {
		if got != answer {
			t.Errorf("call %d: verifier got %+v, want %+v", i, got, answer)
		}
	}
}

func TestAccountService_ChangePassword_OverBcryptLimit(t *testing.T) {
	svc, store, who := seededAccountService(t, nil)
	before, _ := store.FindByUsername(context.Background(), "abena")
	long := strings.Repeat("snake-", 13)

	err := svc.ChangePassword(context.Background(), who, domain.PasswordChange{
		OldPassword:  seedPassword,
		NewPassword1: long,
		NewPassword2: long,
	}, domain.CaptchaAnswer{})
	verr, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != fieldNewPassword2 || verr.Fields[0].Code != domain.CodePasswordTooLong {
		t.Fatalf("expected password_too_long on %s, got %+v", fieldNewPassword2, verr.Fields)
	}

	after, _ := store.FindByUsername(context.Background(), "abena")
	if after.PasswordHash != before.PasswordHash {
		t.Errorf("password hash must not change on rejection")
	}
}
