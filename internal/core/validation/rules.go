package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

const (
	msgRequired          = "This field is required."
	msgUsernameInvalid   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgUsernameTooLong   = "Ensure this value has at most 150 characters."
	msgEmailInvalid      = "Enter a valid email address."
	msgPasswordMismatch  = "The two password fields didn't match."
	msgDuplicateUsername = "A user with that username already exists."
	msgDuplicateEmail    = "This email address is already in use. Please supply a different email address."
	msgBannedDomain      = "Registration using free email addresses is prohibited. Please supply a different email address."
	msgTermsNotAccepted  = "You must agree to the terms to register"
	msgCaptchaInvalid    = "Error verifying reCAPTCHA, please try again."

	maxUsernameLength = 150
)

// Letters and digits from any script, like Django's unicode username validator.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// UserLookup is the part of the user store the registration rules read.
type UserLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Required rejects empty username, email and password fields.
func Required() Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)

		for _, f := range []struct {
			name, value string
		}{
			{FieldUsername, req.Username},
			{FieldEmail, req.Email},
			{FieldPassword1, req.Password1},
			{FieldPassword2, req.Password2},
		} {
			if f.value == "" {
				verr.Add(f.name, domain.CodeRequired, msgRequired)
			}
		}
		return nil
	})
}

// UsernameFormat restricts usernames to letters, digits and @.+-_ characters.
func UsernameFormat() Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if req.Username == "" || verr.HasField(FieldUsername) {
			return nil
		}
		if utf8.RuneCountInString(req.Username) > maxUsernameLength {
			verr.Add(FieldUsername, domain.CodeInvalid, msgUsernameTooLong)
			return nil
		}
		if !usernamePattern.MatchString(req.Username) {
			verr.Add(FieldUsername, domain.CodeInvalid, msgUsernameInvalid)
		}
		return nil
	})
}

// EmailFormat rejects addresses that are not valid RFC 5322 addresses.
func EmailFormat() Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if req.Email == "" || verr.HasField(FieldEmail) {
			return nil
		}
		if !ValidEmail(req.Email) {
			verr.Add(FieldEmail, domain.CodeMalformedEmail, msgEmailInvalid)
		}
		return nil
	})
}

// PasswordsMatch requires both password entries to be identical.
func PasswordsMatch() Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if req.Password1 == "" || req.Password2 == "" {
			return nil
		}
		if req.Password1 != req.Password2 {
			verr.Add(FieldPassword2, domain.CodePasswordMismatch, msgPasswordMismatch)
		}
		return nil
	})
}

// Password applies policy to the chosen password.
func Password(policy PasswordPolicy) Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if req.Password2 == "" || verr.HasField(FieldPassword2) {
			return nil
		}
		if fe := policy.Check(FieldPassword2, req.Password2, req.Username, req.Email); fe != nil {
			verr.Add(fe.Field, fe.Code, fe.Message)
		}
		return nil
	})
}

// UniqueUsername rejects usernames already present in the store, compared
// case-insensitively. The submitted spelling is kept.
func UniqueUsername(store UserLookup) Rule {
	return RuleFunc(func(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		return checkUsername(ctx, store, req.Username, verr)
	})
}

// UsernameLowercase lowercases the username and then rejects it if any
// account already uses it in any letter case.
func UsernameLowercase(store UserLookup) Rule {
	return RuleFunc(func(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		req.Username = strings.ToLower(req.Username)
		return checkUsername(ctx, store, req.Username, verr)
	})
}

func checkUsername(ctx context.Context, store UserLookup, username string, verr *domain.ValidationError) error {
	if username == "" || verr.HasField(FieldUsername) {
		return nil
	}
	exists, err := store.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("username lookup: %w", err)
	}
	if exists {
		verr.Add(FieldUsername, domain.CodeDuplicateUsername, msgDuplicateUsername)
	}
	return nil
}

// UniqueEmail rejects email addresses already registered, compared
// case-insensitively.
func UniqueEmail(store UserLookup) Rule {
	return RuleFunc(func(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		return CheckEmailAvailable(ctx, store, FieldEmail, req.Email, verr)
	})
}

// CheckEmailAvailable records duplicate_email on field when another account
// already uses email. Empty or already rejected fields are skipped.
func CheckEmailAvailable(ctx context.Context, store UserLookup, field, email string, verr *domain.ValidationError) error {
	if email == "" || verr.HasField(field) {
		return nil
	}
	exists, err := store.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("email lookup: %w", err)
	}
	if exists {
		verr.Add(field, domain.CodeDuplicateEmail, msgDuplicateEmail)
	}
	return nil
}

// NoFreeEmail rejects addresses whose domain is in bannedDomains. Domains are
// compared case-insensitively. An address without "@" is reported as
// malformed.
func NoFreeEmail(bannedDomains []string) Rule {
	banned := make(map[string]struct{}, len(bannedDomains))
	for _, d := range bannedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			banned[d] = struct{}{}
		}
	}

	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if req.Email == "" || verr.HasField(FieldEmail) {
			return nil
		}
		domainPart, ok := EmailDomain(req.Email)
		if !ok {
			verr.Add(FieldEmail, domain.CodeMalformedEmail, msgEmailInvalid)
			return nil
		}
		if _, hit := banned[strings.ToLower(domainPart)]; hit {
			verr.Add(FieldEmail, domain.CodeBannedEmailDomain, msgBannedDomain)
		}
		return nil
	})
}

// EmailDomain returns the segment between the first "@" and the next one.
// ok is false when email contains no "@".
func EmailDomain(email string) (string, bool) {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// TermsOfService requires the terms-of-service box to be ticked.
func TermsOfService() Rule {
	return RuleFunc(func(_ context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		if !req.AcceptTOS {
			verr.Add(FieldTOS, domain.CodeTermsNotAccepted, msgTermsNotAccepted)
		}
		return nil
	})
}

// Captcha verifies the captcha response token with verifier.
func Captcha(verifier ports.CaptchaVerifier) Rule {
	return RuleFunc(func(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
		return CheckCaptcha(ctx, verifier, req.CaptchaToken, req.RemoteIP, verr)
	})
}

// CheckCaptcha records a captcha failure on verr. A nil verifier accepts
// everything.
func CheckCaptcha(ctx context.Context, verifier ports.CaptchaVerifier, token, remoteIP string, verr *domain.ValidationError) error {
	if verifier == nil {
		return nil
	}
	if token == "" {
		verr.Add(FieldCaptcha, domain.CodeRequired, msgRequired)
		return nil
	}
	ok, err := verifier.Verify(ctx, token, remoteIP)
	if err != nil {
		return fmt.Errorf("captcha verify: %w", err)
	}
	if !ok {
		verr.Add(FieldCaptcha, domain.CodeCaptchaInvalid, msgCaptchaInvalid)
	}
	return nil
}

// ValidEmail reports whether email is a syntactically valid address.
func ValidEmail(email string) bool {
	return validate.Var(email, "email") == nil
}

// DuplicateUsername is the rejection reported when the store refuses a
// username at save time.
func DuplicateUsername() *domain.ValidationError {
	verr := &domain.ValidationError{}
	verr.Add(FieldUsername, domain.CodeDuplicateUsername, msgDuplicateUsername)
	return verr
}
