// Package validation decides whether a registration submission is acceptable
// before it reaches the user store.
//
// Each check is an independent Rule. Callers compose the rules they want with
// New; Validate runs all of them and returns every field failure at once.
package validation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

// Field names used in field errors.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword1 = "password1"
	FieldPassword2 = "password2"
	FieldTOS       = "tos"
	FieldCaptcha   = "captcha"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rule checks one aspect of a registration request. Field failures are
// recorded on verr; a returned error means the check itself could not run
// and aborts validation. A rule may normalise req in place.
type Rule interface {
	Check(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error

func (f RuleFunc) Check(ctx context.Context, req *domain.RegistrationRequest, verr *domain.ValidationError) error {
	return f(ctx, req, verr)
}

// Validator runs a fixed list of rules in order.
type Validator struct {
	rules []Rule
}

// New returns a Validator running rules in the given order.
func New(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate returns the normalised request when every rule passes. Otherwise
// it returns a *domain.ValidationError with one entry per rejected field, or
// the first error a rule could not recover from.
func (v *Validator) Validate(ctx context.Context, req domain.RegistrationRequest) (domain.RegistrationRequest, error) {
	verr := &domain.ValidationError{}
	for _, r := range v.rules {
		if err := r.Check(ctx, &req, verr); err != nil {
			return req, fmt.Errorf("validate registration: %w", err)
		}
	}
	if err := verr.Err(); err != nil {
		return req, err
	}
	return req, nil
}

// Options selects which optional rules Registration composes.
type Options struct {
	LowercaseUsername  bool
	UniqueEmail        bool
	BannedEmailDomains []string
	RequireTOS         bool
}

// Registration composes the standard sign-up rule set. captcha may be nil to
// skip captcha verification.
func Registration(store UserLookup, captcha ports.CaptchaVerifier, opts Options, policy PasswordPolicy) *Validator {
	rules := []Rule{
		Required(),
		UsernameFormat(),
		EmailFormat(),
		PasswordsMatch(),
		Password(policy),
	}
	if opts.LowercaseUsername {
		rules = append(rules, UsernameLowercase(store))
	} else {
		rules = append(rules, UniqueUsername(store))
	}
	if len(opts.BannedEmailDomains) > 0 {
		rules = append(rules, NoFreeEmail(opts.BannedEmailDomains))
	}
	if opts.UniqueEmail {
		rules = append(rules, UniqueEmail(store))
	}
	if opts.RequireTOS {
		rules = append(rules, TermsOfService())
	}
	if captcha != nil {
		rules = append(rules, Captcha(captcha))
	}
	return New(rules...)
}
