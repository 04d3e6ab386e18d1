package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pyconafrica/registration/internal/core/domain"
)

const defaultMinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// minSimilarLength is the shortest user attribute considered when looking
// for a password that repeats it.
const minSimilarLength = 3

var commonPasswords = []string{
	"123456", "123456789", "12345678", "1234567890", "password", "password1",
	"password123", "qwerty", "qwerty123", "qwertyuiop", "abc123", "111111",
	"123123", "iloveyou", "admin", "admin123", "welcome", "welcome1",
	"letmein", "monkey", "dragon", "football", "baseball", "sunshine",
	"princess", "shadow", "master", "superman", "trustno1", "passw0rd",
	"starwars", "whatever", "freedom", "michael", "charlie", "jennifer",
	"computer", "internet", "1q2w3e4r", "zaq12wsx", "asdfghjkl", "changeme",
	"secret", "pycon", "pyconafrica", "python", "python123",
}

// PasswordPolicy holds the password rules applied on registration and on
// password change.
type PasswordPolicy struct {
	MinLength int
	common    map[string]struct{}
}

// DefaultPasswordPolicy returns a policy with the built-in common password
// list and minLength, falling back to 8 when minLength is not positive.
func DefaultPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	common := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		common[p] = struct{}{}
	}
	return PasswordPolicy{MinLength: minLength, common: common}
}

// Check returns the first policy violation of password as a field error on
// field, or nil. userAttrs are values the password must not resemble, such
// as the username and email address.
func (p PasswordPolicy) Check(field, password string, userAttrs ...string) *domain.FieldError {
	if len([]rune(password)) < p.MinLength {
		return &domain.FieldError{
			Field:   field,
			Code:    domain.CodePasswordTooShort,
			Message: fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength),
		}
	}

	if len(password) > MaxPasswordBytes {
		return &domain.FieldError{
			Field:   field,
			Code:    domain.CodePasswordTooLong,
			Message: fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordBytes),
		}
	}

	lower := strings.ToLower(password)
	for _, attr := range similarityCandidates(userAttrs) {
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return &domain.FieldError{
				Field:   field,
				Code:    domain.CodePasswordSimilar,
				Message: "The password is too similar to your personal information.",
			}
		}
	}

	if _, ok := p.common[lower]; ok {
		return &domain.FieldError{Field: field, Code: domain.CodePasswordCommon, Message: "This password is too common."}
	}

	if isNumeric(password) {
		return &domain.FieldError{Field: field, Code: domain.CodePasswordNumeric, Message: "This password is entirely numeric."}
	}
	return nil
}

// similarityCandidates lowercases attrs and splits email addresses so the
// local part is compared on its own.
func similarityCandidates(attrs []string) []string {
	out := make([]string, 0, len(attrs)*2)
	for _, a := range attrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if local, _, found := strings.Cut(a, "@"); found {
			if len(local) >= minSimilarLength {
				out = append(out, local)
			}
		}
		if len(a) >= minSimilarLength {
			out = append(out, a)
		}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
