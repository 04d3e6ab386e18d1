package domain

import (
	"errors"
	"strings"
)

// ErrorCode identifies why a field was rejected.
type ErrorCode string

const (
	CodeRequired           ErrorCode = "required"
	CodeInvalid            ErrorCode = "invalid"
	CodeDuplicateUsername  ErrorCode = "duplicate_username"
	CodeDuplicateEmail     ErrorCode = "duplicate_email"
	CodeBannedEmailDomain  ErrorCode = "banned_email_domain"
	CodeMalformedEmail     ErrorCode = "malformed_email"
	CodeTermsNotAccepted   ErrorCode = "terms_not_accepted"
	CodeCaptchaInvalid     ErrorCode = "captcha_invalid"
	CodePasswordMismatch   ErrorCode = "password_mismatch"
	CodePasswordTooShort   ErrorCode = "password_too_short"
	CodePasswordTooLong    ErrorCode = "password_too_long"
	CodePasswordNumeric    ErrorCode = "password_entirely_numeric"
	CodePasswordCommon     ErrorCode = "password_too_common"
	CodePasswordSimilar    ErrorCode = "password_too_similar"
	CodeInvalidOldPassword ErrorCode = "invalid_old_password"
	CodeInvalidCountry     ErrorCode = "invalid_country"
)

// FieldError is a single rejected field with a human-readable message.
type FieldError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ValidationError collects every field rejected during one submission.
// Only the first failure per field is kept; Fields is in check order.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failure for field unless field has already failed.
func (v *ValidationError) Add(field string, code ErrorCode, message string) {
	if v.HasField(field) {
		return
	}
	v.Fields = append(v.Fields, FieldError{Field: field, Code: code, Message: message})
}

// HasField reports whether field has already failed.
func (v *ValidationError) HasField(field string) bool {
	for _, f := range v.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Has reports whether any failure with code was recorded.
func (v *ValidationError) Has(code ErrorCode) bool {
	for _, f := range v.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	msgs := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
