package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/core/domain"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubRegistrationService{
		registerFn: func(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error) {
			if req.Username != "Abena" || req.Password1 != "gr8-snakes" || req.Password2 != "gr8-snakes" {
				t.Errorf("unexpected request: %+v", req)
			}
			if !req.AcceptTOS || req.CaptchaToken != "tok" {
				t.Errorf("tos and captcha not forwarded: %+v", req)
			}
			return &domain.User{ID: "u1", Username: "abena", Email: req.Email, Role: domain.RoleMember}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/auth/register",
		`{"username":"Abena","email":"abena@pycon.africa","password1":"gr8-snakes","password2":"gr8-snakes","tos":true,"captcha_token":"tok"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "abena" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_ValidationErrorPassesThrough(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("email", domain.CodeBannedEmailDomain, "Please supply a different email address.")

	stub := &stubRegistrationService{
		registerFn: func(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error) {
			return nil, verr
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/register", `{"username":"abena","email":"abena@email.com"}`)

	err := NewAuthHandler(stub).Register(c)
	got, ok := domain.AsValidationError(err)
	if !ok || !got.Has(domain.CodeBannedEmailDomain) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubRegistrationService{
		registerFn: func(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error) {
			t.Errorf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/register", "not-json")

	err := NewAuthHandler(stub).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubRegistrationService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			if username != "abena" || password != "secret" {
				t.Errorf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.User{Username: "abena", Role: domain.RoleMember}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/v1/auth/login", `{"username":"abena","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	for _, svcErr := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		stub := &stubRegistrationService{
			loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
				return "", nil, svcErr
			},
		}
		c, _ := newJSONContext(http.MethodPost, "/v1/auth/login", `{"username":"ghost","password":"pwd"}`)

		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %v, got %v", svcErr, err)
		}
	}
}

func TestAuthHandler_Login_Inactive(t *testing.T) {
	stub := &stubRegistrationService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrAccountInactive
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/login", `{"username":"abena","password":"pwd"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubRegistrationService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			t.Errorf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/auth/login", `{"username":""}`)

	err := NewAuthHandler(stub).Login(c)
	verr, ok := domain.AsValidationError(err)
	if !ok || !verr.HasField("username") || !verr.HasField("password") {
		t.Fatalf("expected username and password to be required, got %v", err)
	}
}

func TestAuthHandler_Activate(t *testing.T) {
	stub := &stubRegistrationService{
		activateFn: func(ctx context.Context, key string) (*domain.User, error) {
			if key != "0b7e4c52-5d1b-4a43-9d0e-1a4f5f4f2c11" {
				return nil, domain.ErrActivationKeyInvalid
			}
			return &domain.User{Username: "abena", IsActive: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/auth/activate", `{"key":"0b7e4c52-5d1b-4a43-9d0e-1a4f5f4f2c11"}`)
	if err := h.Activate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newJSONContext(http.MethodPost, "/v1/auth/activate", `{"key":"stale"}`)
	if err := h.Activate(c); !errors.Is(err, domain.ErrActivationKeyInvalid) {
		t.Fatalf("expected ErrActivationKeyInvalid, got %v", err)
	}
}

func TestAuthHandler_ResendActivation(t *testing.T) {
	var got string
	stub := &stubRegistrationService{
		resendFn: func(ctx context.Context, email string) error {
			got = email
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/auth/activation/resend", `{"email":"abena@pycon.africa"}`)
	if err := h.ResendActivation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted || got != "abena@pycon.africa" {
		t.Fatalf("expected 202 for abena, got %d for %q", rec.Code, got)
	}

	c, _ = newJSONContext(http.MethodPost, "/v1/auth/activation/resend", `{"email":"not-an-email"}`)
	verr, ok := domain.AsValidationError(h.ResendActivation(c))
	if !ok || !verr.HasField("email") {
		t.Fatalf("expected email field error")
	}
}
