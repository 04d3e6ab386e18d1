package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/core/domain"
)

type stubRegistrationService struct {
	registerFn func(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error)
	activateFn func(ctx context.Context, key string) (*domain.User, error)
	resendFn   func(ctx context.Context, email string) error
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubRegistrationService) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error) {
	return s.registerFn(ctx, req)
}

func (s *stubRegistrationService) Activate(ctx context.Context, key string) (*domain.User, error) {
	return s.activateFn(ctx, key)
}

func (s *stubRegistrationService) ResendActivation(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func (s *stubRegistrationService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

type stubAccountService struct {
	getUserFn        func(ctx context.Context, username string) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, who domain.Identity, profile domain.Profile, captcha domain.CaptchaAnswer) (*domain.User, error)
	updateAccountFn  func(ctx context.Context, who domain.Identity, update domain.AccountUpdate, captcha domain.CaptchaAnswer) (*domain.User, error)
	changePasswordFn func(ctx context.Context, who domain.Identity, change domain.PasswordChange, captcha domain.CaptchaAnswer) error
}

func (s *stubAccountService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserFn(ctx, username)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, who domain.Identity, profile domain.Profile, captcha domain.CaptchaAnswer) (*domain.User, error) {
	return s.updateProfileFn(ctx, who, profile, captcha)
}

func (s *stubAccountService) UpdateAccount(ctx context.Context, who domain.Identity, update domain.AccountUpdate, captcha domain.CaptchaAnswer) (*domain.User, error) {
	return s.updateAccountFn(ctx, who, update, captcha)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, who domain.Identity, change domain.PasswordChange, captcha domain.CaptchaAnswer) error {
	return s.changePasswordFn(ctx, who, change, captcha)
}

// newJSONContext builds an echo context for a JSON request with the payload
// validator installed.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets the claims the Auth middleware would inject.
func authenticate(c echo.Context, who domain.Identity) {
	c.Set("user_id", who.UserID)
	c.Set("username", who.Username)
	c.Set("role", who.Role)
}

var abena = domain.Identity{UserID: "665f1c2e9b1d4a0012345678", Username: "abena", Role: domain.RoleMember}

