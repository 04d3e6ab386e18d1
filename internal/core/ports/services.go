package ports

import (
	"context"

	"github.com/pyconafrica/registration/internal/core/domain"
)

// RegistrationService covers sign-up, activation and login.
type RegistrationService interface {
	Register(ctx context.Context, req domain.RegistrationRequest) (*domain.User, error)
	Activate(ctx context.Context, key string) (*domain.User, error)
	ResendActivation(ctx context.Context, email string) error
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// AccountService covers changes an authenticated user makes to their own account.
type AccountService interface {
	GetUser(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, who domain.Identity, profile domain.Profile, captcha domain.CaptchaAnswer) (*domain.User, error)
	UpdateAccount(ctx context.Context, who domain.Identity, update domain.AccountUpdate, captcha domain.CaptchaAnswer) (*domain.User, error)
	ChangePassword(ctx context.Context, who domain.Identity, change domain.PasswordChange, captcha domain.CaptchaAnswer) error
}
