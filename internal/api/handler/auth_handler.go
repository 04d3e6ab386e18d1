package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/api/metrics"
	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

type AuthHandler struct {
	service ports.RegistrationService
}

func NewAuthHandler(service ports.RegistrationService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Required fields on sign-up are checked by the registration rules so that
// every rejected field is reported together.
type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password1    string `json:"password1"`
	Password2    string `json:"password2"`
	AcceptTOS    bool   `json:"tos"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type activateRequest struct {
	Key string `json:"key" validate:"required"`
}

type resendActivationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Sign-up form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  validationResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Register(c.Request().Context(), domain.RegistrationRequest{
		Username:     req.Username,
		Email:        req.Email,
		Password1:    req.Password1,
		Password2:    req.Password2,
		AcceptTOS:    req.AcceptTOS,
		CaptchaToken: req.CaptchaToken,
		RemoteIP:     c.RealIP(),
	})
	if err != nil {
		if _, ok := domain.AsValidationError(err); ok {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  validationResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			// Unknown usernames and bad passwords look the same from outside.
			return domain.ErrInvalidCredentials
		case errors.Is(err, domain.ErrAccountInactive):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Activate marks the account behind an emailed key as active.
//
// @Summary      Activate an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      activateRequest  true  "Activation key"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/activate [post]
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Activate(c.Request().Context(), req.Key)
	if err != nil {
		if errors.Is(err, domain.ErrActivationKeyInvalid) {
			metrics.ActivationsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.ActivationsTotal.WithLabelValues("activated").Inc()
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// ResendActivation mails a fresh activation key. The response never reveals
// whether an inactive account exists for the address.
//
// @Summary      Resend the activation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendActivationRequest  true  "Account email"
// @Success      202   {object}  statusResponse
// @Failure      422   {object}  validationResponse
// @Router       /auth/activation/resend [post]
func (h *AuthHandler) ResendActivation(c echo.Context) error {
	var req resendActivationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ResendActivation(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, statusResponse{Status: "activation email sent if the account is pending activation"})
}
