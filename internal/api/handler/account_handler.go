package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/api/metrics"
	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

// AccountHandler serves the authenticated self-service endpoints.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Me returns the caller's account.
//
// @Summary      Current account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), who.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile replaces the caller's profile.
//
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  validationResponse
// @Router       /me/profile [put]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), who, req.toDomain(), captchaAnswer(c, req.CaptchaToken))
	if err != nil {
		return err
	}

	metrics.AccountChangesTotal.WithLabelValues("profile").Inc()
	return c.JSON(http.StatusOK, user)
}

// UpdateAccount changes the caller's name and email.
//
// @Summary      Update account fields
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      accountRequest  true  "Account fields"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  validationResponse
// @Router       /me/account [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), who, domain.AccountUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, captchaAnswer(c, req.CaptchaToken))
	if err != nil {
		return err
	}

	metrics.AccountChangesTotal.WithLabelValues("account").Inc()
	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      passwordChangeRequest  true  "Old and new passwords"
// @Success      200   {object}  statusResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  validationResponse
// @Router       /me/password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req passwordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err = h.service.ChangePassword(c.Request().Context(), who, domain.PasswordChange{
		OldPassword:  req.OldPassword,
		NewPassword1: req.NewPassword1,
		NewPassword2: req.NewPassword2,
	}, captchaAnswer(c, req.CaptchaToken))
	if err != nil {
		return err
	}

	metrics.AccountChangesTotal.WithLabelValues("password").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "password changed"})
}

// GetUser looks up any account by username. Admins only.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.User
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *AccountHandler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func captchaAnswer(c echo.Context, token string) domain.CaptchaAnswer {
	return domain.CaptchaAnswer{Token: token, RemoteIP: c.RealIP()}
}
