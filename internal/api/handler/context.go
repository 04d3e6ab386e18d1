package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/core/domain"
)

// ctxIdentity extracts the caller injected by the Auth middleware. A token
// without a subject or username is structurally valid but unusable.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	who := domain.Identity{}
	who.UserID, _ = c.Get("user_id").(string)
	who.Username, _ = c.Get("username").(string)
	who.Role, _ = c.Get("role").(string)

	if who.UserID == "" || who.Username == "" || who.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return who, nil
}
