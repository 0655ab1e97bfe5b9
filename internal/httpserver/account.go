package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

// AccountHTTP serves register/login/logout for one principal kind.
type AccountHTTP struct {
	Svc  *service.AccountService
	Kind models.Kind
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", string(h.Kind)+".register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, l, "register", &req); err != nil {
		return err
	}

	acc, err := h.Svc.Register(ctx, h.Kind, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "register", err)
	}

	return c.JSON(http.StatusOK, transport.RegisterResponse{
		Message: string(h.Kind) + " registered successfully",
		Account: acc,
	})
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", string(h.Kind)+".login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, l, "login", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, h.Kind, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info("login_successful", "account_id", res.Account.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:   "login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// Logout is stateless: the client drops its token.
func (h *AccountHTTP) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: string(h.Kind) + " logged out"})
}
