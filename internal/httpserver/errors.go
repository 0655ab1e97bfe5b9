package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	authmw "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and turns it into the HTTP error the client sees. Store
// failures are reported without detail.
func fail(l *slog.Logger, op string, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "error", err)
		return echo.NewHTTPError(code, http.StatusText(code)).SetInternal(err)
	}
	l.Warn(op+"_error", "status", code, "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(l *slog.Logger, op, msg string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, l *slog.Logger, op string, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(l, op, "invalid body", err)
	}
	if err := c.Validate(req); err != nil {
		return badRequest(l, op, err.Error(), err)
	}
	return nil
}

func uuidParam(c echo.Context, l *slog.Logger, op, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest(l, op, "invalid "+name, err)
	}
	return id, nil
}

func principalID(c echo.Context) (uuid.UUID, error) {
	p, ok := authmw.Principal(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid principal")
	}
	return id, nil
}

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
			msg = http.StatusText(code)
		default:
			msg = fmt.Sprint(m)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, transport.ErrorResponse{Error: msg})
}
