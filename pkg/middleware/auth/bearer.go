package authmw

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

const claimsKey = "auth.claims"

type principalCtxKey struct{}

type Verifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// RequireAuth accepts only "Authorization: Bearer <token>" requests carrying a
// token the verifier trusts, and stores the principal on the request.
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (interface{}, error) {
			return v.Verify(raw)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsKey).(*tokens.Claims)
			if !ok {
				return
			}
			p := claims.Principal()
			ctx := context.WithValue(c.Request().Context(), principalCtxKey{}, p)
			l := logging.FromContext(ctx).With("principal_id", p.ID, "principal_kind", p.Kind)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth")
			if errors.Is(err, tokens.ErrInvalidToken) {
				l.Warn("token_rejected", "status", http.StatusUnauthorized, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			l.Warn("authorization_header_rejected", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
		},
	})
}

func FromContext(ctx context.Context) (tokens.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(tokens.Principal)
	return p, ok
}

func Principal(c echo.Context) (tokens.Principal, bool) {
	return FromContext(c.Request().Context())
}

// RequireKind must run after RequireAuth.
func RequireKind(kinds ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			for _, k := range kinds {
				if p.Kind == k {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden for "+p.Kind)
		}
	}
}

// RequireOwner rejects requests whose path parameter is not the principal id.
// A parameter that is not a uuid is a bad request.
func RequireOwner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			want, err := uuid.Parse(c.Param(param))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
			}
			if id, err := uuid.Parse(p.ID); err != nil || id != want {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
