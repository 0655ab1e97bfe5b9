package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	authmw "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
)

type Deps struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Orders   *service.OrderService
	Skills   *service.SkillService
	Tokens   authmw.Verifier
	Metrics  *metrics.Metrics
	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
}

var accountRoutes = []struct {
	prefix string
	kind   models.Kind
}{
	{"/users", models.KindUser},
	{"/clients", models.KindClient},
	{"/developer", models.KindDeveloper},
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("readiness_failed", "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	auth := authmw.RequireAuth(d.Tokens)
	owner := authmw.RequireOwner("userId")

	for _, r := range accountRoutes {
		h := &AccountHTTP{Svc: d.Accounts, Kind: r.kind}
		g := e.Group(r.prefix)
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
		g.GET("/logout", h.Logout, auth)
	}

	skills := &SkillHTTP{Svc: d.Skills}
	e.POST("/skills/add", skills.Create)
	e.GET("/skills", skills.List)
	e.POST("/developer/onboarding", skills.Onboard, auth, authmw.RequireKind(string(models.KindDeveloper)))
	e.GET("/developer/onboarding/:id", skills.GetOnboarding, auth)

	catalog := &CatalogHTTP{Svc: d.Catalog}
	categories := e.Group("/categories")
	categories.POST("/add", catalog.CreateCategory)
	categories.GET("/allcategories", catalog.ListCategories)

	products := e.Group("/products")
	products.POST("/addproduct/:categoryId", catalog.CreateProduct)
	products.GET("/details/:productId", catalog.ProductDetails)
	products.GET("/allproducts", catalog.ListProducts)
	products.GET("/byCategoryName/:categoryName", catalog.ProductsByCategoryName)
	products.GET("/search", catalog.Search)

	cartH := &CartHTTP{Svc: d.Cart}
	cart := e.Group("/cart", auth)
	cart.GET("/totalQuantity/:userId", cartH.TotalQuantity, owner)
	cart.POST("/add", cartH.Add)
	cart.GET("/view/:userId", cartH.View, owner)
	cart.PUT("/update/:cartItemId", cartH.Update)
	cart.DELETE("/remove/:cartItemId", cartH.Remove)

	orderH := &OrderHTTP{Svc: d.Orders}
	orders := e.Group("/orders", auth)
	orders.POST("/placeOrder/:userId", orderH.Place, owner)
	orders.GET("/history/:userId", orderH.History, owner)
	orders.GET("/details/:orderId", orderH.Details)
}
