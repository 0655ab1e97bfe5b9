package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/internal/util"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := bindAndValidate(c, l, "create_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req.Name)
	if err != nil {
		return fail(l, "create_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	categoryID, err := uuidParam(c, l, "create_product", "categoryId")
	if err != nil {
		return err
	}
	var req transport.CreateProductRequest
	if err := bindAndValidate(c, l, "create_product", &req); err != nil {
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, categoryID, service.NewProduct{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Availability: req.Availability,
	})
	if err != nil {
		return fail(l, "create_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) ProductDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.details")

	id, err := uuidParam(c, l, "product_details", "productId")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "product_details", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return fail(l, "list_products", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) ProductsByCategoryName(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category")

	_, items, err := h.Svc.ProductsByCategoryName(ctx, c.Param("categoryName"))
	if err != nil {
		return fail(l, "products_by_category", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		return fail(l, "search", err)
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Products: items})
}
