package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

// TotalQuantity and View sit behind an owner check on :userId.
func (h *CartHTTP) TotalQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.total_quantity")

	userID, err := uuidParam(c, l, "total_quantity", "userId")
	if err != nil {
		return err
	}
	total, err := h.Svc.TotalQuantity(ctx, userID)
	if err != nil {
		return fail(l, "total_quantity", err)
	}
	return c.JSON(http.StatusOK, transport.TotalQuantityResponse{TotalQuantity: total})
}

func (h *CartHTTP) View(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view")

	userID, err := uuidParam(c, l, "view_cart", "userId")
	if err != nil {
		return err
	}
	items, err := h.Svc.View(ctx, userID)
	if err != nil {
		return fail(l, "view_cart", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := principalID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := bindAndValidate(c, l, "add_to_cart", &req); err != nil {
		return err
	}
	if req.UserID != "" {
		bodyUser, err := uuid.Parse(req.UserID)
		if err != nil {
			return badRequest(l, "add_to_cart", "invalid userId", err)
		}
		if bodyUser != userID {
			l.Warn("add_to_cart_error", "status", http.StatusForbidden, "body_user_id", req.UserID)
			return echo.NewHTTPError(http.StatusForbidden, "cannot modify another user's cart")
		}
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return badRequest(l, "add_to_cart", "invalid productId", err)
	}

	item, err := h.Svc.AddOrIncrement(ctx, userID, productID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}

	l.Info("item added to cart", "cart_item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := principalID(c)
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, l, "update_cart", "cartItemId")
	if err != nil {
		return err
	}

	var req transport.UpdateCartItemRequest
	if err := bindAndValidate(c, l, "update_cart", &req); err != nil {
		return err
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		return fail(l, "update_cart", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := principalID(c)
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, l, "remove_from_cart", "cartItemId")
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, userID, itemID); err != nil {
		return fail(l, "remove_from_cart", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "item removed from cart"})
}
