package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := uuidParam(c, l, "place_order", "userId")
	if err != nil {
		return err
	}

	order, err := h.Svc.PlaceOrder(ctx, userID)
	if err != nil {
		return fail(l, "place_order", err)
	}

	return c.JSON(http.StatusOK, transport.PlaceOrderResponse{
		Message: "Order placed successfully",
		Order:   order,
	})
}

func (h *OrderHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	userID, err := uuidParam(c, l, "order_history", "userId")
	if err != nil {
		return err
	}
	orders, err := h.Svc.History(ctx, userID)
	if err != nil {
		return fail(l, "order_history", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Details(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.details")

	userID, err := principalID(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, l, "order_details", "orderId")
	if err != nil {
		return err
	}

	order, err := h.Svc.Details(ctx, userID, orderID)
	if err != nil {
		return fail(l, "order_details", err)
	}
	return c.JSON(http.StatusOK, order)
}
