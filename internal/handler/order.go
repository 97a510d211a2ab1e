package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/queue"
	"github.com/haichau/electrostore/internal/repository"
	queue_publisher "github.com/haichau/electrostore/internal/service"
)

// OrderHandler serves checkout, order history and the staff-side
// status machine.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

func NewOrderHandler(o *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Orders: o}
}

type checkoutReq struct {
	PaymentMethod   *string `json:"paymentMethod"`
	ShippingAddress *string `json:"shippingAddress"`
	Note            *string `json:"note"`
}

type orderStatusReq struct {
	Status string `json:"status"`
}

// Checkout converts the caller's cart into an order in one
// transaction, then publishes order.placed as best effort.
func (h *OrderHandler) Checkout(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Orders.Checkout(ctx, id, req.PaymentMethod, req.ShippingAddress, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Your cart is empty."})
		case errors.Is(err, repository.ErrInsufficientStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient inventory"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	// Best effort: a broker outage must not fail the placed order.
	go publishOrderPlaced(detail, callerEmail(c))

	return c.JSON(http.StatusCreated, detail)
}

func publishOrderPlaced(d repository.OrderDetail, email string) {
	ev := queue.OrderPlacedEvent{
		OrderID:     d.Order.ID,
		Code:        d.Order.Code,
		AccountID:   d.Order.AccountID,
		Email:       email,
		TotalAmount: d.Order.TotalAmount,
		PlacedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, it := range d.Items {
		ev.Items = append(ev.Items, queue.OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queue_publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("order: publish order.placed for %s failed: %v", d.Order.Code, err)
	}
}

// MyOrders returns the caller's orders, newest first.
func (h *OrderHandler) MyOrders(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByAccount(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order with items. Customers only see their own;
// staff see all.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	caller, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}

	role := callerRole(c)
	staff := role == string(model.RoleAdmin) || role == string(model.RoleEmployee)
	if !staff && detail.Order.AccountID != caller {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListAll returns one page of all orders (staff).
func (h *OrderHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Orders.ListAll(ctx, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateStatus moves an order along the status machine (staff).
// Cancelling restores the stock decremented at checkout.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidOrderStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, id, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update order failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order updated"})
}
