package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/repository"
)

// CartHandler serves the caller's cart. The account id is always the
// validated token claim, passed explicitly into every repository call.
type CartHandler struct {
	Cart *repository.CartRepo
}

func NewCartHandler(cart *repository.CartRepo) *CartHandler {
	return &CartHandler{Cart: cart}
}

type cartMutateReq struct {
	ProductID uint64 `json:"productId"`
	Quantity  uint32 `json:"quantity"`
}

// View returns the cart lines with current product display fields. An
// empty cart returns the storefront's marker message instead of [].
func (h *CartHandler) View(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	lines, err := h.Cart.Lines(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "Your cart is empty."})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines})
}

// Add merges quantity into the line for a product, creating it when
// absent. The resulting quantity may not exceed the current stock.
func (h *CartHandler) Add(c echo.Context) error {
	return h.mutate(c, h.Cart.Add)
}

// Update overwrites the quantity of an existing line, with the same
// stock bound as Add. A line that does not exist is a 404.
func (h *CartHandler) Update(c echo.Context) error {
	return h.mutate(c, h.Cart.UpdateQuantity)
}

func (h *CartHandler) mutate(c echo.Context, op func(ctx context.Context, accountID, productID uint64, quantity uint32) error) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cartMutateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 || req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId and a positive quantity are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := op(ctx, id, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		case errors.Is(err, repository.ErrInsufficientStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient inventory"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cart updated"})
}

// Remove deletes one line. Removing a line that is not there is a 404
// and leaves the cart unchanged.
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cart.Remove(ctx, id, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove cart item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (h *CartHandler) Clear(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cart.Clear(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
