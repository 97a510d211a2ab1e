package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/handler"
	"github.com/haichau/electrostore/internal/middleware"
)

// RegisterCustomer registers the customer self-service endpoints: the
// cart, checkout, order history and the own profile. All routes
// require a valid JWT with the CUSTOMER role. Order detail is shared
// with staff and registered separately.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, orders *handler.OrderHandler, customers *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)

	g.GET("/cart", cart.View)
	g.POST("/cart/add", cart.Add)
	g.PUT("/cart/update", cart.Update)
	g.DELETE("/cart/remove/:productId", cart.Remove)
	g.DELETE("/cart/clear", cart.Clear)

	g.POST("/orders/checkout", orders.Checkout)
	g.GET("/orders", orders.MyOrders)

	g.GET("/profile", customers.MyProfile)
	g.PUT("/profile", customers.UpdateMyProfile)

	// Order detail is readable by the owner and by staff; the handler
	// enforces ownership for customers.
	shared := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "EMPLOYEE", "ADMIN"),
	)
	shared.GET("/orders/:id", orders.Get)
}
