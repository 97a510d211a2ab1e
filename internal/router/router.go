// Package router wires handlers to routes per audience: public
// storefront reads, auth endpoints, customer self-service and the
// staff/admin surface.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/handler"
	"github.com/haichau/electrostore/internal/middleware"
)

// RegisterPublic registers the unauthenticated storefront reads. The
// cache middleware (a pass-through when Redis is absent) sits only on
// this group; authenticated responses are never cached.
func RegisterPublic(e *echo.Echo, health *handler.HealthHandler, products *handler.ProductHandler, catalog *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", health.Health)

	g := e.Group("/v1", cache)
	g.GET("/products", products.List)
	g.GET("/products/search", products.Search)
	g.GET("/products/:id", products.Get)

	g.GET("/categories", catalog.ListCategories)
	g.GET("/categories/:id", catalog.GetCategory)
	g.GET("/brands", catalog.ListBrands)
	g.GET("/brands/:id", catalog.GetBrand)
	g.GET("/banners", catalog.ListBanners)
}

// RegisterAuth registers session endpoints. The rate limiter runs
// globally; token-holding operations live behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)

	auth := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	auth.POST("/logout", a.Logout)
	auth.POST("/change-password", a.ChangePassword)

	me := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}
