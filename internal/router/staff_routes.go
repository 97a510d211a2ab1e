package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/handler"
	"github.com/haichau/electrostore/internal/middleware"
)

// RegisterStaff registers the back-office surface. Catalog and order
// management is open to both staff roles; employee management and
// customer activation are admin-only.
func RegisterStaff(e *echo.Echo, products *handler.ProductHandler, catalog *handler.CatalogHandler, customers *handler.CustomerHandler, employees *handler.EmployeeHandler, orders *handler.OrderHandler, jwtSecret string) {
	staff := e.Group(
		"/v1/staff",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "EMPLOYEE"),
	)

	staff.POST("/products", products.Create)
	staff.PUT("/products/:id", products.Update)
	staff.DELETE("/products/:id", products.Delete)

	staff.POST("/categories", catalog.CreateCategory)
	staff.PUT("/categories/:id", catalog.UpdateCategory)
	staff.DELETE("/categories/:id", catalog.DeleteCategory)

	staff.POST("/brands", catalog.CreateBrand)
	staff.PUT("/brands/:id", catalog.UpdateBrand)
	staff.DELETE("/brands/:id", catalog.DeleteBrand)

	staff.GET("/banners", catalog.ListAllBanners)
	staff.GET("/banners/:id", catalog.GetBanner)
	staff.POST("/banners", catalog.CreateBanner)
	staff.PUT("/banners/:id", catalog.UpdateBanner)
	staff.DELETE("/banners/:id", catalog.DeleteBanner)

	staff.GET("/customers", customers.List)
	staff.GET("/customers/search", customers.SearchByPhone)
	staff.GET("/customers/:id", customers.Get)

	staff.GET("/orders", orders.ListAll)
	staff.PATCH("/orders/:id/status", orders.UpdateStatus)

	admin := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	admin.POST("/employees", employees.Create)
	admin.GET("/employees", employees.List)
	admin.GET("/employees/search", employees.SearchByPhone)
	admin.GET("/employees/:id", employees.Get)
	admin.PUT("/employees/:id", employees.Update)

	admin.PATCH("/customers/:id/active", customers.SetActive)
}
