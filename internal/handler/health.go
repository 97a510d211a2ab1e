package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "db": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
