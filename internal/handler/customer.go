package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/repository"
)

// CustomerHandler serves customer profiles: self-service for the
// signed-in customer, listings and activation for staff.
type CustomerHandler struct {
	Profiles *repository.ProfileRepo
	Accounts *repository.AccountRepo
}

func NewCustomerHandler(p *repository.ProfileRepo, a *repository.AccountRepo) *CustomerHandler {
	return &CustomerHandler{Profiles: p, Accounts: a}
}

type customerProfileReq struct {
	FullName  string  `json:"fullName"`
	Address   *string `json:"address"`
	BirthDate *string `json:"birthDate"` // yyyy-mm-dd
}

// MyProfile returns the caller's own customer profile.
func (h *CustomerHandler) MyProfile(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Profiles.GetCustomerByAccount(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateMyProfile overwrites the caller's own profile fields.
func (h *CustomerHandler) UpdateMyProfile(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req customerProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fullName required"})
	}
	birth, ok := parseDate(req.BirthDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthDate must be yyyy-mm-dd"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Profiles.UpdateCustomerProfile(ctx, id, model.CustomerProfile{
		FullName:  req.FullName,
		Address:   req.Address,
		BirthDate: birth,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// List returns one page of customers (staff).
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Profiles.ListCustomers(ctx, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list customers failed"})
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns one customer by customer id (staff).
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Profiles.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load customer failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// SearchByPhone returns customers whose phone matches exactly (staff).
func (h *CustomerHandler) SearchByPhone(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone query required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Profiles.SearchCustomersByPhone(ctx, phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search customers failed"})
	}
	if items == nil {
		items = []repository.CustomerView{}
	}
	return c.JSON(http.StatusOK, items)
}

type setActiveReq struct {
	IsActive bool `json:"isActive"`
}

// SetActive flips the account active flag of a customer (admin).
// Inactive accounts cannot log in; issued access tokens run out on
// their own.
func (h *CustomerHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Profiles.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load customer failed"})
	}
	if err := h.Accounts.UpdateContact(ctx, v.AccountID, v.Email, v.Phone, req.IsActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account updated"})
}
