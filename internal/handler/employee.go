package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/config"
	"github.com/haichau/electrostore/internal/mailer"
	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/repository"
	"github.com/haichau/electrostore/internal/utils"
)

// EmployeeHandler serves the admin-side employee management. Creating
// an employee issues a random initial password and mails it.
type EmployeeHandler struct {
	Cfg      config.Config
	Profiles *repository.ProfileRepo
	Accounts *repository.AccountRepo
	Mail     mailer.Mailer
}

func NewEmployeeHandler(cfg config.Config, p *repository.ProfileRepo, a *repository.AccountRepo, m mailer.Mailer) *EmployeeHandler {
	return &EmployeeHandler{Cfg: cfg, Profiles: p, Accounts: a, Mail: m}
}

type createEmployeeReq struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Phone     *string  `json:"phone"`
	FullName  string   `json:"fullName"`
	Address   *string  `json:"address"`
	Position  *string  `json:"position"`
	Salary    *float64 `json:"salary"`
	HireDate  *string  `json:"hireDate"`  // yyyy-mm-dd
	BirthDate *string  `json:"birthDate"` // yyyy-mm-dd
}

type employeeProfileReq struct {
	FullName  string   `json:"fullName"`
	Address   *string  `json:"address"`
	Position  *string  `json:"position"`
	Salary    *float64 `json:"salary"`
	HireDate  *string  `json:"hireDate"`
	BirthDate *string  `json:"birthDate"`
}

// Create inserts an EMPLOYEE account plus profile in one transaction
// and mails the generated initial password. The plaintext never
// appears in the response.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Email == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and fullName are required"})
	}
	hire, ok := parseDate(req.HireDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hireDate must be yyyy-mm-dd"})
	}
	birth, ok := parseDate(req.BirthDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthDate must be yyyy-mm-dd"})
	}

	plain, err := utils.RandomPassword(10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create employee failed"})
	}
	hash, err := utils.HashPassword(plain, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create employee failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Accounts.CreateEmployee(ctx, model.Account{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}, model.EmployeeProfile{
		FullName:  req.FullName,
		Address:   req.Address,
		Position:  req.Position,
		Salary:    req.Salary,
		HireDate:  hire,
		BirthDate: birth,
	})
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create employee failed"})
	}

	if err := h.Mail.SendEmployeeWelcome(req.Email, req.Username, plain); err != nil {
		// The account exists; the admin can recover via forgot-password.
		log.Printf("employee: welcome mail to %s failed: %v", req.Email, err)
		return c.JSON(http.StatusCreated, echo.Map{"id": id, "warning": "employee created but welcome mail failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns one page of employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, err := h.Profiles.ListEmployees(ctx, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list employees failed"})
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns one employee by employee id.
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Profiles.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// SearchByPhone returns employees whose phone matches exactly.
func (h *EmployeeHandler) SearchByPhone(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone query required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Profiles.SearchEmployeesByPhone(ctx, phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search employees failed"})
	}
	if items == nil {
		items = []repository.EmployeeView{}
	}
	return c.JSON(http.StatusOK, items)
}

// Update overwrites the profile fields of an employee.
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req employeeProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fullName required"})
	}
	hire, ok := parseDate(req.HireDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hireDate must be yyyy-mm-dd"})
	}
	birth, ok := parseDate(req.BirthDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthDate must be yyyy-mm-dd"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Profiles.UpdateEmployeeProfile(ctx, id, model.EmployeeProfile{
		FullName:  req.FullName,
		Address:   req.Address,
		Position:  req.Position,
		Salary:    req.Salary,
		HireDate:  hire,
		BirthDate: birth,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update employee failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "employee updated"})
}
