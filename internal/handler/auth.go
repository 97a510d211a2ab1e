package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/config"
	"github.com/haichau/electrostore/internal/mailer"
	"github.com/haichau/electrostore/internal/model"
	"github.com/haichau/electrostore/internal/repository"
	"github.com/haichau/electrostore/internal/utils"
)

// AuthHandler bundles dependencies for account and session endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Tokens   *repository.TokenRepo
	Mail     mailer.Mailer
}

func NewAuthHandler(cfg config.Config, a *repository.AccountRepo, t *repository.TokenRepo, m mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: a, Tokens: t, Mail: m}
}

// ----- DTOs -----

type registerReq struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
type authResp struct {
	Account      accountPart `json:"account"`
	AccessToken  tokenPart   `json:"accessToken"`
	RefreshToken tokenPart   `json:"refreshToken"`
}

// conflictMessage maps a uniqueness sentinel to its client message.
func conflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, repository.ErrUsernameExists):
		return "username already exists", true
	case errors.Is(err, repository.ErrEmailExists):
		return "email already exists", true
	case errors.Is(err, repository.ErrPhoneExists):
		return "phone already exists", true
	case errors.Is(err, repository.ErrConflict):
		return "duplicate value", true
	}
	return "", false
}

// Register creates a CUSTOMER account together with its profile row.
// No tokens are returned; the client signs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email, password and fullName are required"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_, err = h.Accounts.CreateCustomer(ctx, model.Account{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}, req.FullName)
	if err != nil {
		if msg, ok := conflictMessage(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "account created, please sign in"})
}

// Login verifies the credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !a.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is inactive"})
	}

	return h.issuePair(c, http.StatusOK, a)
}

// Refresh validates the presented refresh token against the ledger and
// rotates it: the old value is consumed, a new pair is returned. A
// consumed, expired or unknown token fails with 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}
	oldHash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	accountID, err := h.Tokens.Validate(ctx, oldHash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if !a.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is inactive"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.JWTIssuer, h.Cfg.JWTAudience,
		a.Email, a.ID, string(a.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	// Consume + insert in one tx; a concurrent rotation of the same
	// value loses the race and gets 401.
	if err := h.Tokens.Rotate(ctx, oldHash, utils.HashRefreshRaw(refresh.Raw), a.ID, refresh.Exp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rotate refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Account:      accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: string(a.Role)},
		AccessToken:  tokenPart{Token: access.Token, Expires: access.Exp},
		RefreshToken: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout revokes every refresh token of the caller (protected).
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.RevokeAllForAccount(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword verifies the old password and stores the new hash.
// The identity comes from the access-token claim, never from the body.
// Existing refresh tokens are not revoked.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "oldPassword and newPassword are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old password is incorrect"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}
	if err := h.Accounts.UpdatePasswordHash(ctx, id, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// ForgotPassword replaces the account password with a random one and
// mails it. An unknown email is a 400, matching the storefront
// contract; a mail failure is a 500 because the stored hash has
// already changed.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	plain, err := utils.RandomPassword(10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}
	hash, err := utils.HashPassword(plain, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}
	if err := h.Accounts.UpdatePasswordHash(ctx, a.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}
	if err := h.Mail.SendPasswordReset(a.Email, plain); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send mail failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "a new password has been sent to your email"})
}

// Me returns the claims of the current token.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := accountID(c)
	return c.JSON(http.StatusOK, echo.Map{
		"accountId": id,
		"email":     callerEmail(c),
		"role":      callerRole(c),
	})
}

// issuePair issues and stores a fresh token pair for an account.
func (h *AuthHandler) issuePair(c echo.Context, status int, a model.Account) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.JWTIssuer, h.Cfg.JWTAudience,
		a.Email, a.ID, string(a.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.Store(ctx, a.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		Account:      accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: string(a.Role)},
		AccessToken:  tokenPart{Token: access.Token, Expires: access.Exp},
		RefreshToken: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw goes back to the client once
	})
}
