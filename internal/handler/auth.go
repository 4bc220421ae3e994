package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/config"
	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/repository"
	"github.com/iliyamo/internship-registration/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (*authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &authResp{
		User:    userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Register creates a participant account and returns tokens immediately.
// Admin accounts are provisioned out of band, never through this endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return jsonErr(c, http.StatusBadRequest, "full_name, email and password are required")
	}
	if len(req.Password) < 8 {
		return jsonErr(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.FullName, strings.TrimSpace(req.Phone), model.RoleParticipant, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return jsonErr(c, http.StatusConflict, "email already registered")
		}
		return jsonErr(c, http.StatusInternalServerError, "create user failed")
	}

	resp, err := h.issuePair(ctx, model.User{ID: uid, FullName: req.FullName, Email: req.Email, Role: model.RoleParticipant})
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return jsonOK(c, http.StatusCreated, resp)
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, "")
}

// AdminLogin is Login restricted to admin accounts. A valid participant
// credential still gets 401 here so the endpoint leaks nothing about roles.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, model.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, requiredRole string) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonErr(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonErr(c, http.StatusUnauthorized, "invalid credentials")
		}
		return jsonErr(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return jsonErr(c, http.StatusUnauthorized, "invalid credentials")
	}
	if requiredRole != "" && u.Role != requiredRole {
		return jsonErr(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return jsonOK(c, http.StatusOK, resp)
}

// Refresh validates the presented refresh token by hash, revokes it and
// issues a new pair (full rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonErr(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "invalid refresh token")
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonErr(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return jsonErr(c, http.StatusInternalServerError, "load user failed")
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return jsonOK(c, http.StatusOK, resp)
}

// Logout revokes refresh tokens for the authenticated user. With a
// refresh_token in the body only that session ends; without one every
// session for the user is revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}

	var req refreshReq
	_ = c.Bind(&req) // empty body means revoke everything
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return jsonErr(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return jsonErr(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonErr(c, http.StatusNotFound, "user not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load user failed")
	}
	return jsonOK(c, http.StatusOK, userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role})
}
