package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluecascade/tilestore/internal/middleware"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool           `json:"success"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Admin     auth.AdminInfo `json:"admin"`
}

type verifyResponse struct {
	Success bool           `json:"success"`
	Valid   bool           `json:"valid"`
	Admin   auth.AdminInfo `json:"admin"`
}

type AuthHandler struct {
	uc  *auth.LoginUsecase
	dev bool
}

// DI
func NewAuthHandler(uc *auth.LoginUsecase, dev bool) *AuthHandler {
	return &AuthHandler{uc: uc, dev: dev}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/verify", h.verify)
	g.POST("/logout", h.logout)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	out, err := h.uc.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			return c.JSON(http.StatusBadRequest, errorJSON("username and password required"))
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, errorJSON("invalid credentials"))
		default:
			return writeError(c, err, h.dev)
		}
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		Admin:     out.Admin,
	})
}

func (h *AuthHandler) verify(c echo.Context) error {
	raw, ok := middleware.BearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("missing bearer token"))
	}

	info, err := h.uc.VerifyToken(c.Request().Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return c.JSON(http.StatusUnauthorized, errorJSON("token expired"))
		case errors.Is(err, auth.ErrInvalidToken):
			return c.JSON(http.StatusUnauthorized, errorJSON("invalid token"))
		default:
			return writeError(c, err, h.dev)
		}
	}

	return c.JSON(http.StatusOK, verifyResponse{Success: true, Valid: true, Admin: info})
}

// Tokens are stateless; logout is a client-side discard.
func (h *AuthHandler) logout(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "logged out"})
}
