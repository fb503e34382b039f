package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bluecascade/tilestore/internal/middleware"
	"github.com/bluecascade/tilestore/internal/usecase"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

// Admin-only mutation routes for the tile catalog.
type AdminTileHandler struct {
	uc  *usecase.TileUsecase
	dev bool
}

// DI
func NewAdminTileHandler(uc *usecase.TileUsecase, dev bool) *AdminTileHandler {
	return &AdminTileHandler{uc: uc, dev: dev}
}

func (h *AdminTileHandler) RegisterRoutes(e *echo.Echo, tokens auth.TokenVerifier) {
	g := e.Group("/tiles")
	g.Use(middleware.RequireAuth(tokens))

	g.POST("", h.create)
	g.POST("/bulk", h.bulkImport)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
	g.PATCH("/:id/restore", h.restore)
}

func (h *AdminTileHandler) create(c echo.Context) error {
	var req usecase.CreateTileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	adminID, ok := middleware.AdminID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	created, err := h.uc.CreateTile(c.Request().Context(), adminID, req)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "tile created",
		Data:    created,
	})
}

func (h *AdminTileHandler) bulkImport(c echo.Context) error {
	var rows []usecase.CreateTileInput
	if err := c.Bind(&rows); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	adminID, ok := middleware.AdminID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	out, err := h.uc.BulkImportTiles(c.Request().Context(), adminID, rows)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: out})
}

func (h *AdminTileHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	var req usecase.UpdateTileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	adminID, ok := middleware.AdminID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	updated, err := h.uc.UpdateTile(c.Request().Context(), adminID, id, req)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "tile updated",
		Data:    updated,
	})
}

// remove soft-deletes by default; ?hardDelete=true removes permanently.
func (h *AdminTileHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	adminID, ok := middleware.AdminID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	if c.QueryParam("hardDelete") == "true" {
		if err := h.uc.HardDeleteTile(c.Request().Context(), adminID, id); err != nil {
			return writeError(c, err, h.dev)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "tile permanently deleted"})
	}

	if err := h.uc.SoftDeleteTile(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "tile deactivated"})
}

func (h *AdminTileHandler) restore(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	adminID, ok := middleware.AdminID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	restored, err := h.uc.RestoreTile(c.Request().Context(), adminID, id)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "tile restored",
		Data:    restored,
	})
}
