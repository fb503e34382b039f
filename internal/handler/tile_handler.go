package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bluecascade/tilestore/internal/domain/model"
	"github.com/bluecascade/tilestore/internal/middleware"
	"github.com/bluecascade/tilestore/internal/usecase"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

// TileListResponse is the public catalog page envelope.
type TileListResponse struct {
	Success    bool               `json:"success"`
	Data       []model.Tile       `json:"data"`
	Pagination usecase.Pagination `json:"pagination"`
}

// Public catalog routes. OptionalAuth lets an authenticated admin see
// inactive tiles through the same endpoints.
type TileHandler struct {
	uc  *usecase.TileUsecase
	dev bool
}

// DI
func NewTileHandler(uc *usecase.TileUsecase, dev bool) *TileHandler {
	return &TileHandler{uc: uc, dev: dev}
}

func (h *TileHandler) RegisterRoutes(e *echo.Echo, tokens auth.TokenVerifier) {
	g := e.Group("/tiles")
	g.Use(middleware.OptionalAuth(tokens))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *TileHandler) list(c echo.Context) error {
	// page (default 1)
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid page"))
		}
		page = p
	}

	// limit (default 20)
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid limit"))
		}
		limit = l
	}

	showInactive := c.QueryParam("showInactive") == "true"

	out, err := h.uc.ListTiles(c.Request().Context(), usecase.ListTilesInput{
		Page:         page,
		Limit:        limit,
		Search:       c.QueryParam("search"),
		Type:         c.QueryParam("type"),
		Category:     c.QueryParam("category"),
		ShowInactive: showInactive,
		IsAdmin:      middleware.IsAdmin(c),
	})
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, TileListResponse{
		Success:    true,
		Data:       out.Items,
		Pagination: out.Pagination,
	})
}

func (h *TileHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	t, err := h.uc.GetTileDetail(c.Request().Context(), id, middleware.IsAdmin(c))
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: t})
}
