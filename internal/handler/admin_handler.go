package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bluecascade/tilestore/internal/domain/model"
	"github.com/bluecascade/tilestore/internal/middleware"
	"github.com/bluecascade/tilestore/internal/usecase"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

// Admin dashboard, audit browsing and catalog export.
type AdminHandler struct {
	uc  *usecase.DashboardUsecase
	dev bool
}

// DI
func NewAdminHandler(uc *usecase.DashboardUsecase, dev bool) *AdminHandler {
	return &AdminHandler{uc: uc, dev: dev}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, tokens auth.TokenVerifier) {
	g := e.Group("/admin")
	g.Use(middleware.RequireAuth(tokens))

	g.GET("/dashboard", h.dashboard)
	g.GET("/audit-logs", h.auditLogs)
	g.GET("/export", h.export)
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return writeError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: out})
}

type auditLogListResponse struct {
	Success    bool               `json:"success"`
	Data       []model.AuditLog   `json:"data"`
	Pagination usecase.Pagination `json:"pagination"`
}

func (h *AdminHandler) auditLogs(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid page"))
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid limit"))
		}
		limit = l
	}

	in := usecase.ListAuditLogsInput{
		Page:   page,
		Limit:  limit,
		Action: c.QueryParam("action"),
		Entity: c.QueryParam("entity"),
	}

	if v := c.QueryParam("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid startDate"))
		}
		in.From = &t
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid endDate"))
		}
		in.To = &t
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	return c.JSON(http.StatusOK, auditLogListResponse{
		Success:    true,
		Data:       out.Items,
		Pagination: out.Pagination,
	})
}

type exportResponse struct {
	Success      bool         `json:"success"`
	ExportDate   time.Time    `json:"exportDate"`
	TotalRecords int          `json:"totalRecords"`
	Data         []model.Tile `json:"data"`
}

func (h *AdminHandler) export(c echo.Context) error {
	includeInactive := c.QueryParam("includeInactive") == "true"

	tiles, err := h.uc.ExportTiles(c.Request().Context(), includeInactive)
	if err != nil {
		return writeError(c, err, h.dev)
	}

	stamp := time.Now().Format("2006-01-02")

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="tiles-export-%s.csv"`, stamp))
		c.Response().WriteHeader(http.StatusOK)
		return writeTilesCSV(c, tiles)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="tiles-export-%s.json"`, stamp))
	return c.JSON(http.StatusOK, exportResponse{
		Success:      true,
		ExportDate:   time.Now(),
		TotalRecords: len(tiles),
		Data:         tiles,
	})
}

func writeTilesCSV(c echo.Context, tiles []model.Tile) error {
	w := csv.NewWriter(c.Response())

	header := []string{
		"ID", "Type", "Series", "Material", "Size", "Surface", "Category",
		"Quantity", "Price", "PEI Rating", "Thickness", "Finish",
		"Applications", "Active", "Created At", "Updated At",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range tiles {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			string(t.Type),
			t.Series,
			t.Material,
			t.Size,
			t.Surface,
			t.Category,
			strconv.FormatInt(t.Qty, 10),
			strconv.FormatFloat(t.ProposedSP, 'f', 2, 64),
			t.PEIRating,
			t.Thickness,
			t.Finish,
			strings.Join(t.Application, "; "),
			strconv.FormatBool(t.IsActive),
			t.CreatedAt.Format(time.RFC3339),
			t.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// parseDate accepts RFC3339 or a plain date.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
