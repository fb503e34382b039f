package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bluecascade/tilestore/internal/handler"
	"github.com/bluecascade/tilestore/internal/logger"
	"github.com/bluecascade/tilestore/internal/middleware"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

// Handlers bundles the route registrars for New.
type Handlers struct {
	Tiles      *handler.TileHandler
	AdminTiles *handler.AdminTileHandler
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
}

// New assembles the Echo instance with the shared middleware chain and
// all routes registered.
func New(log *zap.Logger, tokens auth.TokenVerifier, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware(log))
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  "ok",
		})
	})

	h.Auth.RegisterRoutes(e)
	h.Tiles.RegisterRoutes(e, tokens)
	h.AdminTiles.RegisterRoutes(e, tokens)
	h.Admin.RegisterRoutes(e, tokens)

	return e
}

// Start blocks serving HTTP on addr.
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
