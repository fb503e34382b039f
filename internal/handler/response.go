package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bluecascade/tilestore/internal/usecase"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// writeError maps usecase errors onto the HTTP error taxonomy.
// Unexpected errors answer with a fixed generic message unless dev
// mode is on; detail only ever reaches server-side logs otherwise.
func writeError(c echo.Context, err error, dev bool) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, errorJSON(he.Message))
	}

	msg := "internal error"
	if dev {
		msg = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, errorJSON(msg))
}
