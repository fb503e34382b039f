package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// dbError maps a repository failure to the generic 500. The underlying
// cause is logged here and never reaches the response body.
func dbError(log *zap.Logger, op string, err error) error {
	log.Error("db error", zap.String("op", op), zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
