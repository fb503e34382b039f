package repository

import (
	"context"
	"time"

	"github.com/bluecascade/tilestore/internal/domain/model"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (model.Admin, error)
	FindByID(ctx context.Context, id int64) (model.Admin, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
