package repository

import (
	"context"
	"time"

	"github.com/bluecascade/tilestore/internal/domain/model"
)

// AuditLogFilter narrows the audit listing. Nil pointer means "any".
// Page and Limit arrive already clamped, like TileListQuery.
type AuditLogFilter struct {
	Action      *model.AuditAction
	Entity      *model.AuditEntity
	AdminID     *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	Limit       int
}

// AuditLogRepository is append-only: entries are never updated or
// deleted by normal operation.
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
	Recent(ctx context.Context, limit int) ([]model.AuditLog, error)
}
