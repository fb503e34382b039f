package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bluecascade/tilestore/internal/domain/model"
	repo "github.com/bluecascade/tilestore/internal/repository"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.Action != nil {
		q = q.Where("action = ?", *filter.Action)
	}
	if filter.Entity != nil {
		q = q.Where("entity = ?", *filter.Entity)
	}
	if filter.AdminID != nil {
		q = q.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// newest first
	q = q.Order("id DESC")

	q = q.Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit)

	var logs []model.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogGormRepository) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 10
	}

	var logs []model.AuditLog
	err := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
