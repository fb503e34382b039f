package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bluecascade/tilestore/internal/domain/model"
	repo "github.com/bluecascade/tilestore/internal/repository"
)

type AdminGormRepository struct {
	db *gorm.DB
}

// DI
func NewAdminGormRepository(db *gorm.DB) *AdminGormRepository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) FindByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

func (r *AdminGormRepository) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

func (r *AdminGormRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
