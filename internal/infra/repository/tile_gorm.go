package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bluecascade/tilestore/internal/domain/model"
	repo "github.com/bluecascade/tilestore/internal/repository"
)

type TileGormRepository struct {
	db *gorm.DB
}

// DI
func NewTileGormRepository(db *gorm.DB) *TileGormRepository {
	return &TileGormRepository{db: db}
}

// List returns one page of tiles matching the query plus the total
// match count ignoring pagination.
func (r *TileGormRepository) List(ctx context.Context, q repo.TileListQuery) ([]model.Tile, int64, error) {
	var tiles []model.Tile
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Tile{})

	// public callers only see active tiles
	if !q.ShowInactive {
		tx = tx.Where("is_active = ?", true)
	}

	// substring match over series / material / search_terms
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("series ILIKE ? OR material ILIKE ? OR search_terms ILIKE ?", like, like, like)
	}

	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Tile{}, 0, err
	}

	// most recently touched first
	tx = tx.Order("updated_at desc").Order("id desc")

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&tiles).Error; err != nil {
		return []model.Tile{}, 0, err
	}

	return tiles, total, nil
}

func (r *TileGormRepository) FindByID(ctx context.Context, id int64) (model.Tile, error) {
	var t model.Tile
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tile{}, err
	}
	return t, nil
}

func (r *TileGormRepository) Create(ctx context.Context, t model.Tile) (model.Tile, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Tile{}, err
	}
	return t, nil
}

// UpdateFields applies a partial column set and returns the updated row.
func (r *TileGormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (model.Tile, error) {
	res := r.db.WithContext(ctx).Model(&model.Tile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return model.Tile{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Tile{}, repo.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *TileGormRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Tile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TileGormRepository) HardDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Tile{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TileGormRepository) Stats(ctx context.Context) (repo.TileStats, error) {
	var s repo.TileStats

	tx := r.db.WithContext(ctx).Model(&model.Tile{})
	if err := tx.Count(&s.Total).Error; err != nil {
		return repo.TileStats{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Tile{}).Where("is_active = ?", true).Count(&s.Active).Error; err != nil {
		return repo.TileStats{}, err
	}
	s.Inactive = s.Total - s.Active

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	if err := r.db.WithContext(ctx).Model(&model.Tile{}).Where("created_at >= ?", weekAgo).Count(&s.Recent).Error; err != nil {
		return repo.TileStats{}, err
	}

	var sums struct {
		TotalQty   int64
		TotalValue float64
	}
	err := r.db.WithContext(ctx).Model(&model.Tile{}).
		Select("COALESCE(SUM(qty), 0) AS total_qty, COALESCE(SUM(qty * proposed_sp), 0) AS total_value").
		Where("is_active = ?", true).
		Scan(&sums).Error
	if err != nil {
		return repo.TileStats{}, err
	}
	s.TotalQty = sums.TotalQty
	s.TotalValue = sums.TotalValue

	return s, nil
}

func (r *TileGormRepository) CategoryBreakdown(ctx context.Context) ([]repo.CategoryCount, error) {
	var rows []repo.CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Tile{}).
		Select("category, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category").
		Order("count DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TileGormRepository) TypeBreakdown(ctx context.Context) ([]repo.TypeCount, error) {
	var rows []repo.TypeCount
	err := r.db.WithContext(ctx).Model(&model.Tile{}).
		Select("type, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TileGormRepository) ListAll(ctx context.Context, includeInactive bool) ([]model.Tile, error) {
	tx := r.db.WithContext(ctx).Model(&model.Tile{})
	if !includeInactive {
		tx = tx.Where("is_active = ?", true)
	}

	var tiles []model.Tile
	if err := tx.Order("created_at desc").Find(&tiles).Error; err != nil {
		return nil, err
	}
	return tiles, nil
}
