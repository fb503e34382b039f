package repository

import (
	"context"
	"errors"

	"github.com/bluecascade/tilestore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// TileListQuery carries the already-clamped filter and pagination
// parameters. Every value is bound, never interpolated into SQL.
type TileListQuery struct {
	Page         int
	Limit        int
	Search       string
	Type         string
	Category     string
	ShowInactive bool
}

// TileStats are the aggregate numbers shown on the admin dashboard.
// Sums cover active tiles only.
type TileStats struct {
	Total      int64
	Active     int64
	Inactive   int64
	Recent     int64
	TotalQty   int64
	TotalValue float64
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type TileRepository interface {
	List(ctx context.Context, q TileListQuery) ([]model.Tile, int64, error)
	FindByID(ctx context.Context, id int64) (model.Tile, error)

	Create(ctx context.Context, t model.Tile) (model.Tile, error)
	// UpdateFields applies a partial column set and returns the updated row.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (model.Tile, error)
	SetActive(ctx context.Context, id int64, active bool) error
	HardDelete(ctx context.Context, id int64) error

	Stats(ctx context.Context) (TileStats, error)
	CategoryBreakdown(ctx context.Context) ([]CategoryCount, error)
	TypeBreakdown(ctx context.Context) ([]TypeCount, error)
	ListAll(ctx context.Context, includeInactive bool) ([]model.Tile, error)
}
