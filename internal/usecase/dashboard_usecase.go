package usecase

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/bluecascade/tilestore/internal/domain/model"
	repo "github.com/bluecascade/tilestore/internal/repository"
)

type DashboardUsecase struct {
	tileRepo  repo.TileRepository
	auditRepo repo.AuditLogRepository
	log       *zap.Logger
}

// DI
func NewDashboardUsecase(tileRepo repo.TileRepository, auditRepo repo.AuditLogRepository, log *zap.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		tileRepo:  tileRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

type DashboardOverview struct {
	TotalTiles          int64   `json:"totalTiles"`
	ActiveTiles         int64   `json:"activeTiles"`
	InactiveTiles       int64   `json:"inactiveTiles"`
	RecentTiles         int64   `json:"recentTiles"`
	TotalQuantity       int64   `json:"totalQuantity"`
	TotalInventoryValue float64 `json:"totalInventoryValue"`
}

type DashboardOutput struct {
	Overview       DashboardOverview    `json:"overview"`
	Categories     []repo.CategoryCount `json:"categories"`
	Types          []repo.TypeCount     `json:"types"`
	RecentActivity []model.AuditLog     `json:"recentActivity"`
}

func (u *DashboardUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	stats, err := u.tileRepo.Stats(ctx)
	if err != nil {
		return DashboardOutput{}, dbError(u.log, "tile stats", err)
	}

	categories, err := u.tileRepo.CategoryBreakdown(ctx)
	if err != nil {
		return DashboardOutput{}, dbError(u.log, "category breakdown", err)
	}

	types, err := u.tileRepo.TypeBreakdown(ctx)
	if err != nil {
		return DashboardOutput{}, dbError(u.log, "type breakdown", err)
	}

	recent, err := u.auditRepo.Recent(ctx, 10)
	if err != nil {
		return DashboardOutput{}, dbError(u.log, "recent audit entries", err)
	}

	if categories == nil {
		categories = []repo.CategoryCount{}
	}
	if types == nil {
		types = []repo.TypeCount{}
	}
	if recent == nil {
		recent = []model.AuditLog{}
	}

	return DashboardOutput{
		Overview: DashboardOverview{
			TotalTiles:          stats.Total,
			ActiveTiles:         stats.Active,
			InactiveTiles:       stats.Inactive,
			RecentTiles:         stats.Recent,
			TotalQuantity:       stats.TotalQty,
			TotalInventoryValue: math.Round(stats.TotalValue*100) / 100,
		},
		Categories:     categories,
		Types:          types,
		RecentActivity: recent,
	}, nil
}

type ListAuditLogsInput struct {
	Page    int
	Limit   int
	Action  string
	Entity  string
	From    *time.Time
	To      *time.Time
	AdminID *int64
}

type AuditLogListOutput struct {
	Items      []model.AuditLog `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

func (u *DashboardUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) (AuditLogListOutput, error) {
	// same clamping as the tile listing: page floors at 1, limit to [1,100]
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repo.AuditLogFilter{
		Page:        page,
		Limit:       limit,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		AdminID:     in.AdminID,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		filter.Action = &a
	}
	if in.Entity != "" {
		e := model.AuditEntity(in.Entity)
		filter.Entity = &e
	}

	items, total, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return AuditLogListOutput{}, dbError(u.log, "list audit entries", err)
	}
	if items == nil {
		items = []model.AuditLog{}
	}

	return AuditLogListOutput{
		Items: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int64(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// ExportTiles returns the full catalog for download.
func (u *DashboardUsecase) ExportTiles(ctx context.Context, includeInactive bool) ([]model.Tile, error) {
	tiles, err := u.tileRepo.ListAll(ctx, includeInactive)
	if err != nil {
		return nil, dbError(u.log, "export tiles", err)
	}
	if tiles == nil {
		tiles = []model.Tile{}
	}
	return tiles, nil
}
