package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bluecascade/tilestore/internal/domain/model"
	repo "github.com/bluecascade/tilestore/internal/repository"
)

const (
	defaultPEIRating = "Class 4"
	defaultThickness = "9mm"
	defaultFinish    = "Unglazed Matt"

	maxPageLimit = 100
)

type TileUsecase struct {
	tileRepo  repo.TileRepository
	auditRepo repo.AuditLogRepository
	log       *zap.Logger
}

// DI
func NewTileUsecase(tileRepo repo.TileRepository, auditRepo repo.AuditLogRepository, log *zap.Logger) *TileUsecase {
	return &TileUsecase{
		tileRepo:  tileRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

type ListTilesInput struct {
	Page         int
	Limit        int
	Search       string
	Type         string
	Category     string
	ShowInactive bool
	IsAdmin      bool
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type TileListOutput struct {
	Items      []model.Tile `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

// ListTiles runs the catalog query. Out-of-range page/limit values are
// clamped rather than rejected: page floors at 1, limit clamps to [1,100].
func (u *TileUsecase) ListTiles(ctx context.Context, in ListTilesInput) (TileListOutput, error) {
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

	// only an authenticated admin may see inactive tiles
	showInactive := in.ShowInactive && in.IsAdmin

	items, total, err := u.tileRepo.List(ctx, repo.TileListQuery{
		Page:         page,
		Limit:        limit,
		Search:       strings.TrimSpace(in.Search),
		Type:         strings.TrimSpace(in.Type),
		Category:     strings.TrimSpace(in.Category),
		ShowInactive: showInactive,
	})
	if err != nil {
		return TileListOutput{}, dbError(u.log, "list tiles", err)
	}
	if items == nil {
		items = []model.Tile{}
	}

	return TileListOutput{
		Items: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int64(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// GetTileDetail hides inactive tiles from non-admin callers.
func (u *TileUsecase) GetTileDetail(ctx context.Context, tileID int64, isAdmin bool) (model.Tile, error) {
	if tileID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "invalid tile id")
	}

	t, err := u.tileRepo.FindByID(ctx, tileID)
	if err == repo.ErrNotFound {
		return model.Tile{}, NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return model.Tile{}, dbError(u.log, "find tile", err)
	}

	if !t.IsActive && !isAdmin {
		return model.Tile{}, NewHTTPError(http.StatusNotFound, "tile not found")
	}
	return t, nil
}

type CreateTileInput struct {
	Type        string   `json:"type"`
	Size        string   `json:"size"`
	Series      string   `json:"series"`
	Material    string   `json:"material"`
	Surface     string   `json:"surface"`
	Category    string   `json:"category"`
	Qty         *int64   `json:"qty"`
	ProposedSP  *float64 `json:"proposedSP"`
	Application []string `json:"application"`
	PEIRating   string   `json:"peiRating,omitempty"`
	Thickness   string   `json:"thickness,omitempty"`
	Finish      string   `json:"finish,omitempty"`
	Image       string   `json:"image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (u *TileUsecase) CreateTile(ctx context.Context, adminID int64, in CreateTileInput) (model.Tile, error) {
	if adminID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	t, err := newTileFromInput(in)
	if err != nil {
		return model.Tile{}, err
	}

	created, err := u.tileRepo.Create(ctx, t)
	if err != nil {
		return model.Tile{}, dbError(u.log, "create tile", err)
	}

	u.audit(ctx, model.AuditActionCreate, created.ID, adminID, in)
	return created, nil
}

// newTileFromInput validates required fields, clamps qty/proposedSP to
// zero and fills defaults.
func newTileFromInput(in CreateTileInput) (model.Tile, error) {
	tileType := model.TileType(strings.TrimSpace(in.Type))
	if !tileType.Valid() {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "type must be GP or CERAMICS")
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"size", in.Size},
		{"series", in.Series},
		{"material", in.Material},
		{"surface", in.Surface},
		{"category", in.Category},
	} {
		if strings.TrimSpace(f.value) == "" {
			return model.Tile{}, NewHTTPError(http.StatusBadRequest, f.name+" required")
		}
	}
	if in.Qty == nil {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "qty required")
	}
	if in.ProposedSP == nil {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "proposedSP required")
	}
	if len(in.Application) == 0 {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "application required")
	}

	series := strings.TrimSpace(in.Series)
	material := strings.TrimSpace(in.Material)
	category := strings.TrimSpace(in.Category)

	t := model.Tile{
		Type:        tileType,
		Size:        strings.TrimSpace(in.Size),
		Series:      series,
		Material:    material,
		Surface:     strings.TrimSpace(in.Surface),
		Category:    category,
		Qty:         clampInt64(*in.Qty),
		ProposedSP:  clampFloat64(*in.ProposedSP),
		Application: model.StringList(in.Application),
		PEIRating:   defaulted(in.PEIRating, defaultPEIRating),
		Thickness:   defaulted(in.Thickness, defaultThickness),
		Finish:      defaulted(in.Finish, defaultFinish),
		Image:       strings.TrimSpace(in.Image),
		Images:      model.StringList(in.Images),
		Description: in.Description,
		SearchTerms: buildSearchTerms(series, material, category),
		IsActive:    true,
	}
	return t, nil
}

// UpdateTileInput carries a partial field set. Nil pointers (and nil
// slices) mean "leave unchanged".
type UpdateTileInput struct {
	Type        *string  `json:"type"`
	Size        *string  `json:"size"`
	Series      *string  `json:"series"`
	Material    *string  `json:"material"`
	Surface     *string  `json:"surface"`
	Category    *string  `json:"category"`
	Qty         *int64   `json:"qty"`
	ProposedSP  *float64 `json:"proposedSP"`
	Application []string `json:"application"`
	PEIRating   *string  `json:"peiRating"`
	Thickness   *string  `json:"thickness"`
	Finish      *string  `json:"finish"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

func (u *TileUsecase) UpdateTile(ctx context.Context, adminID int64, tileID int64, in UpdateTileInput) (model.Tile, error) {
	if adminID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tileID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "invalid tile id")
	}

	current, err := u.tileRepo.FindByID(ctx, tileID)
	if err == repo.ErrNotFound {
		return model.Tile{}, NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return model.Tile{}, dbError(u.log, "find tile", err)
	}

	fields := map[string]interface{}{}

	if in.Type != nil {
		t := model.TileType(strings.TrimSpace(*in.Type))
		if !t.Valid() {
			return model.Tile{}, NewHTTPError(http.StatusBadRequest, "type must be GP or CERAMICS")
		}
		fields["type"] = string(t)
	}
	// required string fields stay non-blank when supplied
	for name, v := range map[string]*string{
		"size":     in.Size,
		"series":   in.Series,
		"material": in.Material,
		"surface":  in.Surface,
		"category": in.Category,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return model.Tile{}, NewHTTPError(http.StatusBadRequest, name+" must not be blank")
		}
	}
	setTrimmed(fields, "size", in.Size)
	setTrimmed(fields, "series", in.Series)
	setTrimmed(fields, "material", in.Material)
	setTrimmed(fields, "surface", in.Surface)
	setTrimmed(fields, "category", in.Category)
	setTrimmed(fields, "pei_rating", in.PEIRating)
	setTrimmed(fields, "thickness", in.Thickness)
	setTrimmed(fields, "finish", in.Finish)
	setTrimmed(fields, "image", in.Image)
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Qty != nil {
		fields["qty"] = clampInt64(*in.Qty)
	}
	if in.ProposedSP != nil {
		fields["proposed_sp"] = clampFloat64(*in.ProposedSP)
	}
	if in.Application != nil {
		if len(in.Application) == 0 {
			return model.Tile{}, NewHTTPError(http.StatusBadRequest, "application must not be empty")
		}
		fields["application"] = model.StringList(in.Application)
	}
	if in.Images != nil {
		fields["images"] = model.StringList(in.Images)
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if len(fields) == 0 {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "no recognized fields supplied")
	}

	// recompute the search index when any of its inputs change
	if in.Series != nil || in.Material != nil || in.Category != nil {
		series := pick(fields, "series", current.Series)
		material := pick(fields, "material", current.Material)
		category := pick(fields, "category", current.Category)
		fields["search_terms"] = buildSearchTerms(series, material, category)
	}

	// refreshed even when no business field changed value
	fields["updated_at"] = time.Now()

	updated, err := u.tileRepo.UpdateFields(ctx, tileID, fields)
	if err == repo.ErrNotFound {
		return model.Tile{}, NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return model.Tile{}, dbError(u.log, "update tile", err)
	}

	u.audit(ctx, model.AuditActionUpdate, tileID, adminID, in)
	return updated, nil
}

// SoftDeleteTile hides the tile from the public listing. Deleting an
// already-inactive tile succeeds.
func (u *TileUsecase) SoftDeleteTile(ctx context.Context, adminID int64, tileID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tileID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid tile id")
	}

	err := u.tileRepo.SetActive(ctx, tileID, false)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return dbError(u.log, "deactivate tile", err)
	}

	u.audit(ctx, model.AuditActionSoftDelete, tileID, adminID, nil)
	return nil
}

// HardDeleteTile removes the row permanently. The audit entry carries a
// snapshot of the row since it cannot be reconstructed afterwards.
func (u *TileUsecase) HardDeleteTile(ctx context.Context, adminID int64, tileID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tileID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid tile id")
	}

	snapshot, err := u.tileRepo.FindByID(ctx, tileID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return dbError(u.log, "find tile", err)
	}

	err = u.tileRepo.HardDelete(ctx, tileID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return dbError(u.log, "hard delete tile", err)
	}

	u.audit(ctx, model.AuditActionHardDelete, tileID, adminID, snapshot)
	return nil
}

func (u *TileUsecase) RestoreTile(ctx context.Context, adminID int64, tileID int64) (model.Tile, error) {
	if adminID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tileID <= 0 {
		return model.Tile{}, NewHTTPError(http.StatusBadRequest, "invalid tile id")
	}

	err := u.tileRepo.SetActive(ctx, tileID, true)
	if err == repo.ErrNotFound {
		return model.Tile{}, NewHTTPError(http.StatusNotFound, "tile not found")
	}
	if err != nil {
		return model.Tile{}, dbError(u.log, "restore tile", err)
	}

	restored, err := u.tileRepo.FindByID(ctx, tileID)
	if err != nil {
		return model.Tile{}, dbError(u.log, "find tile", err)
	}

	u.audit(ctx, model.AuditActionRestore, tileID, adminID, nil)
	return restored, nil
}

type BulkImportRowResult struct {
	Index int    `json:"index"`
	ID    int64  `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type BulkImportOutput struct {
	Imported int                   `json:"imported"`
	Failed   int                   `json:"failed"`
	Results  []BulkImportRowResult `json:"results"`
}

// BulkImportTiles creates many tiles in one call. Rows are validated
// independently; one BULK_IMPORT audit entry summarizes the batch.
func (u *TileUsecase) BulkImportTiles(ctx context.Context, adminID int64, rows []CreateTileInput) (BulkImportOutput, error) {
	if adminID <= 0 {
		return BulkImportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(rows) == 0 {
		return BulkImportOutput{}, NewHTTPError(http.StatusBadRequest, "no rows supplied")
	}

	out := BulkImportOutput{Results: make([]BulkImportRowResult, 0, len(rows))}
	for i, row := range rows {
		created, err := u.createForImport(ctx, row)
		if err != nil {
			out.Failed++
			msg := "invalid row"
			if he, ok := AsHTTPError(err); ok {
				msg = he.Message
			}
			out.Results = append(out.Results, BulkImportRowResult{Index: i, Error: msg})
			continue
		}
		out.Imported++
		out.Results = append(out.Results, BulkImportRowResult{Index: i, ID: created.ID})
	}

	u.audit(ctx, model.AuditActionBulkImport, 0, adminID, map[string]int{
		"imported": out.Imported,
		"failed":   out.Failed,
	})
	return out, nil
}

// createForImport is CreateTile without the per-row CREATE entry; the
// batch is audited once as BULK_IMPORT.
func (u *TileUsecase) createForImport(ctx context.Context, in CreateTileInput) (model.Tile, error) {
	t, err := newTileFromInput(in)
	if err != nil {
		return model.Tile{}, err
	}

	created, err := u.tileRepo.Create(ctx, t)
	if err != nil {
		return model.Tile{}, dbError(u.log, "create tile", err)
	}
	return created, nil
}

// audit appends one entry after a successful mutation. A failed audit
// write never fails the request; it is logged for operator attention.
func (u *TileUsecase) audit(ctx context.Context, action model.AuditAction, tileID int64, adminID int64, changes interface{}) {
	var payload string
	if changes != nil {
		b, err := json.Marshal(changes)
		if err != nil {
			u.log.Warn("audit payload marshal failed",
				zap.String("action", string(action)),
				zap.Error(err))
		} else {
			payload = string(b)
		}
	}

	entityID := ""
	if tileID > 0 {
		entityID = strconv.FormatInt(tileID, 10)
	}

	entry := model.AuditLog{
		Action:    action,
		Entity:    model.AuditEntityTile,
		EntityID:  entityID,
		AdminID:   &adminID,
		Changes:   payload,
		CreatedAt: time.Now(),
	}
	if err := u.auditRepo.Create(ctx, entry); err != nil {
		u.log.Error("audit write failed after successful mutation",
			zap.String("action", string(action)),
			zap.String("entity_id", entityID),
			zap.Int64("admin_id", adminID),
			zap.Error(err))
	}
}

func buildSearchTerms(series, material, category string) string {
	return strings.ToLower(fmt.Sprintf("%s %s %s", series, material, category))
}

func clampInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampFloat64(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func defaulted(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func setTrimmed(fields map[string]interface{}, column string, v *string) {
	if v == nil {
		return
	}
	fields[column] = strings.TrimSpace(*v)
}

func pick(fields map[string]interface{}, column, fallback string) string {
	if v, ok := fields[column]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}
