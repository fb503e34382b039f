package model

import "time"

type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionSoftDelete   AuditAction = "SOFT_DELETE"
	AuditActionHardDelete   AuditAction = "HARD_DELETE"
	AuditActionRestore      AuditAction = "RESTORE"
	AuditActionLoginSuccess AuditAction = "LOGIN_SUCCESS"
	AuditActionLoginFailed  AuditAction = "LOGIN_FAILED"
	AuditActionBulkImport   AuditAction = "BULK_IMPORT"
)

type AuditEntity string

const (
	AuditEntityTile  AuditEntity = "TILE"
	AuditEntityAdmin AuditEntity = "ADMIN"
)

// AuditLog is an append-only record of a mutating admin action.
// AdminID is nil for anonymous events such as failed logins, where
// EntityID carries the attempted username instead.
type AuditLog struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`
	Entity    AuditEntity `gorm:"type:varchar(50);not null;index" json:"entity"`
	EntityID  string      `gorm:"type:varchar(100);not null;index" json:"entityId"`
	AdminID   *int64      `gorm:"index" json:"adminId"`
	Changes   string      `gorm:"type:text" json:"changes,omitempty"`
	CreatedAt time.Time   `gorm:"not null;index" json:"createdAt"`
}
