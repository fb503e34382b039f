package model

import "time"

// Admin is an operator identity. The password hash never leaves the server.
type Admin struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
}
