package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TileType string

const (
	// Glazed porcelain.
	TileTypeGP TileType = "GP"

	TileTypeCeramics TileType = "CERAMICS"
)

func (t TileType) Valid() bool {
	return t == TileTypeGP || t == TileTypeCeramics
}

// StringList is an ordered list of strings stored as a JSON text column.
// Encoding and decoding happen only here, so the serialized form never
// leaks past the persistence boundary.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Tile is one sellable SKU of the catalog.
type Tile struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        TileType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Size        string     `gorm:"type:varchar(50);not null" json:"size"`
	Series      string     `gorm:"type:varchar(100);not null" json:"series"`
	Material    string     `gorm:"type:varchar(100);not null" json:"material"`
	Surface     string     `gorm:"type:varchar(50);not null" json:"surface"`
	Category    string     `gorm:"type:varchar(100);not null;index" json:"category"`
	Qty         int64      `gorm:"not null" json:"qty"`
	ProposedSP  float64    `gorm:"column:proposed_sp;type:numeric(12,2);not null" json:"proposedSP"`
	Application StringList `gorm:"type:text;not null" json:"application"`
	PEIRating   string     `gorm:"column:pei_rating;type:varchar(20);not null" json:"peiRating"`
	Thickness   string     `gorm:"type:varchar(20);not null" json:"thickness"`
	Finish      string     `gorm:"type:varchar(50);not null" json:"finish"`
	Image       string     `gorm:"type:text" json:"image"`
	Images      StringList `gorm:"type:text" json:"images"`
	Description string     `gorm:"type:text" json:"description"`
	SearchTerms string     `gorm:"column:search_terms;type:text" json:"searchTerms"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
