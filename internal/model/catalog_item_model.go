package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CatalogItem stores one raw catalog record. Fields is an opaque field-value
// blob so different businesses can carry different catalog schemas.
type CatalogItem struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
