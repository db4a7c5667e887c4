package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeChunk is one indexed corpus chunk with its embedding. Rows are
// tagged with the index version they belong to; only rows of the current
// version are served.
type KnowledgeChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IndexVersionId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex     int             `gorm:"not null"`
	CharOffset     int             `gorm:"not null"`
	Document       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 dimension
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}

// IndexVersionPointer is a single-row table holding the published index
// version. Swapping CurrentVersion is the atomic publish step of a rebuild.
type IndexVersionPointer struct {
	Id             int       `gorm:"primaryKey"`
	CurrentVersion uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (IndexVersionPointer) TableName() string {
	return "index_version_pointer"
}
