package vectorstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-support-chatbot-be/internal/model"
	"ai-support-chatbot-be/pkg/embedding"
	"ai-support-chatbot-be/pkg/knowledge"
)

const insertBatchSize = 100

// PostgresIndex stores embedded chunks in a pgvector table. Each rebuild
// writes a new generation of rows under a fresh version id, then flips a
// single pointer row inside a transaction. Readers filter on the pointer,
// so a rebuild in progress is invisible until the flip commits.
type PostgresIndex struct {
	db       *gorm.DB
	provider embedding.EmbeddingProvider
	version  atomic.Value // string
}

var _ VectorIndex = &PostgresIndex{}

func NewPostgresIndex(db *gorm.DB, provider embedding.EmbeddingProvider) *PostgresIndex {
	idx := &PostgresIndex{db: db, provider: provider}
	idx.version.Store("")

	var pointer model.IndexVersionPointer
	if err := db.First(&pointer, "id = ?", 1).Error; err == nil {
		idx.version.Store(pointer.CurrentVersion.String())
	}
	return idx
}

func (p *PostgresIndex) Rebuild(ctx context.Context, chunks []knowledge.Chunk) error {
	newVersion := uuid.New()

	rows := make([]model.KnowledgeChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := p.provider.Generate(chunk.Text, embedding.TaskTypeDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", chunk.Index, err)
		}
		rows = append(rows, model.KnowledgeChunk{
			Id:             uuid.New(),
			IndexVersionId: newVersion,
			ChunkIndex:     chunk.Index,
			CharOffset:     chunk.Offset,
			Document:       chunk.Text,
			EmbeddingValue: pgvector.NewVector(embedding.NormalizeVector(res.Embedding.Values)),
		})
	}

	if len(rows) > 0 {
		if err := p.db.WithContext(ctx).CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pointer := model.IndexVersionPointer{
			Id:             1,
			CurrentVersion: newVersion,
			UpdatedAt:      time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_version", "updated_at"}),
		}).Create(&pointer).Error; err != nil {
			return fmt.Errorf("publish version: %w", err)
		}

		if err := tx.Where("index_version_id <> ?", newVersion).
			Delete(&model.KnowledgeChunk{}).Error; err != nil {
			return fmt.Errorf("drop stale chunks: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.version.Store(newVersion.String())
	return nil
}

func (p *PostgresIndex) Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	res, err := p.provider.Generate(text, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	query := pgvector.NewVector(embedding.NormalizeVector(res.Embedding.Values))

	var results []struct {
		ChunkIndex int
		CharOffset int
		Document   string
		Similarity float64
	}
	err = p.db.WithContext(ctx).
		Model(&model.KnowledgeChunk{}).
		Select("chunk_index, char_offset, document, 1 - (embedding_value <=> ?) as similarity", query).
		Where("index_version_id = (SELECT current_version FROM index_version_pointer WHERE id = 1)").
		Order("similarity DESC, chunk_index ASC").
		Limit(topK).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	scored := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		scored = append(scored, ScoredChunk{
			Chunk: knowledge.Chunk{
				Index:  r.ChunkIndex,
				Offset: r.CharOffset,
				Text:   r.Document,
			},
			Score: r.Similarity,
		})
	}
	return scored, nil
}

func (p *PostgresIndex) Version() string {
	v, _ := p.version.Load().(string)
	return v
}
