package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/internal/model"
	"ai-support-chatbot-be/internal/repository/contract"
)

type HistoryRepositoryImpl struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) contract.HistoryRepository {
	return &HistoryRepositoryImpl{db: db}
}

func (r *HistoryRepositoryImpl) Get(ctx context.Context, userId string, limit int) ([]entity.Turn, error) {
	if limit <= 0 {
		limit = constant.DefaultHistoryLimit
	}

	var rows []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// Query is newest-first for the LIMIT; callers want oldest-first.
	turns := make([]entity.Turn, len(rows))
	for i, row := range rows {
		turns[len(rows)-1-i] = entity.Turn{
			Role:      row.Role,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
		}
	}
	return turns, nil
}

func (r *HistoryRepositoryImpl) Append(ctx context.Context, userId string, turns []entity.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	rows := make([]model.ChatMessage, len(turns))
	for i, turn := range turns {
		createdAt := turn.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		rows[i] = model.ChatMessage{
			Id:        uuid.New(),
			UserId:    userId,
			Role:      turn.Role,
			Text:      turn.Text,
			CreatedAt: createdAt,
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		session := model.ChatSession{
			UserId:     userId,
			LastActive: time.Now(),
			CreatedAt:  time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_active"}),
		}).Create(&session).Error
	})
}

func (r *HistoryRepositoryImpl) CleanupIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	var stale []model.ChatSession
	err := r.db.WithContext(ctx).
		Where("last_active < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	userIds := make([]string, len(stale))
	for i, session := range stale {
		userIds[i] = session.UserId
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", userIds).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id IN ?", userIds).Delete(&model.ChatSession{}).Error
	})
	if err != nil {
		return 0, err
	}
	return int64(len(stale)), nil
}
