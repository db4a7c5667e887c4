package datasource

import (
	"context"
	"fmt"
	"os"

	"ai-support-chatbot-be/internal/model"

	"gorm.io/gorm"
)

// PostgresSource reads catalog records from the catalog_items table. Each
// row stores its fields as an opaque JSON blob, so the catalog schema can
// change per business without a migration.
type PostgresSource struct {
	db        *gorm.DB
	aboutPath string
}

func NewPostgresSource(db *gorm.DB, aboutPath string) DataSource {
	return &PostgresSource{
		db:        db,
		aboutPath: aboutPath,
	}
}

func (s *PostgresSource) FetchRawRecords(ctx context.Context) ([]RawRecord, error) {
	var items []*model.CatalogItem

	// Stable ordering keeps the compiled corpus reproducible across polls.
	err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog items: %w", err)
	}

	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		record := make(RawRecord, len(item.Fields))
		for key, value := range item.Fields {
			if value == nil {
				continue
			}
			record[key] = fmt.Sprint(value)
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *PostgresSource) AboutText(ctx context.Context) (string, error) {
	return readAboutFile(s.aboutPath)
}

func readAboutFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read about text %s: %w", path, err)
	}
	return string(data), nil
}
