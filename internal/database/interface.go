package database

import (
	"context"
	"time"

	"currency_converter/internal/models"
)

// JournalInterface определяет интерфейс журнала конвертаций
type JournalInterface interface {
	SaveConversion(ctx context.Context, conversion *models.Conversion) (*models.JournalEntry, error)
	ListConversions(ctx context.Context, limit int) ([]*models.JournalEntry, error)
	DeleteConversionsBefore(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Убеждаемся, что DB реализует JournalInterface
var _ JournalInterface = (*DB)(nil)
