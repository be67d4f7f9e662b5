package services

import (
	"context"
	"fmt"
	"log"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublishErrorKind виды ошибок публикации
type PublishErrorKind string

const (
	StoreUnavailable PublishErrorKind = "store_unavailable"
	WriteRejected    PublishErrorKind = "write_rejected"
)

// PublishError структурированная ошибка публикации решения.
// Ошибка публикации не обесценивает уже вычисленное решение: вызывающий
// может повторить Publish, не перезапуская движок.
type PublishError struct {
	Kind PublishErrorKind
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("ошибка публикации решения (%s): %v", e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher записывает решения в хранилище результатов по ключу
// {category}/{index}. Повторная публикация того же ключа перезаписывает
// запись (last-write-wins), что делает публикацию идемпотентной: ядро
// не ведет собственной логики слияния конфликтов.
type Publisher struct {
	db *gorm.DB
}

// NewPublisher создает публикатор решений
func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{db: db}
}

// Publish выполняет upsert решения по уникальному ключу (category, window_index)
func (p *Publisher) Publish(ctx context.Context, decision models.Decision) error {
	record := models.Prediction{
		ID:          uuid.New(),
		Category:    decision.Category,
		WindowIndex: decision.WindowIndex,
		Label:       decision.Label,
		Confidence:  clampConfidence(decision.Confidence),
		Engine:      decision.Engine,
		DecidedAt:   decision.DecidedAt,
	}

	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "category"}, {Name: "window_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"label", "confidence", "engine", "decided_at", "updated_at",
			}),
		}).
		Create(&record).Error

	if err != nil {
		return &PublishError{Kind: WriteRejected, Err: err}
	}

	log.Printf("💾 Решение опубликовано: %s/%d → %s (%.4f)",
		decision.Category, decision.WindowIndex, decision.Label, record.Confidence)
	return nil
}

// GetPrediction читает опубликованное решение по ключу {category}/{index}
func (p *Publisher) GetPrediction(ctx context.Context, category string, index int) (*models.Prediction, error) {
	var record models.Prediction
	err := p.db.WithContext(ctx).
		Where("category = ? AND window_index = ?", category, index).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// clampConfidence приводит уверенность к диапазону [0, 1] для записи
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
