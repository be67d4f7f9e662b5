package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"gorm.io/gorm"
)

// ErrWindowNotFound окно с таким ключом отсутствует в хранилище
var ErrWindowNotFound = errors.New("окно не найдено")

// CaptureStore читает окна CSI из хранилища. Окна пишутся внешним
// загрузчиком append-only; ядро сервиса их только читает.
type CaptureStore struct {
	db *gorm.DB
}

// NewCaptureStore создает сервис чтения окон
func NewCaptureStore(db *gorm.DB) *CaptureStore {
	return &CaptureStore{db: db}
}

// GetWindow возвращает окно по ключу {category}/{index}
func (s *CaptureStore) GetWindow(ctx context.Context, category string, index int) (*models.CaptureWindow, error) {
	var window models.CaptureWindow

	err := s.db.WithContext(ctx).
		Where("category = ? AND window_index = ?", category, index).
		First(&window).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%d", ErrWindowNotFound, category, index)
		}
		return nil, fmt.Errorf("ошибка чтения окна %s/%d: %w", category, index, err)
	}

	return &window, nil
}
