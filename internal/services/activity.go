package services

import (
	"context"
	"fmt"
	"log"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"gorm.io/gorm"
)

// ActivityService отвечает за логи активности, создаваемые on-demand путём
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService создает сервис логов активности
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// LogActivity сохраняет запись активности и возвращает её ID
func (s *ActivityService) LogActivity(ctx context.Context, entry *models.ActivityLog) (string, error) {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return "", fmt.Errorf("ошибка сохранения лога активности: %w", err)
	}

	log.Printf("📝 Лог активности сохранен: %s/%s (id=%s)", entry.SessionID, entry.StudentID, entry.ID)
	return entry.ID.String(), nil
}

// GetActivityStats возвращает историю и агрегированную статистику по студенту.
// sessionID пустой — по всем сессиям; limit ограничивает размер истории.
func (s *ActivityService) GetActivityStats(ctx context.Context, studentID, sessionID string, limit int) (*models.ActivityStatsResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := s.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("student_id = ?", studentID)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var logs []models.ActivityLog
	if err := query.Order("server_timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("ошибка выборки логов активности: %w", err)
	}

	stats := &models.ActivityStatsResponse{
		StudentID:      studentID,
		SessionID:      sessionID,
		RecentActivity: logs,
	}

	for _, entry := range logs {
		if entry.IsActive {
			stats.ActiveCount++
		} else {
			stats.InactiveCount++
		}
	}
	stats.TotalPredictions = len(logs)
	if stats.TotalPredictions > 0 {
		stats.ActivityRate = float64(stats.ActiveCount) / float64(stats.TotalPredictions) * 100
	}

	return stats, nil
}
