// internal/database/migrations.go
package database

import (
	"fmt"
	"log"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"gorm.io/gorm"
)

// RunMigrations выполняет миграции базы данных
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Запуск миграций базы данных...")

	err := db.AutoMigrate(
		&models.CaptureWindow{},
		&models.Prediction{},
		&models.ActivityLog{},
	)

	if err != nil {
		return fmt.Errorf("ошибка миграции: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}

	log.Println("✅ Миграции выполнены успешно")
	return nil
}

// createIndexes создает дополнительные индексы
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Быстрый доступ к окну по ключу {category}/{index}
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_csi_windows_key ON csi_windows(category, window_index)",
		// Upsert публикации решений опирается на этот уникальный индекс
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_predictions_key ON predictions(category, window_index)",
		"CREATE INDEX IF NOT EXISTS idx_predictions_decided_at ON predictions(decided_at DESC)",

		// GIN индекс для запросов по содержимому пакетов
		"CREATE INDEX IF NOT EXISTS idx_csi_windows_packets_gin ON csi_windows USING GIN (packets)",

		// История активности: выборки по студенту и сессии в обратном порядке времени
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_student_time ON activity_logs(student_id, server_timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_session ON activity_logs(session_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Не удалось создать индекс: %s, ошибка: %v", indexSQL, err)
		}
	}

	return nil
}
