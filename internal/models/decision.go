package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Метки классов активности
const (
	LabelEmpty   = "empty"
	LabelSitdown = "sitdown"
)

// Decision результат классификации одного окна, ещё не привязанный к хранилищу
type Decision struct {
	Category    string    `json:"category"`
	WindowIndex int       `json:"window_index"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	Engine      string    `json:"engine"`
	DecidedAt   time.Time `json:"decided_at"`
}

// Prediction запись решения в хранилище результатов.
// Ключ (category, window_index) уникален: повторная публикация перезаписывает
// запись по принципу last-write-wins.
type Prediction struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null;uniqueIndex:idx_predictions_key"`
	WindowIndex int       `json:"window_index" gorm:"not null;uniqueIndex:idx_predictions_key"`
	Label       string    `json:"label" gorm:"type:varchar(32);not null"`
	Confidence  float64   `json:"confidence"`
	Engine      string    `json:"engine" gorm:"type:varchar(32)"`
	DecidedAt   time.Time `json:"timestamp"`
	UpdatedAt   time.Time `json:"-"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// BeforeCreate устанавливает ID перед созданием
func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ActivityLog запись лога активности, создаваемая on-demand HTTP путём,
// когда в запросе присутствуют session_id и student_id
type ActivityLog struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID       string    `json:"session_id" gorm:"type:varchar(100);not null;index"`
	StudentID       string    `json:"student_id" gorm:"type:varchar(100);not null;index"`
	IsActive        bool      `json:"is_active"`
	Confidence      float64   `json:"confidence"`
	ServerTimestamp time.Time `json:"server_timestamp"`
	RecordedAt      string    `json:"recorded_at" gorm:"type:varchar(64)"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate устанавливает ID перед созданием
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
