package models

import (
	"time"

	"github.com/google/uuid"
)

// PacketSlotPrefix префикс ключей пакетов внутри окна: packet_0 .. packet_{P-1}
const PacketSlotPrefix = "packet_"

// PacketMap сырое представление окна: имя слота → строка амплитуд через запятую
type PacketMap map[string]string

// CaptureWindow одно окно CSI данных, загруженное внешним capture-устройством.
// Запись append-only: ядро сервиса окна только читает, никогда не изменяет.
type CaptureWindow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null;uniqueIndex:idx_csi_windows_key"`
	WindowIndex int       `json:"window_index" gorm:"not null;uniqueIndex:idx_csi_windows_key"`

	// Пакеты как JSONB словарь: {"packet_0": "12.3,45.1,...", ...}
	Packets PacketMap `json:"packets" gorm:"serializer:json;type:jsonb"`

	CapturedAt time.Time `json:"captured_at" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CaptureWindow) TableName() string {
	return "csi_windows"
}
