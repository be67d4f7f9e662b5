package models

// PredictRequest структура запроса на предсказание по сырым CSI данным
// @Description Запрос on-demand предсказания активности
type PredictRequest struct {
	CSIData   []float64 `json:"csi_data"`             // Последовательность амплитуд CSI
	SessionID string    `json:"session_id,omitempty"` // ID сессии посещаемости (опционально)
	StudentID string    `json:"student_id,omitempty"` // ID студента (опционально)
	Timestamp string    `json:"timestamp,omitempty"`  // Клиентская метка времени ISO-8601
}

// PredictResponse ответ предсказания активности
// @Description Результат предсказания активности
type PredictResponse struct {
	IsActive   bool    `json:"is_active"`          // Обнаружена ли активность
	Confidence float64 `json:"confidence"`         // Оценка активности
	Timestamp  string  `json:"timestamp"`          // Метка времени результата
	LogID      string  `json:"log_id,omitempty"`   // ID записи лога активности (если сохранена)
	DBError    string  `json:"db_error,omitempty"` // Ошибка сохранения лога (статус остаётся 200)
}

// ProcessRequest запрос ручного запуска пайплайна для сохранённого окна
// @Description Повторная обработка окна из хранилища
type ProcessRequest struct {
	Category    string `json:"category" binding:"required" example:"sitdown"` // Категория окна
	WindowIndex int    `json:"window_index" example:"50"`                     // Индекс окна
}

// ErrorResponse стандартная структура ошибки
type ErrorResponse struct {
	Error     string `json:"error" example:"Missing required parameter: csi_data"` // Сообщение об ошибке
	Timestamp string `json:"timestamp" example:"2025-05-20T10:00:00Z"`             // Время ошибки
}

// ActivityStatsResponse статистика активности студента
// @Description История и агрегированная статистика активности
type ActivityStatsResponse struct {
	StudentID        string        `json:"student_id"`
	SessionID        string        `json:"session_id,omitempty"`
	TotalPredictions int           `json:"total_predictions"`
	ActiveCount      int           `json:"active_count"`
	InactiveCount    int           `json:"inactive_count"`
	ActivityRate     float64       `json:"activity_rate"` // Процент активных записей
	RecentActivity   []ActivityLog `json:"recent_activity"`
}

// HealthResponse состояние сервиса
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service" example:"csi-ml-service"`
}
