package handlers

import (
	"net/http"
	"time"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"github.com/gin-gonic/gin"
)

// Predict выполняет предсказание активности по сырым CSI данным
// @Summary Предсказание активности по CSI данным
// @Description Оценивает активность по последовательности амплитуд; при наличии session_id и student_id результат дополнительно пишется в лог активности
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body models.PredictRequest true "CSI данные"
// @Success 200 {object} models.PredictResponse "Результат предсказания"
// @Failure 400 {object} models.ErrorResponse "Отсутствует csi_data"
// @Router /predict [post]
func (s *RESTAPIServer) Predict(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CSIData == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Missing required parameter: csi_data",
			Timestamp: now,
		})
		return
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = now
	}

	isActive, score := s.threshold.IsActive(req.CSIData)

	response := models.PredictResponse{
		IsActive:   isActive,
		Confidence: score,
		Timestamp:  timestamp,
	}

	// Лог активности пишется только при наличии обоих идентификаторов;
	// ошибка записи не меняет HTTP статус
	if req.SessionID != "" && req.StudentID != "" {
		entry := &models.ActivityLog{
			SessionID:       req.SessionID,
			StudentID:       req.StudentID,
			IsActive:        isActive,
			Confidence:      score,
			ServerTimestamp: time.Now().UTC(),
			RecordedAt:      timestamp,
		}

		logID, err := s.activity.LogActivity(c.Request.Context(), entry)
		if err != nil {
			response.DBError = err.Error()
		} else {
			response.LogID = logID
		}
	}

	c.JSON(http.StatusOK, response)
}

// Health проверяет состояние сервиса
// @Summary Проверка состояния сервиса
// @Tags monitoring
// @Produce json
// @Success 200 {object} models.HealthResponse "Сервис работает"
// @Router /health [get]
func (s *RESTAPIServer) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "csi-ml-service",
	})
}
