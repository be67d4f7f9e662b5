package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/seokhyeon0916/AttenSense/internal/features"
	"github.com/seokhyeon0916/AttenSense/internal/models"
	"github.com/seokhyeon0916/AttenSense/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProcessWindow вручную запускает пайплайн для сохраненного окна.
// Это единственный способ повторно обработать окно: реактивный путь
// делает ровно одну попытку на уведомление.
// @Summary Повторная обработка окна CSI
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body models.ProcessRequest true "Ключ окна"
// @Success 200 {object} models.Decision "Опубликованное решение"
// @Failure 400 {object} models.ErrorResponse "Неверный запрос"
// @Failure 404 {object} models.ErrorResponse "Окно не найдено"
// @Failure 422 {object} models.ErrorResponse "Окно не декодируется"
// @Failure 502 {object} models.ErrorResponse "Ошибка движка или публикации"
// @Router /process [post]
func (s *RESTAPIServer) ProcessWindow(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WindowIndex < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Требуются category и неотрицательный window_index",
			Timestamp: now,
		})
		return
	}

	decision, err := s.dispatcher.Process(c.Request.Context(), req.Category, req.WindowIndex)
	if err != nil {
		c.JSON(statusForPipelineError(err), models.ErrorResponse{
			Error:     err.Error(),
			Timestamp: now,
		})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// GetPrediction возвращает опубликованное решение по ключу окна
// @Summary Чтение решения по ключу {category}/{index}
// @Tags prediction
// @Produce json
// @Success 200 {object} models.Prediction
// @Failure 404 {object} models.ErrorResponse "Решение не найдено"
// @Router /prediction/{category}/{index} [get]
func (s *RESTAPIServer) GetPrediction(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Индекс окна должен быть неотрицательным целым",
			Timestamp: now,
		})
		return
	}

	record, err := s.publisher.GetPrediction(c.Request.Context(), c.Param("category"), index)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:     "Решение не найдено",
				Timestamp: now,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     err.Error(),
			Timestamp: now,
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetActivityStats возвращает историю активности студента со статистикой
// @Summary История и статистика активности
// @Tags prediction
// @Produce json
// @Param student_id path string true "ID студента"
// @Param session_id query string false "Фильтр по сессии"
// @Param limit query int false "Размер истории (по умолчанию 50)"
// @Success 200 {object} models.ActivityStatsResponse
// @Router /activity/{student_id} [get]
func (s *RESTAPIServer) GetActivityStats(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	stats, err := s.activity.GetActivityStats(
		c.Request.Context(),
		c.Param("student_id"),
		c.Query("session_id"),
		limit,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     err.Error(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// statusForPipelineError сопоставляет ошибку стадии пайплайна HTTP статусу
func statusForPipelineError(err error) int {
	var decodeErr *features.DecodeError
	var buildErr *features.BuildError
	var decisionErr *services.DecisionError
	var publishErr *services.PublishError

	switch {
	case errors.Is(err, services.ErrWindowNotFound):
		return http.StatusNotFound
	case errors.As(err, &decodeErr), errors.As(err, &buildErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &decisionErr), errors.As(err, &publishErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
