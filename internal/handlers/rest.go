package handlers

import (
	"github.com/seokhyeon0916/AttenSense/internal/middleware"
	"github.com/seokhyeon0916/AttenSense/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title AttenSense CSI ML Service API
// @version 1.0
// @description API сервиса определения присутствия по Wi-Fi CSI данным

// @host localhost:8080
// @BasePath /

// @tag.name prediction
// @tag.description Предсказание активности и обработка окон CSI

// @tag.name monitoring
// @tag.description Мониторинг состояния сервиса

// RESTAPIServer обрабатывает REST API запросы
type RESTAPIServer struct {
	threshold  *services.ThresholdEngine
	activity   *services.ActivityService
	dispatcher *services.Dispatcher
	publisher  *services.Publisher
	auth       *middleware.JWTMiddleware
}

// NewRESTAPIServer создает REST API сервер
func NewRESTAPIServer(
	threshold *services.ThresholdEngine,
	activity *services.ActivityService,
	dispatcher *services.Dispatcher,
	publisher *services.Publisher,
	auth *middleware.JWTMiddleware,
) *RESTAPIServer {
	return &RESTAPIServer{
		threshold:  threshold,
		activity:   activity,
		dispatcher: dispatcher,
		publisher:  publisher,
		auth:       auth,
	}
}

// SetupRoutes настраивает роутер
func (s *RESTAPIServer) SetupRoutes() *gin.Engine {
	router := gin.Default()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	// API endpoints
	router.POST("/predict", s.Predict)
	router.GET("/health", s.Health)
	router.POST("/process", s.ProcessWindow)
	router.GET("/prediction/:category/:index", s.GetPrediction)
	router.GET("/activity/:student_id", s.auth.RequireAuth(), s.GetActivityStats)

	return router
}
