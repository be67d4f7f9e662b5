package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/seokhyeon0916/AttenSense/configs"
	"github.com/seokhyeon0916/AttenSense/internal/database"
	"github.com/seokhyeon0916/AttenSense/internal/features"
	"github.com/seokhyeon0916/AttenSense/internal/handlers"
	"github.com/seokhyeon0916/AttenSense/internal/middleware"
	"github.com/seokhyeon0916/AttenSense/internal/mqtt_client"
	"github.com/seokhyeon0916/AttenSense/internal/services"
)

func main() {
	log.Println(" === AttenSense CSI Monitor ===")

	// 1. Загрузка конфигурации
	cfg := configs.LoadConfig()
	log.Printf("Конфигурация загружена: DB=%s:%s, MQTT=%s, движок=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.MQTT.Broker, cfg.CSI.Engine)

	// 2. Инициализация базы данных
	db, err := database.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	// 3. Компоненты пайплайна
	recipe := features.DefaultRecipe()
	decoder := features.NewDecoder(cfg.CSI.PacketCount)
	builder := features.NewBuilder(recipe)
	thresholdEngine := services.NewThresholdEngine(cfg.CSI.Threshold, cfg.CSI.ThresholdMultiplier)

	var engine services.Engine
	switch cfg.CSI.Engine {
	case "model":
		engine = services.NewModelEngine(cfg.CSI.ModelServiceURL, recipe)
	default:
		engine = thresholdEngine
	}

	captureStore := services.NewCaptureStore(db)
	publisher := services.NewPublisher(db)
	activityService := services.NewActivityService(db)

	// 4. Реактивный диспетчер
	dispatcher := services.NewDispatcher(
		captureStore,
		decoder,
		builder,
		engine,
		publisher,
		cfg.CSI.RootTopic,
		time.Duration(cfg.CSI.StoreTimeoutSec)*time.Second,
	)

	// 5. MQTT клиент и подписка на уведомления о новых окнах
	mqttClient, err := mqtt_client.InitClient(cfg.MQTT)
	if err != nil {
		log.Fatalf("Ошибка MQTT: %v", err)
	}
	defer mqttClient.Disconnect(250)

	messageHandler := func(client mqtt.Client, msg mqtt.Message) {
		dispatcher.HandleNotification(msg.Topic(), msg.Payload())
	}

	token := mqttClient.Subscribe(dispatcher.Topic(), byte(cfg.MQTT.QoS), messageHandler)
	if token.Wait() && token.Error() != nil {
		log.Fatalf("Ошибка подписки MQTT: %v", token.Error())
	}
	log.Printf("MQTT клиент подключён к %s, топик: %s", cfg.MQTT.Broker, dispatcher.Topic())

	// 6. REST API сервер
	auth := middleware.NewJWTMiddleware(cfg.App.JWTSecret)
	restAPI := handlers.NewRESTAPIServer(thresholdEngine, activityService, dispatcher, publisher, auth)
	router := restAPI.SetupRoutes()

	go func() {
		log.Printf("REST API Server запущен на :%s", cfg.App.Port)
		if err := http.ListenAndServe(":"+cfg.App.Port, router); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка HTTP сервера: %v", err)
		}
	}()

	log.Println("Сервис запущен → Ctrl+C для остановки")
	log.Println("MQTT → Dispatcher → Decode → Build → Decide → Publish")
	log.Println("REST API → Threshold Engine / ручная переобработка окон")

	// 7. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Graceful shutdown...")

	mqttClient.Unsubscribe(dispatcher.Topic())
	dispatcher.Stop()

	log.Println("Сервис полностью остановлен")
}
