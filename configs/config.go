// configs/config.go
package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	MQTT     MQTTConfig
	CSI      CSIConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AppConfig struct {
	Port      string // HTTP_PORT из .env
	LogLevel  string
	JWTSecret string // пустая строка = эндпоинты активности без авторизации
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
}

// CSIConfig параметры пайплайна обработки CSI
type CSIConfig struct {
	RootTopic           string  // корневой топик уведомлений о новых окнах
	Engine              string  // "threshold" или "model"
	ModelServiceURL     string  // адрес внешнего inference-сервиса
	Threshold           float64 // порог вариативности
	ThresholdMultiplier float64 // множитель порога активности
	PacketCount         int     // ожидаемое число пакетов в окне
	StoreTimeoutSec     int     // таймаут обращений к хранилищу
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "csi_user"),
			Password: getEnv("DB_PASSWORD", "csi_password"),
			DBName:   getEnv("DB_NAME", "csi_monitor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		App: AppConfig{
			Port:      getEnv("HTTP_PORT", "8080"),
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID: getEnv("MQTT_CLIENT_ID", "csi_monitor_service"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
		},
		CSI: CSIConfig{
			RootTopic:           getEnv("CSI_ROOT_TOPIC", "csi/data"),
			Engine:              getEnv("DECISION_ENGINE", "threshold"),
			ModelServiceURL:     getEnv("MODEL_SERVICE_URL", "http://localhost:8000"),
			Threshold:           getEnvAsFloat("CSI_THRESHOLD", 3.0),
			ThresholdMultiplier: getEnvAsFloat("CSI_THRESHOLD_MULTIPLIER", 1.0),
			PacketCount:         getEnvAsInt("CSI_PACKET_COUNT", 20),
			StoreTimeoutSec:     getEnvAsInt("STORE_TIMEOUT_SEC", 10),
		},
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает переменную окружения как int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat получает переменную окружения как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
