// Эмулятор capture-устройства: генерирует синтетические окна CSI,
// загружает их в хранилище и публикует уведомления, как это делает
// прошивка Raspberry Pi в реальной установке.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/seokhyeon0916/AttenSense/configs"
	"github.com/seokhyeon0916/AttenSense/internal/database"
	"github.com/seokhyeon0916/AttenSense/internal/models"
	"github.com/seokhyeon0916/AttenSense/internal/mqtt_client"
)

// notification полезная нагрузка уведомления; авторитетен сам топик
type notification struct {
	Category    string `json:"category"`
	Index       int    `json:"index"`
	PacketCount int    `json:"packet_count"`
}

func main() {
	category := flag.String("category", "empty", "категория окон: empty или sitdown")
	count := flag.Int("count", 10, "сколько окон сгенерировать")
	startIndex := flag.Int("start", 0, "начальный индекс окна")
	packets := flag.Int("packets", 20, "пакетов в окне")
	subcarriers := flag.Int("subcarriers", 52, "поднесущих в пакете")
	interval := flag.Duration("interval", 2*time.Second, "пауза между окнами")
	flag.Parse()

	cfg := configs.LoadConfig()

	db, err := database.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	cfg.MQTT.ClientID = fmt.Sprintf("csi-emulator-%d", time.Now().Unix())
	mqttClient, err := mqtt_client.InitClient(cfg.MQTT)
	if err != nil {
		log.Fatalf("Ошибка MQTT: %v", err)
	}
	defer mqttClient.Disconnect(250)

	log.Printf("Эмулятор: категория=%s, окон=%d, %d×%d", *category, *count, *packets, *subcarriers)

	for i := 0; i < *count; i++ {
		index := *startIndex + i
		window := generateWindow(*category, index, *packets, *subcarriers)

		if err := db.Create(window).Error; err != nil {
			log.Printf("❌ Окно %s/%d не записано: %v", *category, index, err)
			continue
		}

		if err := publishNotification(mqttClient, cfg.CSI.RootTopic, *category, index, *packets); err != nil {
			log.Printf("❌ Уведомление %s/%d не отправлено: %v", *category, index, err)
			continue
		}

		log.Printf("✓ Окно %s/%d загружено и анонсировано", *category, index)
		time.Sleep(*interval)
	}

	log.Println("Эмуляция завершена")
}

// generateWindow собирает окно из packets пакетов по subcarriers амплитуд.
// Для "empty" амплитуды колеблются слабо вокруг базовой линии, для
// "sitdown" вариативность заметно выше и добавляются всплески движения.
func generateWindow(category string, index, packets, subcarriers int) *models.CaptureWindow {
	noise := 0.4
	burst := 0.0
	if category == "sitdown" {
		noise = 4.0
		burst = 12.0
	}

	packetMap := make(models.PacketMap, packets)
	for p := 0; p < packets; p++ {
		values := make([]string, subcarriers)
		for s := 0; s < subcarriers; s++ {
			base := 20.0 + 6.0*math.Sin(float64(s)/float64(subcarriers)*2*math.Pi)
			v := base + rand.NormFloat64()*noise
			if burst > 0 && rand.Float64() < 0.05 {
				v += burst * rand.Float64()
			}
			values[s] = fmt.Sprintf("%.2f", v)
		}
		packetMap[fmt.Sprintf("%s%d", models.PacketSlotPrefix, p)] = strings.Join(values, ",")
	}

	return &models.CaptureWindow{
		Category:    category,
		WindowIndex: index,
		Packets:     packetMap,
		CapturedAt:  time.Now().UTC(),
	}
}

// publishNotification публикует уведомление о новом окне
func publishNotification(client mqtt.Client, rootTopic, category string, index, packets int) error {
	payload, err := json.Marshal(notification{
		Category:    category,
		Index:       index,
		PacketCount: packets,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/%d", strings.Trim(rootTopic, "/"), category, index)
	token := client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("таймаут отправки MQTT")
	}
	return token.Error()
}
