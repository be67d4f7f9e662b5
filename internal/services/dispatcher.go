package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/seokhyeon0916/AttenSense/internal/features"
	"github.com/seokhyeon0916/AttenSense/internal/models"
)

// WindowSource источник окон CSI для диспетчера
type WindowSource interface {
	GetWindow(ctx context.Context, category string, index int) (*models.CaptureWindow, error)
}

// ResultSink приемник решений
type ResultSink interface {
	Publish(ctx context.Context, decision models.Decision) error
}

// Dispatcher реактивный диспетчер пайплайна: получает уведомления о новых
// окнах, для каждого запускает независимый экземпляр обработки
// Decode → Build → Decide → Publish. Ошибка любой стадии завершает только
// свой экземпляр — одно битое окно никогда не останавливает поток.
type Dispatcher struct {
	source  WindowSource
	decoder *features.Decoder
	builder *features.Builder
	engine  Engine
	sink    ResultSink

	rootTopic    string
	storeTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер. rootTopic — корневой топик уведомлений
// (например "csi/data"), storeTimeout ограничивает каждое обращение к хранилищу.
func NewDispatcher(
	source WindowSource,
	decoder *features.Decoder,
	builder *features.Builder,
	engine Engine,
	sink ResultSink,
	rootTopic string,
	storeTimeout time.Duration,
) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		source:       source,
		decoder:      decoder,
		builder:      builder,
		engine:       engine,
		sink:         sink,
		rootTopic:    strings.Trim(rootTopic, "/"),
		storeTimeout: storeTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}

	log.Printf("🚀 CSI Dispatcher запущен (движок: %s, топик: %s/+/+)", engine.Name(), d.rootTopic)
	return d
}

// Topic возвращает шаблон подписки для MQTT клиента
func (d *Dispatcher) Topic() string {
	return d.rootTopic + "/+/+"
}

// HandleNotification главный обработчик уведомлений о новых окнах.
// Топик вида {root}/{category}/{index}; события другой глубины или с
// нечисловым индексом логируются и отбрасываются без запуска обработки.
func (d *Dispatcher) HandleNotification(topic string, payload []byte) {
	category, index, ok := d.parseTopic(topic)
	if !ok {
		log.Printf("⚠️ Неверный формат топика уведомления: %s", topic)
		return
	}

	select {
	case <-d.ctx.Done():
		log.Printf("⚠️ Диспетчер остановлен, уведомление %s/%d пропущено", category, index)
		return
	default:
	}

	// Каждое уведомление — независимый экземпляр обработки
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if _, err := d.Process(d.ctx, category, index); err != nil {
			log.Printf("❌ Окно %s/%d: стадия %s: %v", category, index, stageOf(err), err)
		}
	}()
}

// parseTopic разбирает топик уведомления на категорию и индекс окна
func (d *Dispatcher) parseTopic(topic string) (string, int, bool) {
	trimmed := strings.Trim(topic, "/")
	if !strings.HasPrefix(trimmed, d.rootTopic+"/") {
		return "", 0, false
	}

	rest := strings.TrimPrefix(trimmed, d.rootTopic+"/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, false
	}

	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return "", 0, false
	}

	return parts[0], index, true
}

// Process прогоняет одно окно через весь пайплайн. Стадии строго
// последовательны: выход каждой — единственный вход следующей.
// Используется и реактивным путём, и ручным POST /process.
func (d *Dispatcher) Process(ctx context.Context, category string, index int) (models.Decision, error) {
	// Чтение окна из хранилища с ограниченным таймаутом
	readCtx, cancelRead := context.WithTimeout(ctx, d.storeTimeout)
	window, err := d.source.GetWindow(readCtx, category, index)
	cancelRead()
	if err != nil {
		return models.Decision{}, err
	}

	// Decode
	matrix, err := d.decoder.Decode(window.Packets)
	if err != nil {
		return models.Decision{}, err
	}

	// Build
	sample, err := d.builder.Build(matrix)
	if err != nil {
		return models.Decision{}, err
	}

	// Decide
	outcome, err := d.engine.Decide(ctx, sample)
	if err != nil {
		return models.Decision{}, err
	}

	decision := models.Decision{
		Category:    category,
		WindowIndex: index,
		Label:       outcome.Label,
		Confidence:  outcome.Confidence,
		Engine:      d.engine.Name(),
		DecidedAt:   time.Now().UTC(),
	}

	// Publish с ограниченным таймаутом; на реактивном пути повторов нет
	// (at-most-once), ручной повтор — POST /process
	writeCtx, cancelWrite := context.WithTimeout(ctx, d.storeTimeout)
	err = d.sink.Publish(writeCtx, decision)
	cancelWrite()
	if err != nil {
		return decision, err
	}

	return decision, nil
}

// Stop останавливает диспетчер и дожидается завершения обработки
func (d *Dispatcher) Stop() {
	log.Println("🛑 Остановка CSI Dispatcher...")
	d.cancel()
	d.wg.Wait()
	log.Println("✅ CSI Dispatcher остановлен")
}

// stageOf определяет стадию пайплайна по типу ошибки
func stageOf(err error) string {
	var decodeErr *features.DecodeError
	var buildErr *features.BuildError
	var decisionErr *DecisionError
	var publishErr *PublishError

	switch {
	case errors.Is(err, ErrWindowNotFound):
		return "read"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &buildErr):
		return "build"
	case errors.As(err, &decisionErr):
		return "decide"
	case errors.As(err, &publishErr):
		return "publish"
	default:
		return "read"
	}
}
