package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/seokhyeon0916/AttenSense/internal/features"
	"github.com/seokhyeon0916/AttenSense/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource хранит окна в памяти
type fakeSource struct {
	windows map[string]*models.CaptureWindow
}

func (s *fakeSource) GetWindow(ctx context.Context, category string, index int) (*models.CaptureWindow, error) {
	window, ok := s.windows[fmt.Sprintf("%s/%d", category, index)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrWindowNotFound, category, index)
	}
	return window, nil
}

// fakeSink собирает опубликованные решения
type fakeSink struct {
	mu        sync.Mutex
	published []models.Decision
	failWith  error
}

func (s *fakeSink) Publish(ctx context.Context, decision models.Decision) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, decision)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func testWindow(category string, index, packets int, values string) *models.CaptureWindow {
	packetMap := make(models.PacketMap, packets)
	for p := 0; p < packets; p++ {
		packetMap[fmt.Sprintf("packet_%d", p)] = values
	}
	return &models.CaptureWindow{
		Category:    category,
		WindowIndex: index,
		Packets:     packetMap,
	}
}

func newTestDispatcher(source WindowSource, sink ResultSink) *Dispatcher {
	return NewDispatcher(
		source,
		features.NewDecoder(4),
		features.NewBuilder(features.DefaultRecipe()),
		NewThresholdEngine(3.0, 1.0),
		sink,
		"csi/data",
		time.Second,
	)
}

func TestProcessPublishesDecision(t *testing.T) {
	source := &fakeSource{windows: map[string]*models.CaptureWindow{
		"sitdown/7": testWindow("sitdown", 7, 4, "0,10,0,10,0,10"),
	}}
	sink := &fakeSink{}
	d := newTestDispatcher(source, sink)
	defer d.Stop()

	decision, err := d.Process(context.Background(), "sitdown", 7)
	require.NoError(t, err)

	assert.Equal(t, "sitdown", decision.Category)
	assert.Equal(t, 7, decision.WindowIndex)
	assert.Equal(t, models.LabelSitdown, decision.Label)
	assert.Equal(t, "threshold", decision.Engine)
	assert.False(t, decision.DecidedAt.IsZero())
	assert.Equal(t, 1, sink.count())
}

func TestProcessMissingPacketPublishesNothing(t *testing.T) {
	window := testWindow("empty", 3, 4, "1,2,3")
	delete(window.Packets, "packet_2")

	source := &fakeSource{windows: map[string]*models.CaptureWindow{"empty/3": window}}
	sink := &fakeSink{}
	d := newTestDispatcher(source, sink)
	defer d.Stop()

	_, err := d.Process(context.Background(), "empty", 3)
	require.Error(t, err)

	var decodeErr *features.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, features.MissingPacket, decodeErr.Kind)
	assert.Equal(t, 2, decodeErr.Slot)

	// Решение не публикуется, в хранилище результатов ничего не появляется
	assert.Equal(t, 0, sink.count())
}

func TestProcessWindowNotFound(t *testing.T) {
	d := newTestDispatcher(&fakeSource{windows: map[string]*models.CaptureWindow{}}, &fakeSink{})
	defer d.Stop()

	_, err := d.Process(context.Background(), "empty", 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWindowNotFound))
}

func TestProcessPublishFailureKeepsDecision(t *testing.T) {
	source := &fakeSource{windows: map[string]*models.CaptureWindow{
		"empty/1": testWindow("empty", 1, 4, "1,1,1,1"),
	}}
	sink := &fakeSink{failWith: &PublishError{Kind: StoreUnavailable, Err: errors.New("store down")}}
	d := newTestDispatcher(source, sink)
	defer d.Stop()

	decision, err := d.Process(context.Background(), "empty", 1)
	require.Error(t, err)

	var publishErr *PublishError
	assert.True(t, errors.As(err, &publishErr))

	// Решение уже вычислено и пригодно для повторной публикации
	assert.Equal(t, models.LabelEmpty, decision.Label)
}

func TestHandleNotificationTopicParsing(t *testing.T) {
	source := &fakeSource{windows: map[string]*models.CaptureWindow{
		"sitdown/5": testWindow("sitdown", 5, 4, "0,10,0,10"),
	}}
	sink := &fakeSink{}
	d := newTestDispatcher(source, sink)

	// События неверной глубины или с нечисловым индексом отбрасываются
	d.HandleNotification("csi/data/sitdown", nil)
	d.HandleNotification("csi/data/sitdown/5/extra", nil)
	d.HandleNotification("csi/data/sitdown/abc", nil)
	d.HandleNotification("csi/data/sitdown/-1", nil)
	d.HandleNotification("other/root/sitdown/5", nil)

	// Корректное уведомление запускает обработку
	d.HandleNotification("csi/data/sitdown/5", nil)

	d.Stop() // дожидается in-flight экземпляров
	assert.Equal(t, 1, sink.count())
}

func TestFailureIsolationBetweenWindows(t *testing.T) {
	broken := testWindow("empty", 1, 4, "1,2")
	delete(broken.Packets, "packet_0")

	source := &fakeSource{windows: map[string]*models.CaptureWindow{
		"empty/1":   broken,
		"sitdown/2": testWindow("sitdown", 2, 4, "0,10,0,10"),
	}}
	sink := &fakeSink{}
	d := newTestDispatcher(source, sink)

	d.HandleNotification("csi/data/empty/1", nil)
	d.HandleNotification("csi/data/sitdown/2", nil)

	d.Stop()

	// Битое окно не мешает соседнему
	require.Equal(t, 1, sink.count())
	assert.Equal(t, "sitdown", sink.published[0].Category)
}

func TestDispatcherTopicPattern(t *testing.T) {
	d := newTestDispatcher(&fakeSource{}, &fakeSink{})
	defer d.Stop()

	assert.Equal(t, "csi/data/+/+", d.Topic())
}
