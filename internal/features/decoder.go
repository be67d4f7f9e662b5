package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seokhyeon0916/AttenSense/internal/models"
)

// Виды ошибок декодирования окна
type DecodeErrorKind string

const (
	MissingPacket    DecodeErrorKind = "missing_packet"
	EmptyPacket      DecodeErrorKind = "empty_packet"
	MalformedNumeric DecodeErrorKind = "malformed_numeric"
)

// DecodeError структурированная ошибка декодирования: диспетчер различает
// виды ошибок по Kind, а Slot указывает проблемный слот пакета
type DecodeError struct {
	Kind DecodeErrorKind
	Slot int
	Err  error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case MissingPacket:
		return fmt.Sprintf("окно неполное: отсутствует packet_%d", e.Slot)
	case EmptyPacket:
		return fmt.Sprintf("packet_%d не содержит ни одного числового значения", e.Slot)
	case MalformedNumeric:
		return fmt.Sprintf("packet_%d содержит нечисловое значение: %v", e.Slot, e.Err)
	default:
		return fmt.Sprintf("ошибка декодирования packet_%d", e.Slot)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder разбирает сырое представление окна в матрицу амплитуд
type Decoder struct {
	packetCount int // ожидаемое число слотов P
}

// NewDecoder создает декодер для окон из packetCount пакетов
func NewDecoder(packetCount int) *Decoder {
	return &Decoder{packetCount: packetCount}
}

// PacketCount возвращает ожидаемое число пакетов в окне
func (d *Decoder) PacketCount() int {
	return d.packetCount
}

// Decode превращает окно в матрицу P×S. Для каждого слота 0..P-1 ищется ключ
// packet_{i}; отсутствие слота, нечисловой токен или пустой результат дают
// структурированную ошибку. Строки матрицы могут иметь разную длину, если
// источник загрузил неравномерные пакеты. Чистая функция, без побочных эффектов.
func (d *Decoder) Decode(packets models.PacketMap) ([][]float64, error) {
	matrix := make([][]float64, 0, d.packetCount)

	for slot := 0; slot < d.packetCount; slot++ {
		key := fmt.Sprintf("%s%d", models.PacketSlotPrefix, slot)
		raw, ok := packets[key]
		if !ok {
			return nil, &DecodeError{Kind: MissingPacket, Slot: slot}
		}

		row, err := parseAmplitudes(raw)
		if err != nil {
			return nil, &DecodeError{Kind: MalformedNumeric, Slot: slot, Err: err}
		}
		if len(row) == 0 {
			return nil, &DecodeError{Kind: EmptyPacket, Slot: slot}
		}

		matrix = append(matrix, row)
	}

	return matrix, nil
}

// parseAmplitudes разбирает строку амплитуд через запятую, пропуская пустые токены
func parseAmplitudes(raw string) ([]float64, error) {
	tokens := strings.Split(strings.TrimSpace(raw), ",")
	values := make([]float64, 0, len(tokens))

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("токен %q: %w", token, err)
		}
		values = append(values, v)
	}

	return values, nil
}
