package services

import (
	"context"
	"fmt"

	"github.com/seokhyeon0916/AttenSense/internal/features"
)

// Outcome результат работы движка решений для одного окна
type Outcome struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Score      float64 `json:"score"`
	IsActive   bool    `json:"is_active"`
}

// Engine контракт движка решений. Обе стратегии (модельная и пороговая)
// взаимозаменяемы: диспетчеру безразлично, какая из них активна.
// Реализации неизменяемы после конструирования и безопасны для
// конкурентного вызова Decide.
type Engine interface {
	Name() string
	Decide(ctx context.Context, sample *features.Sample) (Outcome, error)
}

// DecisionErrorKind виды ошибок движка решений
type DecisionErrorKind string

const (
	InvalidInputShape DecisionErrorKind = "invalid_input_shape"
	ModelUnavailable  DecisionErrorKind = "model_unavailable"
)

// DecisionError структурированная ошибка движка решений
type DecisionError struct {
	Kind   DecisionErrorKind
	Detail string
	Err    error
}

func (e *DecisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ошибка движка решений (%s): %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("ошибка движка решений (%s): %s", e.Kind, e.Detail)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}
