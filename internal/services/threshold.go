package services

import (
	"context"
	"log"

	"github.com/seokhyeon0916/AttenSense/internal/features"
	"github.com/seokhyeon0916/AttenSense/internal/models"
	"github.com/seokhyeon0916/AttenSense/pkg/utils"
)

// ThresholdEngine пороговый движок: оценивает активность по вариативности
// амплитуд. Не имеет состояния и никогда не возвращает ошибку — на
// некорректном входе деградирует до нулевой оценки, чтобы одно плохое окно
// не валило поток (в отличие от модельного движка, который падает громко).
type ThresholdEngine struct {
	threshold  float64
	multiplier float64
}

// NewThresholdEngine создает пороговый движок.
// threshold — порог вариативности (по умолчанию 3.0),
// multiplier — множитель порога активности (по умолчанию 1.0).
func NewThresholdEngine(threshold, multiplier float64) *ThresholdEngine {
	if threshold <= 0 {
		threshold = 3.0
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	return &ThresholdEngine{threshold: threshold, multiplier: multiplier}
}

func (e *ThresholdEngine) Name() string {
	return "threshold"
}

// Score вычисляет оценку активности для последовательности амплитуд:
// стандартное отклонение (по совокупности, делитель N), делённое на порог.
// Меньше двух точек — предупреждение в лог и 0.0 вместо ошибки.
func (e *ThresholdEngine) Score(series []float64) float64 {
	if len(series) < 2 {
		log.Printf("⚠️ Недостаточно точек CSI для оценки активности: %d", len(series))
		return 0.0
	}

	stdDev := utils.StdPop(series)
	score := stdDev / e.threshold
	return utils.SafeFloat(score)
}

// IsActive возвращает признак активности и оценку
func (e *ThresholdEngine) IsActive(series []float64) (bool, float64) {
	score := e.Score(series)
	return score > 1.0*e.multiplier, score
}

// Decide реализует контракт Engine поверх развернутой последовательности
func (e *ThresholdEngine) Decide(ctx context.Context, sample *features.Sample) (Outcome, error) {
	var series []float64
	if sample != nil {
		series = sample.Series
	}

	active, score := e.IsActive(series)

	label := models.LabelEmpty
	if active {
		label = models.LabelSitdown
	}

	return Outcome{
		Label:      label,
		Confidence: score,
		Score:      score,
		IsActive:   active,
	}, nil
}
