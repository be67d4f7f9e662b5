package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seokhyeon0916/AttenSense/internal/features"
)

// inferRequest тело запроса к inference-сервису
type inferRequest struct {
	Recipe string    `json:"recipe"`
	Shape  [4]int    `json:"shape"`
	Data   []float32 `json:"data"`
}

// inferResponse ответ inference-сервиса: argmax-класс и его softmax-вероятность
type inferResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ModelEngine модельный движок: прямой проход CNN выполняет внешний
// inference-сервис, как и в остальных наших ML сервисах. Загруженная модель
// живет в том сервисе; перезагрузка — его рестарт, горячей подмены нет.
type ModelEngine struct {
	mlURL      string
	recipe     features.Recipe
	httpClient *http.Client
}

// NewModelEngine создает модельный движок, указывающий на inference-сервис
func NewModelEngine(mlURL string, recipe features.Recipe) *ModelEngine {
	return &ModelEngine{
		mlURL:  mlURL,
		recipe: recipe,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (e *ModelEngine) Name() string {
	return "model"
}

// Decide проверяет форму тензора и выполняет прямой проход через
// inference-сервис. Неверная форма — ошибка конфигурации, её нельзя
// маскировать, поэтому InvalidInputShape возвращается до любого сетевого вызова.
func (e *ModelEngine) Decide(ctx context.Context, sample *features.Sample) (Outcome, error) {
	if sample == nil || sample.Tensor == nil {
		return Outcome{}, &DecisionError{Kind: InvalidInputShape, Detail: "тензор отсутствует"}
	}

	expected := [4]int{1, e.recipe.Height, e.recipe.Width, e.recipe.Channels}
	if sample.Tensor.Shape != expected {
		return Outcome{}, &DecisionError{
			Kind:   InvalidInputShape,
			Detail: fmt.Sprintf("форма тензора %v, ожидается %v", sample.Tensor.Shape, expected),
		}
	}
	if len(sample.Tensor.Data) != expected[1]*expected[2]*expected[3] {
		return Outcome{}, &DecisionError{
			Kind:   InvalidInputShape,
			Detail: fmt.Sprintf("длина данных %d не соответствует форме %v", len(sample.Tensor.Data), expected),
		}
	}

	resp, err := e.callInferenceService(ctx, inferRequest{
		Recipe: e.recipe.Name,
		Shape:  sample.Tensor.Shape,
		Data:   sample.Tensor.Data,
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Label:      resp.Label,
		Confidence: resp.Confidence,
		Score:      resp.Confidence,
		IsActive:   resp.Label != "empty",
	}, nil
}

// callInferenceService отправляет тензор во внешний inference-сервис
func (e *ModelEngine) callInferenceService(ctx context.Context, request inferRequest) (*inferResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, &DecisionError{Kind: ModelUnavailable, Detail: "ошибка сериализации запроса", Err: err}
	}

	url := fmt.Sprintf("%s/infer", e.mlURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, &DecisionError{Kind: ModelUnavailable, Detail: "ошибка создания запроса", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, &DecisionError{Kind: ModelUnavailable, Detail: "inference-сервис недоступен", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &DecisionError{
			Kind:   ModelUnavailable,
			Detail: fmt.Sprintf("inference-сервис вернул %d: %s", resp.StatusCode, string(body)),
		}
	}

	var mlResponse inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&mlResponse); err != nil {
		return nil, &DecisionError{Kind: ModelUnavailable, Detail: "ошибка десериализации ответа", Err: err}
	}

	return &mlResponse, nil
}
