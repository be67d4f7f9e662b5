package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seokhyeon0916/AttenSense/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtSample(t *testing.T) *features.Sample {
	t.Helper()

	builder := features.NewBuilder(features.DefaultRecipe())
	sample, err := builder.Build([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	return sample
}

func TestModelEngineForwardPass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/infer", r.URL.Path)

		var req struct {
			Recipe string    `json:"recipe"`
			Shape  [4]int    `json:"shape"`
			Data   []float32 `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "raw-amplitude-v1", req.Recipe)
		assert.Equal(t, [4]int{1, 224, 224, 3}, req.Shape)
		assert.Len(t, req.Data, 224*224*3)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"label":      "sitdown",
			"confidence": 0.93,
		})
	}))
	defer server.Close()

	engine := NewModelEngine(server.URL, features.DefaultRecipe())

	outcome, err := engine.Decide(context.Background(), builtSample(t))
	require.NoError(t, err)
	assert.Equal(t, "sitdown", outcome.Label)
	assert.InDelta(t, 0.93, outcome.Confidence, 1e-9)
	assert.True(t, outcome.IsActive)
}

func TestModelEngineRejectsWrongShape(t *testing.T) {
	engine := NewModelEngine("http://localhost:0", features.DefaultRecipe())

	// Неверная форма — ошибка конфигурации, сетевой вызов не выполняется
	sample := &features.Sample{
		Tensor: &features.Tensor{Shape: [4]int{1, 32, 32, 3}, Data: make([]float32, 32*32*3)},
	}

	_, err := engine.Decide(context.Background(), sample)
	require.Error(t, err)

	var decisionErr *DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, InvalidInputShape, decisionErr.Kind)
}

func TestModelEngineMissingTensor(t *testing.T) {
	engine := NewModelEngine("http://localhost:0", features.DefaultRecipe())

	_, err := engine.Decide(context.Background(), &features.Sample{Series: []float64{1, 2}})
	require.Error(t, err)

	var decisionErr *DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, InvalidInputShape, decisionErr.Kind)
}

func TestModelEngineUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := NewModelEngine(server.URL, features.DefaultRecipe())

	_, err := engine.Decide(context.Background(), builtSample(t))
	require.Error(t, err)

	var decisionErr *DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, ModelUnavailable, decisionErr.Kind)
}
