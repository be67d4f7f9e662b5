package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantMatrix(rows, cols int, v float64) [][]float64 {
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, cols)
		for j := range matrix[i] {
			matrix[i][j] = v
		}
	}
	return matrix
}

func TestBuildShape(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	sample, err := builder.Build(constantMatrix(20, 52, 1.0))
	require.NoError(t, err)

	assert.Equal(t, [4]int{1, 224, 224, 3}, sample.Tensor.Shape)
	assert.Len(t, sample.Tensor.Data, 224*224*3)
	assert.Len(t, sample.Series, 20*52)
}

func TestBuildConstantMatrixStaysConstant(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	sample, err := builder.Build(constantMatrix(20, 52, 5.0))
	require.NoError(t, err)

	for _, v := range sample.Tensor.Data {
		assert.Equal(t, float32(5.0), v)
	}
}

func TestBuildChannelReplication(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	sample, err := builder.Build([][]float64{
		{0, 10, 20},
		{30, 40, 50},
	})
	require.NoError(t, err)

	tensor := sample.Tensor
	for y := 0; y < 224; y += 37 {
		for x := 0; x < 224; x += 37 {
			assert.Equal(t, tensor.At(y, x, 0), tensor.At(y, x, 1))
			assert.Equal(t, tensor.At(y, x, 0), tensor.At(y, x, 2))
		}
	}
}

func TestBuildPreservesCorners(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	sample, err := builder.Build([][]float64{
		{1, 2},
		{3, 4},
	})
	require.NoError(t, err)

	tensor := sample.Tensor
	assert.Equal(t, float32(1), tensor.At(0, 0, 0))
	assert.Equal(t, float32(2), tensor.At(0, 223, 0))
	assert.Equal(t, float32(3), tensor.At(223, 0, 0))
	assert.Equal(t, float32(4), tensor.At(223, 223, 0))
}

func TestBuildDeterministic(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	matrix := [][]float64{
		{1.1, 2.2, 3.3, 4.4},
		{5.5, 6.6, 7.7, 8.8},
		{9.9, 10.1, 11.2, 12.3},
	}

	first, err := builder.Build(matrix)
	require.NoError(t, err)
	second, err := builder.Build(matrix)
	require.NoError(t, err)

	assert.Equal(t, first.Tensor.Data, second.Tensor.Data)
	assert.Equal(t, first.Series, second.Series)
}

func TestBuildNormalization(t *testing.T) {
	recipe := DefaultRecipe()
	recipe.Name = "byte-intensity-v1"
	recipe.NormalizeMax = 255

	builder := NewBuilder(recipe)
	sample, err := builder.Build(constantMatrix(4, 4, 255))
	require.NoError(t, err)

	for _, v := range sample.Tensor.Data {
		assert.Equal(t, float32(1.0), v)
	}
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	builder := NewBuilder(DefaultRecipe())

	_, err := builder.Build(nil)
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, ShapeMismatch, buildErr.Kind)

	_, err = builder.Build([][]float64{{1, 2}, {}})
	require.Error(t, err)
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, ShapeMismatch, buildErr.Kind)
}
