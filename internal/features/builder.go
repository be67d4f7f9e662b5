package features

import (
	"fmt"

	"github.com/seokhyeon0916/AttenSense/pkg/utils"
)

// BuildErrorKind виды ошибок построения тензора
type BuildErrorKind string

const (
	ShapeMismatch BuildErrorKind = "shape_mismatch"
)

// BuildError структурированная ошибка построения признаков
type BuildError struct {
	Kind   BuildErrorKind
	Detail string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("ошибка построения тензора (%s): %s", e.Kind, e.Detail)
}

// Recipe именованный и версионированный рецепт препроцессинга.
// Decision Engine и Feature Builder должны использовать один и тот же рецепт,
// иначе модель получит тензор не из того распределения, на котором училась.
type Recipe struct {
	Name         string  `json:"name"`
	Height       int     `json:"height"`
	Width        int     `json:"width"`
	Channels     int     `json:"channels"`
	NormalizeMax float64 `json:"normalize_max"` // 0 = без нормализации (сырые амплитуды)
}

// DefaultRecipe канонический рецепт: билинейный ресайз сырых амплитуд до
// 224×224, репликация в 3 канала, без нормализации
func DefaultRecipe() Recipe {
	return Recipe{
		Name:         "raw-amplitude-v1",
		Height:       224,
		Width:        224,
		Channels:     3,
		NormalizeMax: 0,
	}
}

// Tensor вход модели фиксированной формы [1, H, W, C]
type Tensor struct {
	Shape [4]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

// At возвращает значение тензора по координатам (строка, столбец, канал)
func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Shape[2]+x)*t.Shape[3]+c]
}

// Sample результат построения признаков для одного окна: тензор для модельного
// движка и развернутая последовательность амплитуд для порогового
type Sample struct {
	Tensor *Tensor
	Series []float64
}

// Builder детерминированно превращает матрицу амплитуд в Sample
type Builder struct {
	recipe Recipe
}

// NewBuilder создает построитель признаков с заданным рецептом
func NewBuilder(recipe Recipe) *Builder {
	return &Builder{recipe: recipe}
}

// Recipe возвращает рецепт построителя
func (b *Builder) Recipe() Recipe {
	return b.recipe
}

// Build строит Sample из матрицы P×S. Ресайз сепарабельный: сначала каждая
// строка линейно интерполируется до ширины W (неравные строки допустимы,
// каждая растягивается по своей длине), затем столбцы до высоты H. Значение
// реплицируется в Channels одинаковых каналов, форма результата [1, H, W, C].
func (b *Builder) Build(matrix [][]float64) (*Sample, error) {
	if len(matrix) == 0 {
		return nil, &BuildError{Kind: ShapeMismatch, Detail: "пустая матрица амплитуд"}
	}
	for i, row := range matrix {
		if len(row) == 0 {
			return nil, &BuildError{Kind: ShapeMismatch, Detail: fmt.Sprintf("строка %d пуста", i)}
		}
	}

	h, w, c := b.recipe.Height, b.recipe.Width, b.recipe.Channels

	// Шаг 1: строки → ширина W
	widened := make([][]float64, len(matrix))
	for i, row := range matrix {
		widened[i] = resizeLinear(row, w)
	}

	// Шаг 2: столбцы → высота H
	column := make([]float64, len(widened))
	resized := make([][]float64, h)
	for i := range resized {
		resized[i] = make([]float64, w)
	}
	for x := 0; x < w; x++ {
		for y := range widened {
			column[y] = widened[y][x]
		}
		stretched := resizeLinear(column, h)
		for y := 0; y < h; y++ {
			resized[y][x] = stretched[y]
		}
	}

	// Шаг 3: нормализация и репликация каналов
	data := make([]float32, h*w*c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := resized[y][x]
			if b.recipe.NormalizeMax > 0 {
				v /= b.recipe.NormalizeMax
			}
			base := (y*w + x) * c
			for ch := 0; ch < c; ch++ {
				data[base+ch] = float32(v)
			}
		}
	}

	tensor := &Tensor{
		Shape: [4]int{1, h, w, c},
		Data:  data,
	}

	return &Sample{
		Tensor: tensor,
		Series: utils.Flatten(matrix),
	}, nil
}

// resizeLinear линейная интерполяция одномерного ряда до длины target
func resizeLinear(src []float64, target int) []float64 {
	dst := make([]float64, target)

	if len(src) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return dst
	}
	if target == 1 {
		dst[0] = src[0]
		return dst
	}

	scale := float64(len(src)-1) / float64(target-1)
	for i := 0; i < target; i++ {
		pos := float64(i) * scale
		lo := int(pos)
		if lo >= len(src)-1 {
			dst[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(lo)
		dst[i] = src[lo]*(1-frac) + src[lo+1]*frac
	}
	return dst
}
