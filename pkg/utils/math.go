package utils

import (
	"math"
)

// SafeFloat заменяет NaN и Inf на 0.0 для безопасной сериализации
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Mean вычисляет среднее значение
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Std вычисляет выборочное стандартное отклонение (делитель N-1)
func Std(data []float64) float64 {
	if len(data) <= 1 {
		return math.NaN()
	}

	mean := Mean(data)
	sumSquares := 0.0

	for _, v := range data {
		diff := v - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(data)-1))
}

// StdPop вычисляет стандартное отклонение по генеральной совокупности (делитель N)
func StdPop(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	mean := Mean(data)
	sumSquares := 0.0

	for _, v := range data {
		diff := v - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// Min находит минимальное значение
func Min(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max находит максимальное значение
func Max(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	max := data[0]
	for _, v := range data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Flatten разворачивает матрицу в одномерный массив построчно
func Flatten(matrix [][]float64) []float64 {
	total := 0
	for _, row := range matrix {
		total += len(row)
	}

	result := make([]float64, 0, total)
	for _, row := range matrix {
		result = append(result, row...)
	}
	return result
}
