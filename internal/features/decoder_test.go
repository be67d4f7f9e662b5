package features

import (
	"errors"
	"fmt"
	"testing"

	"github.com/seokhyeon0916/AttenSense/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeWindow(packets, subcarriers int) models.PacketMap {
	window := make(models.PacketMap, packets)
	for p := 0; p < packets; p++ {
		row := ""
		for s := 0; s < subcarriers; s++ {
			if s > 0 {
				row += ","
			}
			row += fmt.Sprintf("%d.5", s)
		}
		window[fmt.Sprintf("packet_%d", p)] = row
	}
	return window
}

func TestDecodeCompleteWindow(t *testing.T) {
	decoder := NewDecoder(20)

	matrix, err := decoder.Decode(completeWindow(20, 52))
	require.NoError(t, err)

	require.Len(t, matrix, 20)
	for _, row := range matrix {
		assert.Len(t, row, 52)
	}
	assert.Equal(t, 0.5, matrix[0][0])
	assert.Equal(t, 51.5, matrix[19][51])
}

func TestDecodeMissingPacket(t *testing.T) {
	decoder := NewDecoder(20)

	window := completeWindow(20, 52)
	delete(window, "packet_5")

	_, err := decoder.Decode(window)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, MissingPacket, decodeErr.Kind)
	assert.Equal(t, 5, decodeErr.Slot)
}

func TestDecodeEmptyPacket(t *testing.T) {
	decoder := NewDecoder(3)

	window := completeWindow(3, 4)
	window["packet_1"] = " , ,"

	_, err := decoder.Decode(window)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, EmptyPacket, decodeErr.Kind)
	assert.Equal(t, 1, decodeErr.Slot)
}

func TestDecodeMalformedNumeric(t *testing.T) {
	decoder := NewDecoder(2)

	window := completeWindow(2, 3)
	window["packet_0"] = "1.0,abc,2.0"

	_, err := decoder.Decode(window)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, MalformedNumeric, decodeErr.Kind)
	assert.Equal(t, 0, decodeErr.Slot)
}

func TestDecodeSkipsEmptyTokens(t *testing.T) {
	decoder := NewDecoder(1)

	matrix, err := decoder.Decode(models.PacketMap{
		"packet_0": "1.0,,2.0, ,3.0,",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, matrix[0])
}

func TestDecodeToleratesRaggedRows(t *testing.T) {
	decoder := NewDecoder(2)

	matrix, err := decoder.Decode(models.PacketMap{
		"packet_0": "1,2,3,4",
		"packet_1": "5,6",
	})
	require.NoError(t, err)
	assert.Len(t, matrix[0], 4)
	assert.Len(t, matrix[1], 2)
}
