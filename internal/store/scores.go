package store

import (
	"encoding/binary"
	"errors"
	"math"
)

var errBadBlob = errors.New("score blob length is not a multiple of 8")

// encodeScores packs a row as little-endian float64 values.
func encodeScores(row []float64) []byte {
	buf := make([]byte, 8*len(row))
	for i, score := range row {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(score))
	}
	return buf
}

func decodeScores(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, errBadBlob
	}
	row := make([]float64, len(blob)/8)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return row, nil
}
