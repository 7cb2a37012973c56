package core

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough to tell submissions apart in logs.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// InputHash fingerprints a calibration submission.
type InputHash Hash

func (h InputHash) String() string { return Hash(h).String() }

// ComputeInputHash hashes named scalar fields and reading sequences in a fixed
// order. Floats are written in their shortest exact form so identical
// submissions always hash identically.
func ComputeInputHash(unit string, scalars []float64, series ...[]float64) InputHash {
	var data strings.Builder
	data.WriteString(unit)
	for _, v := range scalars {
		data.WriteByte('|')
		data.WriteString(formatExact(v))
	}
	for _, s := range series {
		data.WriteByte(';')
		data.WriteString(strconv.Itoa(len(s)))
		for _, v := range s {
			data.WriteByte(',')
			data.WriteString(formatExact(v))
		}
	}
	return InputHash(NewHash([]byte(data.String())))
}

func formatExact(v float64) string {
	if v == 0 {
		// fold -0 into 0
		v = math.Abs(v)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
