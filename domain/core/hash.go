package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
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

// ComputeSeriesHash fingerprints a series bit-exactly together with a
// canonical configuration string. Two inputs with the same hash produce
// identical test results.
func ComputeSeriesHash(values []float64, config string) Hash {
	buf := make([]byte, 0, 8*len(values)+len(config)+8)
	var word [8]byte
	binary.LittleEndian.PutUint64(word[:], uint64(len(values)))
	buf = append(buf, word[:]...)
	for _, v := range values {
		binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
		buf = append(buf, word[:]...)
	}
	buf = append(buf, config...)
	return NewHash(buf)
}
