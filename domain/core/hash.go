package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
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

// Short returns the first 12 hex characters, enough to tell runs apart in logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeSampleHash fingerprints a numeric input together with its parameters.
// Values are hashed in order since outlier indices refer to positions.
func ComputeSampleHash(values []float64, params map[string]string) Hash {
	buf := make([]byte, 0, len(values)*8+64)
	var word [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
		buf = append(buf, word[:]...)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteByte('=')
		data.WriteString(params[key])
		data.WriteByte(';')
	}

	return NewHash(append(buf, data.String()...))
}

// DeriveSeed mixes a named stream into a base seed so concurrent consumers
// of the same run get independent but reproducible streams.
func DeriveSeed(base int64, name string) int64 {
	var word [8]byte
	binary.LittleEndian.PutUint64(word[:], uint64(base))
	sum := sha256.Sum256(append(word[:], name...))
	return int64(binary.LittleEndian.Uint64(sum[:8]) &^ (1 << 63))
}
