package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentHash returns a short hex digest of data, stable across processes.
// Used for asset ETags and for stamping build files.
func ContentHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// ETag returns a strong entity tag for data.
func ETag(data []byte) string {
	return `"` + ContentHash(data) + `"`
}
