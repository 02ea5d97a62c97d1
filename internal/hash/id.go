// Package hash provides the 64-bit identifiers glyphpack derives from
// strings, used for schema fingerprints.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 of a string.
func ID(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Sum returns the xxHash64 of a byte slice.
func Sum(b []byte) uint64 {
	return xxhash.Sum64(b)
}
