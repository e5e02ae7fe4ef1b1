// Package ckbhash computes the canonical digest used across the CKB
// ecosystem: BLAKE2b with a 32-byte output, personalized with
// "ckb-default-hash".
package ckbhash

import (
	"hash"

	blake2b "github.com/minio/blake2b-simd"
)

const (
	// Size is the digest length in bytes.
	Size = 32
	// Blake160Size is the length of a truncated (blake160) digest.
	Blake160Size = 20
	// Personalization is the BLAKE2b personalization string.
	Personalization = "ckb-default-hash"
)

// New returns a streaming hasher.
func New() hash.Hash {
	h, err := blake2b.New(&blake2b.Config{
		Size:   Size,
		Person: []byte(Personalization),
	})
	if err != nil {
		// Size and Person are constants within the library's limits.
		panic(err)
	}
	return h
}

// Sum returns the digest of data.
func Sum(data []byte) [Size]byte {
	h := New()
	h.Write(data)

	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Blake160 returns the first 20 bytes of the digest of data.
func Blake160(data []byte) [Blake160Size]byte {
	sum := Sum(data)

	var out [Blake160Size]byte
	copy(out[:], sum[:Blake160Size])
	return out
}
