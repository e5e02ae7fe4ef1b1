package ckbhash_test

import (
	"encoding/hex"
	"testing"

	"github.com/blockberries/cellcodec/ckbhash"

	"github.com/stretchr/testify/assert"
)

func TestSum_KnownVectors(t *testing.T) {
	empty := ckbhash.Sum(nil)
	assert.Equal(t, "44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e", hex.EncodeToString(empty[:]))

	abc := ckbhash.Sum([]byte("abc"))
	assert.Equal(t, "521c604cc09b814b0a9106305395def35d0211b9996a3e0f326ae4d671bd8fc2", hex.EncodeToString(abc[:]))
}

func TestNew_Streaming(t *testing.T) {
	h := ckbhash.New()
	h.Write([]byte("ab"))
	h.Write([]byte("c"))

	want := ckbhash.Sum([]byte("abc"))
	assert.Equal(t, want[:], h.Sum(nil))
	assert.Equal(t, ckbhash.Size, h.Size())
}

func TestBlake160(t *testing.T) {
	sum := ckbhash.Sum([]byte("abc"))
	b160 := ckbhash.Blake160([]byte("abc"))
	assert.Equal(t, sum[:ckbhash.Blake160Size], b160[:])
}
