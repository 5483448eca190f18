package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(nil))
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", Digest([]byte("hello world")))
	assert.NotEqual(t, Digest([]byte(`{"a": 1}`)), Digest([]byte(`{"a":1}`)))
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	schema := []byte(`{"type": "object"}`)

	assert.False(t, tr.Unchanged("player.json", schema), "unknown path")

	tr.Record("player.json", schema)
	assert.True(t, tr.Unchanged("player.json", schema))
	assert.False(t, tr.Unchanged("player.json", []byte(`{"type": "string"}`)))
	assert.False(t, tr.Unchanged("other.json", schema))

	tr.Forget("player.json")
	assert.False(t, tr.Unchanged("player.json", schema))
}
