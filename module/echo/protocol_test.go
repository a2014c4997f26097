package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRouteKeyWithKey(t *testing.T) {
	r := Request{Key: "shard-a", Message: "hi"}
	key, ok := r.RouteKey()
	assert.True(t, ok)
	assert.Equal(t, "shard-a", key)
}

func TestRequestRouteKeyWithoutKey(t *testing.T) {
	r := Request{Message: "hi"}
	_, ok := r.RouteKey()
	assert.False(t, ok)
}

func TestRequestRoundTrip(t *testing.T) {
	original := Request{Key: "shard-a", Message: "hello"}

	data, err := encodeRequest(original)
	require.NoError(t, err)

	decoded, err := decodeRequest(data)
	require.NoError(t, err)

	assert.Equal(t, original, decoded)
}
