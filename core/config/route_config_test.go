package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteConfigEmpty(t *testing.T) {
	config := RouteConfig{}
	assert.Empty(t, config.Component)
	assert.Nil(t, config.RouteAddrs)
	assert.Zero(t, config.HeartbeatPort)
	assert.Zero(t, config.Shards)
}

func TestRouteConfigWithValues(t *testing.T) {
	config := RouteConfig{
		Component:     "echo",
		RouteAddrs:    []string{"tcp://127.0.0.1:9797", "tcp://127.0.0.1:9798"},
		HeartbeatPort: 9798,
		Shards:        4,
	}

	assert.Equal(t, "echo", config.Component)
	assert.Len(t, config.RouteAddrs, 2)
	assert.Equal(t, 9798, config.HeartbeatPort)
	assert.Equal(t, 4, config.Shards)
}
