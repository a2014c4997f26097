package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		MessageID: "abc-123",
		Body:      []byte("payload"),
		Route: RouteInfo{
			Protocol:  "echo",
			RouteHash: HashRouteKey("shard-a"),
		},
	}

	data, err := Encode(h)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, h.MessageID, decoded.MessageID)
	assert.Equal(t, h.Body, decoded.Body)
	assert.Equal(t, h.Route.Protocol, decoded.Route.Protocol)
	assert.Equal(t, h.Route.RouteHash, decoded.Route.RouteHash)
}

func TestHashRouteKeyStable(t *testing.T) {
	first := HashRouteKey("org.plantd.Echo")
	second := HashRouteKey("org.plantd.Echo")
	assert.Equal(t, first, second)
}

func TestHashRouteKeyDiffers(t *testing.T) {
	assert.NotEqual(t, HashRouteKey("a"), HashRouteKey("b"))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}
