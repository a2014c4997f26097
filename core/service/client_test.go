package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRoutable struct {
	key string
}

func (f fakeRoutable) RouteKey() (string, bool) {
	if f.key == "" {
		return "", false
	}
	return f.key, true
}

// TestNewClientConnectsAndCloses connects a Client to the mesh's internal
// rendezvous endpoint and closes it; it sends no request. It needs the
// goczmq cgo bindings, so it is skipped outside integration runs.
func TestNewClientConnectsAndCloses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := NewClient()
	require.NoError(t, err)
	defer client.Close()
}
