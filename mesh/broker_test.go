package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBrokerRegistersInitialEndpoints(t *testing.T) {
	b := NewBroker("tcp://127.0.0.1:9797", "tcp://127.0.0.1:9798")

	assert.Len(t, b.registry, 2)
	assert.Contains(t, b.registry, "tcp://127.0.0.1:9797")
	assert.Contains(t, b.registry, "tcp://127.0.0.1:9798")
}

func TestBrokerSweepRegistryRemovesExpired(t *testing.T) {
	b := NewBroker("tcp://127.0.0.1:9797")

	reg := b.registry["tcp://127.0.0.1:9797"]
	reg.expires = reg.expires.Add(-2 * ServerTTL)

	b.sweepRegistry()

	assert.NotContains(t, b.registry, "tcp://127.0.0.1:9797")
}

func TestBrokerConnCloseIsIdempotent(t *testing.T) {
	bc := &BrokerConn{}
	assert.NotPanics(t, func() {
		bc.Close()
		bc.Close()
	})
}
