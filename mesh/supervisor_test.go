package mesh

import (
	"testing"
	"time"

	"github.com/geoffjay/routefabric/mesh/wire"

	"github.com/stretchr/testify/require"
)

// TestSupervisorStartAndStop exercises worker registration and supervisor
// startup against a live broker (no request is dispatched) and is skipped
// outside integration runs since it requires the goczmq cgo bindings and
// real sockets.
func TestSupervisorStartAndStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	broker := NewBroker()
	broker.Connect()
	defer broker.Close()

	ready := make(chan struct{})
	stop := make(chan struct{})
	go broker.Run(ready, stop)
	<-ready
	defer close(stop)

	endpoint := RouteInprocAddr
	require.NoError(t, broker.RegisterRouter(endpoint))

	sup := NewSupervisor(
		SupervisorConfig{Endpoints: []string{endpoint}, Component: "echo"},
		func(shard int) Dispatcher {
			return &BaseDispatcher{
				Handler: func(req *wire.Header) (*wire.Header, error) {
					return &wire.Header{MessageID: req.MessageID, Body: req.Body}, nil
				},
			}
		},
	)

	require.NoError(t, sup.Start(1))
	defer sup.Stop()

	time.Sleep(100 * time.Millisecond)
}
