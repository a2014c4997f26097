// Package mesh implements the consistent-hash message routing fabric: an
// in-process broker connecting application services to a pool of stateful
// routers, with framed request/reply envelopes, hop-preserving return
// addresses, registration/heartbeat liveness tracking, and a supervised
// dispatcher worker pool.
package mesh

import "time"

const (
	// PingInterval is how often a registered router is sent a liveness
	// ping.
	PingInterval = 2000 * time.Millisecond

	// ServerTTL is how long a router stays in the registry without inbound
	// heartbeat traffic before it is dropped.
	ServerTTL = 6000 * time.Millisecond

	// MaxHops bounds the size of an envelope's hop stack. A message that
	// would exceed this is dropped rather than forwarded indefinitely.
	MaxHops = 8

	// RecvTimeoutMs is the default poll timeout, in milliseconds, for
	// sockets waiting on a reply.
	RecvTimeoutMs = 5000

	// SendTimeoutMs is the default send timeout, in milliseconds, applied to
	// blocking sends on a saturated socket.
	SendTimeoutMs = 5000

	// RouteInprocAddr is the well-known in-process endpoint the broker's
	// client-facing ROUTER socket binds and BrokerConn handles connect to.
	RouteInprocAddr = "inproc://route-broker"

	// rqTag marks a frame as a routed request; rpTag marks a frame as a
	// routed reply. Both are stripped before the hop stack below them is
	// interpreted.
	rqTag = "RQ"
	rpTag = "RP"

	// registerTag marks a frame as carrying a Registration payload over the
	// heartbeat socket during the registration handshake.
	registerTag = "R"

	// pingTag marks a frame as a liveness probe sent to a registered router.
	pingTag = "PING"
)
