package mesh

import (
	"fmt"

	"github.com/geoffjay/routefabric/mesh/wire"

	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// RouteConn is the connection a stateful router (the process implementing
// Dispatcher) holds open to the broker. It carries two sockets: a DEALER
// used to receive routed requests and send replies, identified as ident,
// and a second DEALER with router-probing enabled, identified as
// "hb#{ident}", used for the registration handshake and ongoing heartbeat
// traffic.
type RouteConn struct {
	ident     string
	endpoints []string
	socket    *czmq.Sock
	heartbeat *czmq.Sock
	poller    *czmq.Poller
	shard     int
}

// NewRouteConn prepares a router with the given net identity to register
// against endpoints. Neither socket is connected yet: the request socket
// is only connected to endpoints, in order, once Register completes the
// handshake against all of them.
func NewRouteConn(ident string, endpoints []string, shard int) (*RouteConn, error) {
	socket, err := czmq.NewDealer("")
	if err != nil {
		return nil, NewTransportError("failed to create route socket", err)
	}
	socket.SetOption(czmq.SockSetIdentity(ident))

	heartbeat, err := czmq.NewDealer("")
	if err != nil {
		socket.Destroy()
		return nil, NewTransportError("failed to create heartbeat socket", err)
	}
	heartbeat.SetOption(czmq.SockSetIdentity("hb#" + ident))
	heartbeat.SetOption(czmq.SockSetProbeRouter(1))

	poller, err := czmq.NewPoller(socket)
	if err != nil {
		socket.Destroy()
		heartbeat.Destroy()
		return nil, NewTransportError("failed to create route poller", err)
	}

	rc := &RouteConn{
		ident:     ident,
		endpoints: endpoints,
		socket:    socket,
		heartbeat: heartbeat,
		poller:    poller,
		shard:     shard,
	}

	log.WithFields(log.Fields{
		"ident":     ident,
		"endpoints": endpoints,
		"shard":     shard,
	}).Info("route connection prepared")

	return rc, nil
}

// Close tears down both sockets.
func (rc *RouteConn) Close() {
	if rc.poller != nil {
		rc.poller.Destroy()
		rc.poller = nil
	}
	if rc.socket != nil {
		rc.socket.Destroy()
		rc.socket = nil
	}
	if rc.heartbeat != nil {
		rc.heartbeat.Destroy()
		rc.heartbeat = nil
	}
}

// Register performs the registration handshake against every configured
// endpoint: connect the heartbeat socket to each one, then for each
// endpoint in turn receive the router's probe frame and initial marker,
// send the "R" tag followed by a serialized Registration claiming shards,
// and receive the router's acknowledgement. Only once every endpoint has
// acknowledged does Register connect the request socket to each endpoint,
// in configuration order.
func (rc *RouteConn) Register(protocol string, shards []int) error {
	for _, addr := range rc.endpoints {
		if err := rc.heartbeat.Connect(addr); err != nil {
			return NewTransportError(fmt.Sprintf("failed to connect heartbeat to %s", addr), err)
		}
	}

	reg := &wire.Registration{Protocol: protocol, Endpoint: rc.ident, Shards: shards}
	regBytes, err := wire.EncodeRegistration(reg)
	if err != nil {
		return NewParseError(err)
	}

	for ready := 0; ready < len(rc.endpoints); ready++ {
		if _, err := rc.heartbeat.RecvMessage(); err != nil {
			return NewTransportError("failed to receive registration probe", err)
		}
		if _, err := rc.heartbeat.RecvMessage(); err != nil {
			return NewTransportError("failed to receive registration marker", err)
		}
		if err := rc.heartbeat.SendMessage([][]byte{[]byte(registerTag), regBytes}); err != nil {
			return NewTransportError("failed to send registration", err)
		}
		if _, err := rc.heartbeat.RecvMessage(); err != nil {
			return NewTransportError("failed to receive registration acknowledgement", err)
		}
	}

	for _, addr := range rc.endpoints {
		if err := rc.socket.Connect(addr); err != nil {
			return NewTransportError(fmt.Sprintf("failed to connect request socket to %s", addr), err)
		}
	}

	log.WithFields(log.Fields{
		"ident":     rc.ident,
		"endpoints": rc.endpoints,
		"shard":     rc.shard,
	}).Info("route connection registered")

	return nil
}

// Recv waits up to RecvTimeoutMs for the next routed request and returns
// its frames, or nil with no error on a plain timeout.
func (rc *RouteConn) Recv() ([][]byte, error) {
	socket, err := rc.poller.Wait(RecvTimeoutMs)
	if err != nil {
		return nil, NewTransportError("poll failed waiting for route message", err)
	}
	if socket == nil {
		return nil, nil
	}

	msg, err := socket.RecvMessage()
	if err != nil {
		return nil, NewTransportError("failed to receive route message", err)
	}
	return msg, nil
}

// SendFrames transmits a fully-assembled frame stack over the request
// socket. It is the low-level primitive Envelope uses to emit a reply or
// forwarded request once it has built the hop-prefixed frame list.
func (rc *RouteConn) SendFrames(frames [][]byte) error {
	if err := rc.socket.SendMessage(frames); err != nil {
		return NewTransportError("failed to send routed frames", err)
	}
	return nil
}
