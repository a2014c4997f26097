package mesh

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/geoffjay/routefabric/core/util"
	"github.com/geoffjay/routefabric/mesh/wire"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// heartbeatIdentPrefix marks a ROUTER-side peer identity as a RouteConn's
// heartbeat socket rather than a BrokerConn or request-plane connection, so
// the proxy loop can route its frames to the registration handshake
// instead of forwarding them on to the router pool.
const heartbeatIdentPrefix = "hb#"

// Broker is the in-process pump connecting BrokerConn handles (one per
// calling goroutine) to the pool of registered routers. It owns a ROUTER
// socket bound to RouteInprocAddr that BrokerConn instances connect to, and
// a DEALER socket connected out to every registered router endpoint; the
// two are pumped bidirectionally by Run.
type Broker struct {
	endpoint  string
	client    *czmq.Sock // ROUTER, bound to RouteInprocAddr
	routers   *czmq.Sock // DEALER, connected to every registered router endpoint
	mu        sync.Mutex
	registry  map[string]*ServerReg
	connected map[string]bool
}

// NewBroker constructs a broker that will proxy to the given initial set of
// router endpoints. Additional endpoints can be registered later with
// RegisterRouter.
func NewBroker(endpoints ...string) *Broker {
	b := &Broker{
		registry:  make(map[string]*ServerReg),
		connected: make(map[string]bool),
	}
	for _, ep := range endpoints {
		b.registry[ep] = NewServerReg(ep)
	}
	return b
}

// Connect binds the internal ROUTER socket and connects the DEALER socket
// to every registered router endpoint. Fatal startup failures panic,
// matching the all-or-nothing startup contract the rest of the fabric
// relies on: a broker that comes up half-bound is worse than one that
// never started.
func (b *Broker) Connect() {
	client, err := czmq.NewRouter(RouteInprocAddr)
	if err != nil {
		panic(fmt.Sprintf("mesh: broker failed to bind %s: %v", RouteInprocAddr, err))
	}
	client.SetOption(czmq.SockSetRcvhwm(500000))
	b.client = client

	routers, err := czmq.NewDealer("")
	if err != nil {
		panic(fmt.Sprintf("mesh: broker failed to create router socket: %v", err))
	}
	routers.SetOption(czmq.SockSetRcvtimeo(RecvTimeoutMs))
	routers.SetOption(czmq.SockSetSndtimeo(SendTimeoutMs))
	routers.SetOption(czmq.SockSetImmediate(1))

	b.mu.Lock()
	for ep := range b.registry {
		if err := routers.Connect(ep); err != nil {
			log.WithFields(log.Fields{"endpoint": ep, "err": err}).Error("broker failed to connect router endpoint")
			continue
		}
		b.connected[ep] = true
	}
	b.mu.Unlock()

	b.routers = routers
}

// RegisterRouter adds endpoint to the registry and, if the broker is
// already connected, dials it immediately.
func (b *Broker) RegisterRouter(endpoint string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.registry[endpoint] = NewServerReg(endpoint)

	if b.routers != nil && !b.connected[endpoint] {
		if err := b.routers.Connect(endpoint); err != nil {
			return NewTransportError(fmt.Sprintf("failed to connect router %s", endpoint), err)
		}
		b.connected[endpoint] = true
	}

	return nil
}

// Run proxies frames between the client-facing ROUTER socket and the
// router-facing DEALER socket until stop is closed, signaling readiness on
// ready once both sockets are polling. It also walks the registry on every
// PingInterval tick, dropping any router past its ServerTTL.
func (b *Broker) Run(ready chan<- struct{}, stop <-chan struct{}) {
	poller, err := czmq.NewPoller(b.client, b.routers)
	if err != nil {
		panic(fmt.Sprintf("mesh: broker failed to create proxy poller: %v", err))
	}
	defer poller.Destroy()

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	close(ready)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.sweepRegistry()
		default:
		}

		socket, err := poller.Wait(int(PingInterval / time.Millisecond))
		if err != nil {
			log.WithError(err).Error("broker proxy poll failed")
			return
		}
		if socket == nil {
			continue
		}

		msg, err := socket.RecvMessage()
		if err != nil {
			log.WithError(err).Error("broker proxy recv failed")
			continue
		}

		switch socket {
		case b.client:
			if len(msg) > 0 && strings.HasPrefix(string(msg[0]), heartbeatIdentPrefix) {
				b.handleRegistration(msg)
				continue
			}
			if err := b.routers.SendMessage(msg); err != nil {
				log.WithError(err).Error("broker failed to forward client message to routers")
			}
		case b.routers:
			b.touchRegistry(time.Now())
			if err := b.client.SendMessage(msg); err != nil {
				log.WithError(err).Error("broker failed to forward router reply to client")
			}
		}
	}
}

// handleRegistration answers the registration handshake a RouteConn's
// heartbeat socket drives against this broker's client ROUTER: the
// identity's first contact (the empty frame an upstream probe-router
// option sends automatically) gets a welcome round-trip back, a tagged
// Registration gets recorded in the registry and acknowledged, and
// anything else on an already-registered identity just refreshes it.
func (b *Broker) handleRegistration(msg [][]byte) {
	identity := msg[0]
	rest := msg[1:]

	switch {
	case len(rest) == 1 && len(rest[0]) == 0:
		if err := b.client.SendMessage([][]byte{identity, []byte("rt")}); err != nil {
			log.WithError(err).Warn("broker failed to send registration welcome")
			return
		}
		if err := b.client.SendMessage([][]byte{identity, []byte("hb")}); err != nil {
			log.WithError(err).Warn("broker failed to send registration marker")
		}
	case len(rest) == 2 && string(rest[0]) == registerTag:
		reg, err := wire.DecodeRegistration(rest[1])
		if err != nil {
			log.WithError(err).Warn("broker received malformed registration")
			return
		}

		b.mu.Lock()
		entry, ok := b.registry[reg.Endpoint]
		if !ok {
			entry = NewServerReg(reg.Endpoint)
			b.registry[reg.Endpoint] = entry
		}
		entry.Touch(time.Now())
		b.mu.Unlock()

		log.WithFields(log.Fields{
			"endpoint": reg.Endpoint,
			"protocol": reg.Protocol,
			"shards":   reg.Shards,
		}).Info("router registered")

		if err := b.client.SendMessage([][]byte{identity, []byte("ack")}); err != nil {
			log.WithError(err).Warn("broker failed to send registration acknowledgement")
		}
	default:
		endpoint := strings.TrimPrefix(string(identity), heartbeatIdentPrefix)
		b.mu.Lock()
		if entry, ok := b.registry[endpoint]; ok {
			entry.Touch(time.Now())
		}
		b.mu.Unlock()
	}
}

// touchRegistry marks every currently-tracked, unexpired router alive on
// any successful receive from the backend DEALER. The DEALER round-robins
// across every registered router with no per-peer identity framing, so
// this can't attribute the frame to the single router that actually sent
// it; touching every live entry is a documented approximation standing in
// for the per-peer liveness tracking a ROUTER-backed backend would give.
func (b *Broker) touchRegistry(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, reg := range b.registry {
		if !reg.Expired(now) {
			reg.Touch(now)
		}
	}
}

// sweepRegistry drops entries that have expired without answering, advances
// the ping time of every entry due for one and, if any was due, sends a
// single liveness ping over the router DEALER (which delivers it to
// whichever router is next in its round-robin), and warns if the registry
// is left with nothing alive.
func (b *Broker) sweepRegistry() {
	now := time.Now()

	b.mu.Lock()
	due := false
	alive := 0
	for ep, reg := range b.registry {
		if reg.Expired(now) {
			reg.MarkDead()
			delete(b.registry, ep)
			delete(b.connected, ep)
			log.WithField("endpoint", ep).Warn("router expired, removed from registry")
			continue
		}
		if reg.DuePing(now) {
			reg.Ping(now)
			due = true
		}
		if reg.Alive() {
			alive++
		}
	}
	empty := len(b.registry) > 0 && alive == 0
	b.mu.Unlock()

	if due {
		if err := b.routers.SendMessage([][]byte{[]byte(pingTag)}); err != nil {
			log.WithError(err).Warn("broker failed to send router ping")
		}
	}
	if empty {
		log.Warn("no registered routers are currently alive")
	}
}

// Close tears down both sockets.
func (b *Broker) Close() {
	if b.client != nil {
		b.client.Destroy()
		b.client = nil
	}
	if b.routers != nil {
		b.routers.Destroy()
		b.routers = nil
	}
}

// BrokerConn is the handle application code uses to submit a single routed
// request and wait for its reply. It connects to the broker's internal
// endpoint with a REQ-emulating socket so many goroutines can each hold
// their own BrokerConn without sharing a socket.
type BrokerConn struct {
	socket *czmq.Sock
}

// NewBrokerConn connects a new request handle to the broker's internal
// rendezvous endpoint.
func NewBrokerConn() (*BrokerConn, error) {
	socket, err := czmq.NewReq(RouteInprocAddr)
	if err != nil {
		return nil, NewTransportError("failed to connect broker conn", err)
	}
	socket.SetOption(czmq.SockSetRcvtimeo(RecvTimeoutMs))
	socket.SetOption(czmq.SockSetSndtimeo(SendTimeoutMs))
	socket.SetOption(czmq.SockSetImmediate(1))

	return &BrokerConn{socket: socket}, nil
}

// Close releases the underlying socket.
func (bc *BrokerConn) Close() {
	if bc.socket != nil {
		bc.socket.Destroy()
		bc.socket = nil
	}
}

// Route computes the route hash for msg (falling back to round-robin, i.e.
// hash zero, when msg reports no route key), wraps it in a Header, and
// sends it to the broker tagged as a request.
func (bc *BrokerConn) Route(protocol string, msg wire.Routable, body []byte) error {
	var routeHash uint64
	if key, ok := msg.RouteKey(); ok {
		routeHash = wire.HashRouteKey(key)
	}

	header := &wire.Header{
		MessageID: uuid.NewString(),
		Body:      body,
		Route: wire.RouteInfo{
			Protocol:  protocol,
			RouteHash: routeHash,
		},
	}

	encoded, err := wire.Encode(header)
	if err != nil {
		return NewParseError(err)
	}

	if err := bc.socket.SendMessage([][]byte{[]byte(rqTag), encoded}); err != nil {
		return NewTransportError("failed to send routed request", err)
	}

	return nil
}

// Recv waits for the broker's reply and decodes it into a Header.
func (bc *BrokerConn) Recv() (*wire.Header, error) {
	frames, err := bc.socket.RecvMessage()
	if err != nil {
		return nil, NewTransportError("failed to receive routed reply", err)
	}

	_, rest := util.PopStr(frames)
	if len(rest) == 0 {
		return nil, NewParseError(fmt.Errorf("empty reply body"))
	}

	header, err := wire.Decode(rest[0])
	if err != nil {
		return nil, NewParseError(err)
	}

	return header, nil
}
