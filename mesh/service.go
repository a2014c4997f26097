package mesh

import (
	"github.com/geoffjay/routefabric/core/util"
)

// NetIdent returns the network identity a service presents when
// registering with the broker, delegating to core/util so every process in
// the fabric (routers and plain clients alike) derives it the same way.
func NetIdent(component string) string {
	return util.NetIdent(component)
}

// Service is implemented by anything that can complete the registration
// handshake with the broker: announce itself on the heartbeat channel and
// wait for every router to acknowledge before it is considered live.
type Service interface {
	// Connect performs the registration handshake against every given
	// router endpoint, retaining the resulting RouteConn for subsequent
	// routed traffic once all of them have acknowledged.
	Connect(endpoints []string) error

	// Conn returns the RouteConn established by Connect, or nil if Connect
	// has not been called yet.
	Conn() *RouteConn

	// Close releases the connection established by Connect, if any.
	Close()
}

// service is the default Service implementation, backing a RouteConn with
// the handshake logic: register against every endpoint, then retain the
// connection for the caller once the full handshake completes.
type service struct {
	ident    string
	protocol string
	shard    int
	conn     *RouteConn
}

// NewService returns a Service that will identify itself as ident when
// registering protocol, reporting shard as its assigned shard index.
func NewService(ident, protocol string, shard int) Service {
	return &service{ident: ident, protocol: protocol, shard: shard}
}

func (s *service) Connect(endpoints []string) error {
	rc, err := NewRouteConn(s.ident, endpoints, s.shard)
	if err != nil {
		return err
	}

	if err := rc.Register(s.protocol, []int{s.shard}); err != nil {
		rc.Close()
		return err
	}

	s.conn = rc
	return nil
}

func (s *service) Conn() *RouteConn {
	return s.conn
}

func (s *service) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
