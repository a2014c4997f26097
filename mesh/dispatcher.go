package mesh

import (
	"github.com/geoffjay/routefabric/mesh/wire"

	log "github.com/sirupsen/logrus"
)

// Dispatcher is implemented by the business logic behind a single router
// shard. A Supervisor owns a fixed-size pool of Dispatchers, each reading
// its own RouteConn in a dedicated goroutine.
type Dispatcher interface {
	// Init prepares the dispatcher to begin serving, e.g. opening any
	// per-shard state. It is called once before Start.
	Init() error

	// Dispatch handles a single decoded request header and returns the
	// header to send back as the reply.
	Dispatch(req *wire.Header) (*wire.Header, error)

	// Start runs the dispatcher's main loop against conn, reading
	// requests and routing replies, until conn is closed or a fatal error
	// occurs. ready is closed once the dispatcher has registered and is
	// ready to receive work, so a Supervisor can rendezvous on it before
	// counting the worker as up.
	Start(conn *RouteConn, ready chan<- struct{}) error
}

// BaseDispatcher implements the read/dispatch/reply loop shared by every
// Dispatcher; concrete implementations supply the request handler as
// Handler. Start always calls BaseDispatcher's own Dispatch, which invokes
// Handler, so a Dispatch method defined on an embedding type is not used by
// Start.
type BaseDispatcher struct {
	Handler func(req *wire.Header) (*wire.Header, error)
}

// Init is a no-op by default; embedders override it when they have setup
// to perform.
func (d *BaseDispatcher) Init() error { return nil }

// Dispatch delegates to Handler.
func (d *BaseDispatcher) Dispatch(req *wire.Header) (*wire.Header, error) {
	return d.Handler(req)
}

// Start reads requests off conn, invokes Dispatch, and routes the reply
// back along the hop stack it arrived with, until conn.Recv returns a
// transport error.
//
// Each message is parsed by hand: hop addresses accumulate onto an
// Envelope until the empty delimiter frame is seen, the following tag
// frame is skipped, and the frame after that is the body. A hop stack
// that overflows MaxHops ends Start entirely rather than continuing the
// loop, so a supervising pool respawns into a clean slot instead of
// reusing a worker that may be wedged on a looping route.
func (d *BaseDispatcher) Start(conn *RouteConn, ready chan<- struct{}) error {
	close(ready)

	for {
		frames, err := conn.Recv()
		if err != nil {
			return err
		}
		if frames == nil {
			continue // plain poll timeout, keep waiting
		}

		env := NewEnvelope()

		i := 0
		for ; i < len(frames) && len(frames[i]) > 0; i++ {
			if err := env.AddHop(frames[i]); err != nil {
				log.WithError(err).Warn("envelope exceeded max hops, worker exiting")
				return nil
			}
		}
		if i >= len(frames) {
			continue // no delimiter found, malformed frame, drop it
		}
		i++ // skip the empty delimiter

		if i >= len(frames) {
			continue // missing tag frame
		}
		i++ // skip the tag frame (RQ/RP), not needed by the dispatcher

		if i >= len(frames) {
			continue // missing body frame
		}

		req, err := wire.Decode(frames[i])
		if err != nil {
			continue // malformed body is dropped, not fatal
		}
		env.SetMsg(req)

		reply, err := d.Dispatch(req)
		if err != nil {
			continue
		}

		body, err := wire.Encode(reply)
		if err != nil {
			continue
		}

		if err := env.ReplyComplete(conn, body); err != nil {
			return err
		}
	}
}
