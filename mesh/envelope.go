package mesh

import "github.com/geoffjay/routefabric/mesh/wire"

// Envelope tracks the hop stack a message accumulates as it passes through
// routers on its way to a dispatcher, so that a reply can retrace the exact
// path back to the originating client without the dispatcher knowing
// anything about routing.
type Envelope struct {
	hops    [][]byte
	msg     *wire.Header
	started bool
}

// NewEnvelope returns an empty envelope ready to accumulate hops.
func NewEnvelope() *Envelope {
	return &Envelope{hops: make([][]byte, 0, MaxHops)}
}

// AddHop pushes an address frame onto the hop stack. It returns
// ErrMaxHopsExceeded once the stack already holds MaxHops frames, so a
// misbehaving or looping route cannot grow an envelope without bound.
func (e *Envelope) AddHop(address []byte) error {
	if len(e.hops) >= MaxHops {
		return NewMaxHopsError()
	}
	e.hops = append(e.hops, address)
	return nil
}

// Hops returns the current hop stack, in the order the hops were received.
func (e *Envelope) Hops() [][]byte {
	return e.hops
}

// SetMsg records the decoded request header carried by this envelope.
func (e *Envelope) SetMsg(msg *wire.Header) {
	e.msg = msg
}

// Msg returns the decoded request header recorded by SetMsg.
func (e *Envelope) Msg() *wire.Header {
	return e.msg
}

// Reply sends a reply over conn as one complete message: the hop stack in
// the order it was received, an empty delimiter, the "RP" tag, then body.
// The hop prefix is only ever emitted once per envelope, guarded by
// started; a later call on the same envelope sends a separate message
// holding only its body.
func (e *Envelope) Reply(conn *RouteConn, body []byte) error {
	return e.send(conn, rpTag, body)
}

// ReplyComplete is identical to Reply; it exists as a distinct call site
// for the final reply. Neither call leaves a message open for further
// parts: no frame is sent with the more flag set.
func (e *Envelope) ReplyComplete(conn *RouteConn, body []byte) error {
	return e.send(conn, rpTag, body)
}

// SendHeader forwards a request onward over conn: the hop stack in the
// order it was received, an empty delimiter, the "RQ" tag, then body.
func (e *Envelope) SendHeader(conn *RouteConn, body []byte) error {
	return e.send(conn, rqTag, body)
}

func (e *Envelope) send(conn *RouteConn, tag string, body []byte) error {
	frames := e.frames(tag, body)
	return conn.SendFrames(frames)
}

// frames builds the frame stack for one reply part. The hop prefix (every
// hop plus the empty delimiter and tag) is only included the first time
// this is called for a given envelope; subsequent parts carry just the
// body.
func (e *Envelope) frames(tag string, body []byte) [][]byte {
	if e.started {
		return [][]byte{body}
	}

	out := make([][]byte, 0, len(e.hops)+3)
	out = append(out, e.hops...)
	out = append(out, []byte{}, []byte(tag), body)
	e.started = true
	return out
}

// Reset clears the envelope's hop stack and body so it can be reused for
// the next message read off the same socket.
func (e *Envelope) Reset() {
	e.hops = e.hops[:0]
	e.msg = nil
	e.started = false
}
