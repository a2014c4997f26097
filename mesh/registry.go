package mesh

import "time"

// ServerReg tracks one registered router's liveness from the broker's side.
// Alive and expires are refreshed only by inbound heartbeat traffic from
// that router; Ping advances only ping_at, since sending a ping says
// nothing yet about whether the router is still listening.
type ServerReg struct {
	Endpoint string
	alive    bool
	pingAt   time.Time
	expires  time.Time
}

// NewServerReg returns a registry entry for endpoint. It starts not alive:
// liveness is only established once a heartbeat frame is actually received
// from the router, via Touch.
func NewServerReg(endpoint string) *ServerReg {
	now := time.Now()
	return &ServerReg{
		Endpoint: endpoint,
		alive:    false,
		pingAt:   now.Add(PingInterval),
		expires:  now.Add(ServerTTL),
	}
}

// Alive reports whether this router is currently considered live.
func (r *ServerReg) Alive() bool {
	return r.alive
}

// Expired reports whether now has reached or passed this entry's expiry.
func (r *ServerReg) Expired(now time.Time) bool {
	return !now.Before(r.expires)
}

// DuePing reports whether now has reached or passed this entry's next
// scheduled ping.
func (r *ServerReg) DuePing(now time.Time) bool {
	return !now.Before(r.pingAt)
}

// Ping advances this entry's next ping time. It does not touch alive or
// expires: a ping is only an outbound probe, and says nothing about
// liveness until the router actually answers over the heartbeat socket.
func (r *ServerReg) Ping(now time.Time) {
	r.pingAt = now.Add(PingInterval)
}

// Touch marks this entry alive and extends its expiry, in response to an
// inbound heartbeat frame actually received from the router.
func (r *ServerReg) Touch(now time.Time) {
	r.alive = true
	r.expires = now.Add(ServerTTL)
}

// MarkDead marks this entry as no longer alive, without affecting its
// expiry so Expired still reflects the original TTL.
func (r *ServerReg) MarkDead() {
	r.alive = false
}
