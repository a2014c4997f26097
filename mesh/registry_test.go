package mesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServerReg(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")

	assert.Equal(t, "tcp://127.0.0.1:9797", reg.Endpoint)
	assert.False(t, reg.Alive())
	assert.False(t, reg.DuePing(time.Now()))
	assert.False(t, reg.Expired(time.Now()))
}

func TestServerRegDuePingAfterInterval(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	assert.True(t, reg.DuePing(time.Now().Add(PingInterval+time.Millisecond)))
}

func TestServerRegExpiredAfterTTL(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	assert.True(t, reg.Expired(time.Now().Add(ServerTTL+time.Millisecond)))
}

func TestServerRegExpiredAtExactTTL(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	assert.True(t, reg.Expired(reg.expires))
}

func TestServerRegPingAdvancesPingAtOnly(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	expiresBefore := reg.expires

	now := time.Now()
	reg.Ping(now)

	assert.False(t, reg.Alive())
	assert.Equal(t, expiresBefore, reg.expires)
	assert.False(t, reg.DuePing(now))
}

func TestServerRegExpiresWithoutInboundTraffic(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")

	now := time.Now()
	reg.Ping(now)

	assert.True(t, reg.Expired(now.Add(ServerTTL+time.Millisecond)))
}

func TestServerRegTouchMarksAliveAndExtendsExpiry(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	reg.MarkDead()
	assert.False(t, reg.Alive())

	now := time.Now()
	reg.Touch(now)

	assert.True(t, reg.Alive())
	assert.False(t, reg.Expired(now.Add(ServerTTL-time.Millisecond)))
}

func TestServerRegMarkDead(t *testing.T) {
	reg := NewServerReg("tcp://127.0.0.1:9797")
	reg.Touch(time.Now())
	reg.MarkDead()
	assert.False(t, reg.Alive())
}
