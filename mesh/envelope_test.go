package mesh

import (
	"testing"

	"github.com/geoffjay/routefabric/mesh/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	czmq "github.com/zeromq/goczmq/v4"
)

func TestEnvelopeAddHop(t *testing.T) {
	e := NewEnvelope()

	require.NoError(t, e.AddHop([]byte("a")))
	require.NoError(t, e.AddHop([]byte("b")))

	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, e.Hops())
}

func TestEnvelopeAddHopMaxExceeded(t *testing.T) {
	e := NewEnvelope()

	for i := 0; i < MaxHops; i++ {
		require.NoError(t, e.AddHop([]byte("hop")))
	}

	err := e.AddHop([]byte("one-too-many"))
	assert.ErrorIs(t, err, ErrMaxHopsExceeded)
}

func TestEnvelopeFramesPreservesHopOrder(t *testing.T) {
	e := NewEnvelope()
	require.NoError(t, e.AddHop([]byte("client")))
	require.NoError(t, e.AddHop([]byte("router")))

	frames := e.frames(rpTag, []byte("result"))

	assert.Equal(t, []byte("client"), frames[0])
	assert.Equal(t, []byte("router"), frames[1])
	assert.Equal(t, []byte{}, frames[2])
	assert.Equal(t, []byte("RP"), frames[3])
	assert.Equal(t, []byte("result"), frames[4])
}

func TestEnvelopeFramesSendHeaderTagsRQ(t *testing.T) {
	e := NewEnvelope()
	require.NoError(t, e.AddHop([]byte("client")))

	frames := e.frames(rqTag, []byte("body"))

	assert.Equal(t, []byte("client"), frames[0])
	assert.Equal(t, []byte{}, frames[1])
	assert.Equal(t, []byte("RQ"), frames[2])
	assert.Equal(t, []byte("body"), frames[3])
}

func TestEnvelopeFramesOmitsHopPrefixOnceStarted(t *testing.T) {
	e := NewEnvelope()
	require.NoError(t, e.AddHop([]byte("client")))

	first := e.frames(rpTag, []byte("part-1"))
	require.Len(t, first, 4)

	second := e.frames(rpTag, []byte("part-2"))
	assert.Equal(t, [][]byte{[]byte("part-2")}, second)
}

func TestEnvelopeSetMsgAndReset(t *testing.T) {
	e := NewEnvelope()
	require.NoError(t, e.AddHop([]byte("a")))
	e.SetMsg(&wire.Header{MessageID: "abc"})

	assert.Equal(t, "abc", e.Msg().MessageID)

	e.Reset()

	assert.Empty(t, e.Hops())
	assert.Nil(t, e.Msg())
}

// TestEnvelopeReplyCompleteSendsHopPrefixedFrames exercises ReplyComplete
// end to end over a real socket pair and is skipped outside integration
// runs since it requires the goczmq cgo bindings.
func TestEnvelopeReplyCompleteSendsHopPrefixedFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	const addr = "inproc://envelope-reply-test"

	router, err := czmq.NewRouter(addr)
	require.NoError(t, err)
	defer router.Destroy()

	conn, err := NewRouteConn("dispatcher#1@localhost", []string{addr}, 0)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.socket.Connect(addr))

	e := NewEnvelope()
	require.NoError(t, e.AddHop([]byte("client")))
	require.NoError(t, e.AddHop([]byte("router")))

	require.NoError(t, e.ReplyComplete(conn, []byte("result")))

	msg, err := router.RecvMessage()
	require.NoError(t, err)

	// msg[0] is the ROUTER-prepended sender identity.
	assert.Equal(t, []byte("client"), msg[1])
	assert.Equal(t, []byte("router"), msg[2])
	assert.Equal(t, []byte{}, msg[3])
	assert.Equal(t, []byte("RP"), msg[4])
	assert.Equal(t, []byte("result"), msg[5])
}
