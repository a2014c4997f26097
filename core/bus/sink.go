package bus

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// SinkCallback handles a single message received by a Sink.
type SinkCallback interface {
	Handle(data []byte) error
}

// SinkHandler wraps a SinkCallback so it can be swapped out after
// construction via Sink.SetHandler.
type SinkHandler struct {
	Callback SinkCallback
}

// Sink subscribes to messages published on the bus under a topic filter.
type Sink struct {
	endpoint string
	filter   string
	running  bool
	handler  *SinkHandler
}

// NewSink returns a Sink that will connect to endpoint and subscribe to
// filter.
func NewSink(endpoint, filter string) *Sink {
	return &Sink{endpoint: endpoint, filter: filter}
}

func (s *Sink) defaultFields(err error) log.Fields {
	fields := log.Fields{"endpoint": s.endpoint, "filter": s.filter}
	if err != nil {
		fields["err"] = err
	}
	return fields
}

// SetHandler installs the callback invoked for every received message.
func (s *Sink) SetHandler(handler *SinkHandler) {
	s.handler = handler
}

// Running reports whether Run is currently active.
func (s *Sink) Running() bool {
	return s.running
}

// Stop asks a running Sink to return from Run at its next poll.
func (s *Sink) Stop() {
	s.running = false
}

// Run connects a SUB socket to endpoint, subscribes to filter, and
// dispatches every received message to the installed handler until ctx is
// cancelled or Stop is called.
func (s *Sink) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	socket, err := czmq.NewSub(s.endpoint, s.filter)
	if err != nil {
		log.WithFields(s.defaultFields(err)).Error("failed to connect sink socket")
		return
	}
	defer socket.Destroy()

	poller, err := czmq.NewPoller(socket)
	if err != nil {
		log.WithFields(s.defaultFields(err)).Error("failed to create sink poller")
		return
	}
	defer poller.Destroy()

	s.running = true
	defer func() { s.running = false }()

	log.WithFields(s.defaultFields(nil)).Info("sink started")

	const pollIntervalMs = 100

	for s.running {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ready, err := poller.Wait(pollIntervalMs)
		if err != nil {
			log.WithFields(s.defaultFields(err)).Error("sink poll failed")
			return
		}
		if ready == nil {
			continue
		}

		frames, err := ready.RecvMessage()
		if err != nil {
			log.WithFields(s.defaultFields(err)).Error("sink recv failed")
			continue
		}
		if len(frames) == 0 {
			continue
		}

		data := frames[len(frames)-1]
		if s.handler == nil || s.handler.Callback == nil {
			continue
		}
		if err := s.handler.Callback.Handle(data); err != nil {
			log.WithFields(s.defaultFields(err)).Error("sink handler failed")
		}
	}
}
