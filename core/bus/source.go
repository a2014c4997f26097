// Package bus provides a publish/subscribe message bus built on ZeroMQ
// PUB/SUB sockets, used for fan-out signaling alongside the route fabric's
// request/reply mesh.
package bus

import (
	"bytes"
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// shutdownCommand is a sentinel payload that tells a running Source to
// stop publishing and return from Run.
var shutdownCommand = []byte{0x0D, 0x0E, 0x0A, 0x0D}

// Source publishes messages onto the bus under a fixed envelope topic.
type Source struct {
	endpoint string
	envelope string
	running  bool
	queue    chan []byte
}

// NewSource returns a Source that will bind endpoint and publish every
// queued message under envelope.
func NewSource(endpoint, envelope string) *Source {
	return &Source{
		endpoint: endpoint,
		envelope: envelope,
		queue:    make(chan []byte, 64),
	}
}

func (s *Source) defaultFields(err error) log.Fields {
	fields := log.Fields{"endpoint": s.endpoint, "envelope": s.envelope}
	if err != nil {
		fields["err"] = err
	}
	return fields
}

// Running reports whether Run is currently active.
func (s *Source) Running() bool {
	return s.running
}

// Stop marks the source as no longer running and closes its internal
// queue, so any further QueueMessage call panics rather than blocking
// forever on a source nobody is draining.
func (s *Source) Stop() {
	s.running = false
	close(s.queue)
}

// QueueMessage enqueues data for publishing.
func (s *Source) QueueMessage(data []byte) {
	s.queue <- data
}

// Shutdown asks a running source to stop by queuing the shutdown sentinel;
// it does nothing if the source isn't running.
func (s *Source) Shutdown() {
	if s.running {
		s.queue <- shutdownCommand
	}
}

// Run binds a PUB socket at endpoint and publishes queued messages under
// envelope until ctx is cancelled, Shutdown is called, or the queue is
// closed by Stop.
func (s *Source) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	socket, err := czmq.NewPub(s.endpoint)
	if err != nil {
		log.WithFields(s.defaultFields(err)).Error("failed to bind source socket")
		return
	}
	defer socket.Destroy()

	s.running = true
	defer func() { s.running = false }()

	log.WithFields(s.defaultFields(nil)).Info("source started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.queue:
			if !ok || bytes.Equal(msg, shutdownCommand) {
				return
			}
			frames := [][]byte{[]byte(s.envelope), msg}
			if err := socket.SendMessage(frames); err != nil {
				log.WithFields(s.defaultFields(err)).Error("failed to publish message")
			}
		}
	}
}
