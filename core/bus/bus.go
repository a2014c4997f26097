package bus

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	czmq "github.com/zeromq/goczmq/v4"
)

// Config describes a Bus's wiring: the frontend sockets publishers connect
// to, the backend sockets subscribers connect to, and an optional capture
// endpoint every proxied frame is mirrored to.
type Config struct {
	Name     string
	Unit     string
	Backend  string
	Frontend string
	Capture  string
}

// Bus proxies messages from its frontend (XSUB) to its backend (XPUB),
// optionally mirroring every frame to a capture socket, the same
// pull-the-frontier, push-the-backend shape as a ZeroMQ device.
type Bus struct {
	name     string
	unit     string
	backend  string
	frontend string
	capture  string
}

// NewBus constructs a Bus from config.
func NewBus(config Config) *Bus {
	return &Bus{
		name:     config.Name,
		unit:     config.Unit,
		backend:  config.Backend,
		frontend: config.Frontend,
		capture:  config.Capture,
	}
}

func (b *Bus) defaultFields(err error) log.Fields {
	fields := log.Fields{"name": b.name, "unit": b.unit}
	if err != nil {
		fields["err"] = err
	}
	return fields
}

// Start binds the frontend, backend, and (if configured) capture sockets
// and proxies frames between them until ctx is cancelled or times out. It
// owns wg.Done and returns nil on a clean, context-driven shutdown.
func (b *Bus) Start(ctx context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	frontend, err := czmq.NewXSub(b.frontend)
	if err != nil {
		return fmt.Errorf("bus %q: failed to bind frontend %s: %w", b.name, b.frontend, err)
	}
	defer frontend.Destroy()

	backend, err := czmq.NewXPub(b.backend)
	if err != nil {
		return fmt.Errorf("bus %q: failed to bind backend %s: %w", b.name, b.backend, err)
	}
	defer backend.Destroy()

	var capture *czmq.Sock
	if b.capture != "" {
		capture, err = czmq.NewPub(b.capture)
		if err != nil {
			return fmt.Errorf("bus %q: failed to bind capture %s: %w", b.name, b.capture, err)
		}
		defer capture.Destroy()
	}

	poller, err := czmq.NewPoller(frontend, backend)
	if err != nil {
		return fmt.Errorf("bus %q: failed to create proxy poller: %w", b.name, err)
	}
	defer poller.Destroy()

	log.WithFields(b.defaultFields(nil)).Info("bus started")

	const pollIntervalMs = 100

	for {
		select {
		case <-ctx.Done():
			log.WithFields(b.defaultFields(nil)).Info("bus stopped")
			return nil
		default:
		}

		socket, err := poller.Wait(pollIntervalMs)
		if err != nil {
			return fmt.Errorf("bus %q: proxy poll failed: %w", b.name, err)
		}
		if socket == nil {
			continue
		}

		msg, err := socket.RecvMessage()
		if err != nil {
			log.WithFields(b.defaultFields(err)).Error("bus proxy recv failed")
			continue
		}

		var dst *czmq.Sock
		switch socket {
		case frontend:
			dst = backend
		case backend:
			dst = frontend
		}
		if dst == nil {
			continue
		}

		if err := dst.SendMessage(msg); err != nil {
			log.WithFields(b.defaultFields(err)).Error("bus proxy forward failed")
		}
		if capture != nil {
			if err := capture.SendMessage(msg); err != nil {
				log.WithFields(b.defaultFields(err)).Error("bus capture forward failed")
			}
		}
	}
}

// Run is the deprecated rendezvous-channel shutdown path: it blocks until a
// value is sent on done, then acknowledges by sending a value back.
//
// Deprecated: use Start with a context instead.
func (b *Bus) Run(done chan bool) {
	<-done
	log.WithFields(b.defaultFields(nil)).Warn("bus Run is deprecated, use Start")
	done <- true
}
