package main

import (
	"github.com/geoffjay/routefabric/mesh"
	"github.com/geoffjay/routefabric/mesh/wire"

	log "github.com/sirupsen/logrus"
)

// newEchoDispatcher builds a Dispatcher for the given shard that decodes
// the echo protocol's Request, logs it, and replies with the same message
// tagged with the shard that handled it - useful for confirming that
// requests with the same route key always land on the same shard.
func newEchoDispatcher(shard int) mesh.Dispatcher {
	return &mesh.BaseDispatcher{
		Handler: func(req *wire.Header) (*wire.Header, error) {
			request, err := decodeRequest(req.Body)
			if err != nil {
				return nil, mesh.NewParseError(err)
			}

			log.WithFields(log.Fields{
				"shard":   shard,
				"key":     request.Key,
				"message": request.Message,
			}).Debug("echo dispatching request")

			body, err := encodeResponse(Response{Message: request.Message, Shard: shard})
			if err != nil {
				return nil, mesh.NewParseError(err)
			}

			return &wire.Header{
				MessageID: req.MessageID,
				Body:      body,
				Route:     req.Route,
			}, nil
		},
	}
}
