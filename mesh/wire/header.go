// Package wire defines the binary header framed around every message body
// that crosses the route fabric. The header itself is the only part of the
// wire format this module owns; the body is opaque bytes produced by
// whatever protocol layer a service implements.
package wire

import (
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"
)

// Routable is implemented by protocol-layer messages that can be routed by
// a consistent-hash key. A message with no meaningful routing key (ok ==
// false) is routed round-robin instead.
type Routable interface {
	RouteKey() (key string, ok bool)
}

// RouteInfo carries the routing decision alongside the message so a router
// can confirm which shard a message was dispatched to without recomputing
// the hash.
type RouteInfo struct {
	Protocol  string `msgpack:"protocol"`
	RouteHash uint64 `msgpack:"route_hash"`
}

// Header is the self-describing envelope placed around every message body.
// It is msgpack-encoded; the protocol layer that produced Body is free to
// use any format it likes for the body itself.
type Header struct {
	MessageID string    `msgpack:"message_id"`
	Body      []byte    `msgpack:"body"`
	Route     RouteInfo `msgpack:"route_info"`
}

// Encode serializes a Header to its wire representation.
func Encode(h *Header) ([]byte, error) {
	return msgpack.Marshal(h)
}

// Decode parses a Header from its wire representation.
func Decode(data []byte) (*Header, error) {
	var h Header
	if err := msgpack.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// HashRouteKey computes the 64-bit FNV-1a hash of a route key, the value
// BrokerConn.Route records as a request's RouteInfo.RouteHash.
func HashRouteKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}
