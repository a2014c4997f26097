package main

import "github.com/vmihailenco/msgpack/v5"

// Request is the echo service's request body, msgpack-encoded inside the
// mesh wire header. Key selects which shard a given request is
// consistent-hash routed to; an empty Key is routed round-robin.
type Request struct {
	Key     string `msgpack:"key"`
	Message string `msgpack:"message"`
}

// RouteKey implements wire.Routable.
func (r Request) RouteKey() (string, bool) {
	if r.Key == "" {
		return "", false
	}
	return r.Key, true
}

// Response is the echo service's reply body.
type Response struct {
	Message string `msgpack:"message"`
	Shard   int    `msgpack:"shard"`
}

func encodeRequest(r Request) ([]byte, error) {
	return msgpack.Marshal(r)
}

func decodeRequest(data []byte) (Request, error) {
	var r Request
	err := msgpack.Unmarshal(data, &r)
	return r, err
}

func encodeResponse(r Response) ([]byte, error) {
	return msgpack.Marshal(r)
}

func decodeResponse(data []byte) (Response, error) {
	var r Response
	err := msgpack.Unmarshal(data, &r)
	return r, err
}
