package wire

import "github.com/vmihailenco/msgpack/v5"

// Registration is the payload a router sends a broker during the
// registration handshake, claiming the shards it will serve.
type Registration struct {
	Protocol string `msgpack:"protocol"`
	Endpoint string `msgpack:"endpoint"`
	Shards   []int  `msgpack:"shards"`
}

// EncodeRegistration serializes a Registration to its wire representation.
func EncodeRegistration(r *Registration) ([]byte, error) {
	return msgpack.Marshal(r)
}

// DecodeRegistration parses a Registration from its wire representation.
func DecodeRegistration(data []byte) (*Registration, error) {
	var r Registration
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
