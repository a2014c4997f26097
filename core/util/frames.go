package util

// PopStr pops the first frame off a multi-frame message, returning it as a
// string along with the remaining frames.
func PopStr(msg [][]byte) (head string, tail [][]byte) {
	head = string(msg[0])
	tail = msg[1:]
	return
}

// PopMsg pops the first frame off a multi-frame message, returning the raw
// bytes along with the remaining frames.
func PopMsg(msg [][]byte) (head []byte, tail [][]byte) {
	head = msg[0]
	tail = msg[1:]
	return
}

// Unwrap strips a leading envelope (an address frame optionally followed by
// an empty delimiter frame) off msg, returning the address and the
// remaining body frames. The first frame is always taken as the address;
// only an empty msg yields a nil address, with msg returned unchanged.
func Unwrap(msg [][]byte) (address []byte, rest [][]byte) {
	if len(msg) == 0 {
		return nil, msg
	}

	address = msg[0]
	rest = msg[1:]

	if len(rest) > 0 && len(rest[0]) == 0 {
		rest = rest[1:]
	}

	return
}

// Wrap prepends an address frame and an empty delimiter frame to msg.
func Wrap(address []byte, msg [][]byte) [][]byte {
	wrapped := make([][]byte, 0, len(msg)+2)
	wrapped = append(wrapped, address, []byte{})
	wrapped = append(wrapped, msg...)
	return wrapped
}
