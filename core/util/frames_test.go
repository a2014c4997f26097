package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopStr(t *testing.T) {
	msg := [][]byte{[]byte("one"), []byte("two")}
	head, tail := PopStr(msg)
	assert.Equal(t, "one", head)
	assert.Equal(t, [][]byte{[]byte("two")}, tail)
}

func TestPopMsg(t *testing.T) {
	msg := [][]byte{[]byte("one"), []byte("two")}
	head, tail := PopMsg(msg)
	assert.Equal(t, []byte("one"), head)
	assert.Equal(t, [][]byte{[]byte("two")}, tail)
}

func TestUnwrapWithDelimiter(t *testing.T) {
	msg := [][]byte{[]byte("addr"), {}, []byte("body")}
	address, rest := Unwrap(msg)
	assert.Equal(t, []byte("addr"), address)
	assert.Equal(t, [][]byte{[]byte("body")}, rest)
}

func TestUnwrapWithoutDelimiter(t *testing.T) {
	msg := [][]byte{[]byte("addr"), []byte("body")}
	address, rest := Unwrap(msg)
	assert.Equal(t, []byte("addr"), address)
	assert.Equal(t, [][]byte{[]byte("body")}, rest)
}

func TestUnwrapEmpty(t *testing.T) {
	address, rest := Unwrap(nil)
	assert.Nil(t, address)
	assert.Nil(t, rest)
}

func TestWrap(t *testing.T) {
	wrapped := Wrap([]byte("addr"), [][]byte{[]byte("body")})
	assert.Equal(t, [][]byte{[]byte("addr"), {}, []byte("body")}, wrapped)
}
