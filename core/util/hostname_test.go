package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetIdentWithComponent(t *testing.T) {
	ident := NetIdent("echo")
	expected := fmt.Sprintf("echo#%d@%s", os.Getpid(), Hostname())
	assert.Equal(t, expected, ident)
}

func TestNetIdentWithoutComponent(t *testing.T) {
	ident := NetIdent("")
	expected := fmt.Sprintf("%d@%s", os.Getpid(), Hostname())
	assert.Equal(t, expected, ident)
}

func TestHostnameNotEmpty(t *testing.T) {
	assert.NotEmpty(t, Hostname())
}
