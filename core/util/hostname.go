package util

import (
	"fmt"
	"os"
)

// Hostname returns the local hostname, falling back to "unknown" if it
// cannot be determined.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// NetIdent returns this process's network identity, used as the address
// workers present to the broker on registration. With a non-empty
// component it has the form "component#pid@hostname"; otherwise
// "pid@hostname".
func NetIdent(component string) string {
	if component == "" {
		return fmt.Sprintf("%d@%s", os.Getpid(), Hostname())
	}
	return fmt.Sprintf("%s#%d@%s", component, os.Getpid(), Hostname())
}
