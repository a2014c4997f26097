// Package core provides foundational components shared across the route
// fabric's binaries: version information, configuration, logging, and the
// other ambient concerns every component depends on.
package core

// VERSION of project.
var VERSION = "undefined" // set during the build process with -ldflags
