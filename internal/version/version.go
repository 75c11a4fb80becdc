// Package version holds the build-time version string for bgf-server.
package version

// Version is the current version of the relay server binary.
// This value can be overridden at build time using:
//   go build -ldflags="-X 'github.com/pradeep9868/board-game-framework/internal/version.Version=v1.0.0'"
var Version = "dev"
