// Package config loads the relay server's runtime configuration with
// flag > env > default precedence, the same layering the teacher's CLI
// module uses for its own settings.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults, chosen to comfortably cover realistic single-process
// deployments (see DESIGN.md's Open Question decisions for the replay
// buffer size rationale).
const (
	DefaultAddr             = ":8080"
	DefaultReplayBufferSize = 256
	DefaultClientQueueSize  = 256
	DefaultHubQueueSize     = 256
	DefaultLogLevel         = "info"
)

// Config holds everything the relay server needs to start.
type Config struct {
	Addr             string
	ReplayBufferSize int
	ClientQueueSize  int
	HubQueueSize     int
	LogLevel         string
}

// Options carries CLI-flag overrides; a zero value means "not set by a
// flag, fall through to env/default".
type Options struct {
	Addr             string
	ReplayBufferSize int
	ClientQueueSize  int
	HubQueueSize     int
	LogLevel         string
}

// Load reads configuration with the following priority:
//  1. CLI flags (opts) - highest priority
//  2. Environment variables, optionally loaded from a .env file
//  3. Hardcoded defaults - lowest priority
func Load(opts Options) *Config {
	// godotenv.Load is a no-op (returns an error we ignore) when no .env
	// file is present; it never overrides variables already set in the
	// environment.
	_ = godotenv.Load()

	return &Config{
		Addr:             firstNonEmpty(opts.Addr, os.Getenv("ADDR"), DefaultAddr),
		ReplayBufferSize: firstPositiveInt(opts.ReplayBufferSize, envInt("REPLAY_BUFFER_SIZE"), DefaultReplayBufferSize),
		ClientQueueSize:  firstPositiveInt(opts.ClientQueueSize, envInt("CLIENT_QUEUE_SIZE"), DefaultClientQueueSize),
		HubQueueSize:     firstPositiveInt(opts.HubQueueSize, envInt("HUB_QUEUE_SIZE"), DefaultHubQueueSize),
		LogLevel:         firstNonEmpty(opts.LogLevel, os.Getenv("LOG_LEVEL"), DefaultLogLevel),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositiveInt(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func envInt(name string) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return 0
	}
	return v
}
