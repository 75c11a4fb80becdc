// Package logging sets up the log15 handler used throughout the relay
// server, and hands out component-scoped loggers.
package logging

import (
	"os"

	"github.com/inconshreveable/log15"
)

// Root is the base logger; every package derives its own logger from
// this via New so that log lines carry a consistent "component" context.
var Root = log15.New()

// Init configures Root's handler according to level (one of "debug",
// "info", "warn", "error", "crit" — defaults to "info" for anything else).
func Init(level string) {
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		lvl = log15.LvlInfo
	}
	Root.SetHandler(log15.LvlFilterHandler(
		lvl,
		log15.StreamHandler(os.Stderr, log15.LogfmtFormat()),
	))
}

// New returns a logger scoped to component, with any extra key/value
// context attached (mirroring how the original implementation threads
// "ID", c.ID through its per-client logger).
func New(component string, ctx ...interface{}) log15.Logger {
	return Root.New(append([]interface{}{"component", component}, ctx...)...)
}
