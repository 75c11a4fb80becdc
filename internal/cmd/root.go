// Package cmd wires the relay server's command-line entrypoint.
package cmd

import (
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pradeep9868/board-game-framework/internal/config"
	"github.com/pradeep9868/board-game-framework/internal/logging"
	"github.com/pradeep9868/board-game-framework/internal/relay"
	"github.com/pradeep9868/board-game-framework/internal/server"
	"github.com/pradeep9868/board-game-framework/internal/version"
)

var opts config.Options

var rootCmd = &cobra.Command{
	Use:   "bgf-server",
	Short: "Relay server for browser-based multiplayer board games",
	Long: `bgf-server relays JSON messages between browsers connected to the
same named game over a websocket, assigning stable client identities
and strictly ordered, replayable envelopes.`,
	Version: version.Version,
	RunE:    run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.Addr, "addr", "", "address to listen on (default "+config.DefaultAddr+")")
	flags.IntVar(&opts.ReplayBufferSize, "replay-buffer-size", 0, "envelopes retained per game for reconnect replay")
	flags.IntVar(&opts.ClientQueueSize, "client-queue-size", 0, "per-client outbound queue depth")
	flags.IntVar(&opts.HubQueueSize, "hub-queue-size", 0, "per-game inbound event queue depth")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: crit, error, warn, info, debug")
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg := config.Load(opts)
	logging.Init(cfg.LogLevel)
	log := logging.New("main")

	dir := relay.NewDirectory(relay.HubConfig{
		ReplayBufferSize: cfg.ReplayBufferSize,
		ClientQueueSize:  cfg.ClientQueueSize,
		HubQueueSize:     cfg.HubQueueSize,
	})

	router := server.NewRouter(dir, cfg.ClientQueueSize)

	log.Info("listening", "addr", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, router)
}
