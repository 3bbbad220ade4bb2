// Command echo wires a single listener straight to a Dummy filter,
// demonstrating the simplest possible pipeline: bytes in, bytes back out
// unchanged. Grounded on the teacher's example.go, which dials one BGP
// peer and bridges it through a Pipe with io.Copy.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/pipyfix/pipy/filters"
	"github.com/pipyfix/pipy/netio"
	"github.com/pipyfix/pipy/pipeline"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	layout, err := pipeline.NewLayout("echo", pipeline.Listen, filters.Dummy{})
	if err != nil {
		logger.Fatal().Err(err).Msg("building layout")
	}

	registry := netio.NewRegistry()
	port := registry.Get("tcp", "0.0.0.0", 8080)

	ln, err := netio.Listen(port, netio.ListenOptions{
		Proto:          "tcp",
		Address:        "0.0.0.0:8080",
		MaxConnections: 1000,
		BufferLimit:    1 << 20,
	}, func() (*pipeline.Instance, error) {
		return layout.Alloc(), nil
	}, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("listen")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info().Msg("echo listening on :8080")
	if err := ln.Accept(ctx); err != nil {
		logger.Error().Err(err).Msg("accept loop exited")
	}
}
