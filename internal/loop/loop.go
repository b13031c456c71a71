// Package loop wires a game world, its server and a terminal client into a
// single local session.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/loop/client"
	"github.com/tomz197/shooter/internal/loop/server"
)

// Options configures a local session.
type Options struct {
	Config       game.Config
	Logger       *log.Logger
	TermSizeFunc func() (int, int, error)
	Username     string
}

// Run plays one session on the given terminal streams: the world ticks on its
// own goroutine while the client renders it. Blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	world, err := game.NewWorld(opts.Config, nil)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}
	srv := server.NewServer(world, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	c := client.NewClient(srv, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Logger:       logger,
	})
	return c.Run()
}
