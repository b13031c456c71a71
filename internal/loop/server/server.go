// Package server drives a game world on its own goroutine and publishes
// immutable snapshots for boundary adapters.
package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/loop/config"
)

// GameServer is the interface adapters use to talk to a running game.
// Decouples the terminal and web clients from the concrete Server.
type GameServer interface {
	SendCommand(cmd game.Command) bool
	Snapshot() *game.Snapshot
	Events() <-chan Event
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// EventType identifies the type of server event.
type EventType int

const (
	EventGameOver EventType = iota
	EventReset
	EventShutdown
)

func (t EventType) String() string {
	switch t {
	case EventGameOver:
		return "game over"
	case EventReset:
		return "reset"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is sent from the server to its adapter.
type Event struct {
	Type  EventType
	Tick  uint64
	Score int
	Level int
}

// Server owns one game world. Only the Run goroutine mutates the world;
// everyone else talks to it through commands and snapshots.
type Server struct {
	world    *game.World
	snapshot atomic.Pointer[game.Snapshot]
	inbox    chan game.Command
	events   chan Event
	logger   *log.Logger
}

// NewServer wraps world. A nil logger uses the default logger.
func NewServer(world *game.World, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		world:  world,
		inbox:  make(chan game.Command, config.CommandQueueSize),
		events: make(chan Event, 16),
		logger: logger,
	}

	// Initial snapshot so readers never see nil
	s.snapshot.Store(world.Snapshot())
	return s
}

// Run drives the world at its configured tick interval until ctx is cancelled.
// Ticks that overrun are not caught up. While the game is over the loop
// waits for a command instead of ticking.
func (s *Server) Run(ctx context.Context) {
	interval := s.world.Config().TickInterval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	s.logger.Debug("game started", "tick", interval)

	for {
		if ctx.Err() != nil {
			return
		}

		if s.world.State.GameOver {
			select {
			case <-ctx.Done():
				return
			case cmd := <-s.inbox:
				s.apply(cmd)
				s.publish()
			}
			continue
		}

		frameStart := time.Now()

		s.drainCommands()
		res := s.world.Step()
		s.publish()

		if res.GameOver {
			s.logger.Info("game over",
				"score", s.world.State.Score,
				"level", s.world.State.Level,
				"ticks", res.Tick)
			s.logger.Debug("final world", "world", s.world.String())
			s.notify(Event{Type: EventGameOver, Tick: res.Tick, Score: s.world.State.Score, Level: s.world.State.Level})
			continue
		}
		if res.LevelUp {
			s.logger.Debug("level up", "level", s.world.State.Level, "score", s.world.State.Score)
		}

		// Frame timing
		wait := interval - time.Since(frameStart)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// SendCommand queues a command for the next tick. Returns false when the
// inbox is full and the command was dropped.
func (s *Server) SendCommand(cmd game.Command) bool {
	select {
	case s.inbox <- cmd:
		return true
	default:
		// Inbox full, drop command
		return false
	}
}

// Snapshot returns the most recently published world snapshot.
func (s *Server) Snapshot() *game.Snapshot {
	return s.snapshot.Load()
}

// Events returns the channel of server events.
func (s *Server) Events() <-chan Event {
	return s.events
}

// drainCommands applies every queued command.
func (s *Server) drainCommands() {
	for {
		select {
		case cmd := <-s.inbox:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd game.Command) {
	wasOver := s.world.State.GameOver
	if !s.world.Apply(cmd) || cmd.Kind != game.CmdReset {
		return
	}
	s.logger.Info("game reset", "after_game_over", wasOver)
	// Publish first so an adapter reacting to the event sees the fresh world
	s.publish()
	s.notify(Event{Type: EventReset, Level: 1})
}

func (s *Server) publish() {
	s.snapshot.Store(s.world.Snapshot())
}

// notify delivers an event without blocking the game loop.
func (s *Server) notify(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
