package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/loop/config"
	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

func newTestServer(t *testing.T, mutate func(*game.Config)) (*Server, *game.World) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.TickInterval = time.Millisecond
	cfg.SpawnBaseRate = 0
	cfg.SpawnLevelCoefficient = 0
	cfg.Seed = 7
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := game.NewWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return NewServer(w, log.New(io.Discard)), w
}

// run starts the server and returns a stop function that waits for Run to exit.
func run(t *testing.T, s *Server) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func waitEvent(t *testing.T, s *Server, want EventType) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v event", want)
			return Event{}
		}
	}
}

func TestInitialSnapshot(t *testing.T) {
	s, _ := newTestServer(t, nil)
	snap := s.Snapshot()
	if snap == nil || snap.Tick != 0 || snap.Level != 1 {
		t.Fatalf("initial snapshot = %+v", snap)
	}
}

func TestRunAppliesCommandsAndPublishes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	stop := run(t, s)
	defer stop()

	if !s.SendCommand(game.FireAt(100)) {
		t.Fatal("command dropped")
	}
	waitFor(t, "bullet in snapshot", func() bool {
		snap := s.Snapshot()
		return len(snap.Bullets) == 1 && snap.Player.X == 100
	})

	first := s.Snapshot().Tick
	waitFor(t, "ticks to advance", func() bool { return s.Snapshot().Tick > first+5 })
}

func TestGameOverIdlesUntilReset(t *testing.T) {
	s, w := newTestServer(t, func(c *game.Config) { c.Policy = game.PolicyBoundary })

	// About to cross the bottom edge before Run starts
	e := object.NewEnemy(object.TierWeak, physics.Point{X: 100, Y: 1014}, 1, object.ColorWhite)
	w.Enemies = append(w.Enemies, e)

	stop := run(t, s)
	defer stop()

	ev := waitEvent(t, s, EventGameOver)
	if ev.Score != 0 || ev.Level != 1 || ev.Tick == 0 {
		t.Fatalf("game over event = %+v", ev)
	}

	over := s.Snapshot()
	if !over.GameOver {
		t.Fatal("snapshot does not report game over")
	}
	time.Sleep(20 * time.Millisecond)
	if got := s.Snapshot().Tick; got != over.Tick {
		t.Fatalf("ticks advanced while game over: %d -> %d", over.Tick, got)
	}

	s.SendCommand(game.FireAt(10))
	s.SendCommand(game.Reset())
	waitEvent(t, s, EventReset)
	waitFor(t, "game to resume", func() bool {
		snap := s.Snapshot()
		return !snap.GameOver && snap.Tick > 0
	})
	if n := len(s.Snapshot().Bullets); n != 0 {
		t.Fatalf("command sent while over produced %d bullets", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)
	stop := run(t, s)
	waitFor(t, "first tick", func() bool { return s.Snapshot().Tick > 0 })
	stop()

	after := s.Snapshot().Tick
	time.Sleep(10 * time.Millisecond)
	if got := s.Snapshot().Tick; got != after {
		t.Fatalf("world advanced after Run returned: %d -> %d", after, got)
	}
}

func TestSendCommandDropsWhenFull(t *testing.T) {
	s, _ := newTestServer(t, nil)
	for i := 0; i < config.CommandQueueSize; i++ {
		if !s.SendCommand(game.Fire()) {
			t.Fatalf("command %d dropped before the inbox was full", i)
		}
	}
	if s.SendCommand(game.Fire()) {
		t.Fatal("command accepted by a full inbox")
	}
}

func TestRegistryShutdown(t *testing.T) {
	r := NewRegistry()
	a, _ := newTestServer(t, nil)
	b, _ := newTestServer(t, nil)
	ida := r.Register(a)
	idb := r.Register(b)
	if ida == idb || r.Len() != 2 {
		t.Fatalf("ids %d %d, len %d", ida, idb, r.Len())
	}

	// Each session unregisters once it sees the shutdown event
	for id, s := range map[int]*Server{ida: a, idb: b} {
		go func() {
			for ev := range s.Events() {
				if ev.Type == EventShutdown {
					r.Unregister(id)
					return
				}
			}
		}()
	}

	start := time.Now()
	r.Shutdown(5 * time.Second)
	if r.Len() != 0 {
		t.Fatalf("%d servers still registered", r.Len())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("shutdown waited for the full timeout: %v", elapsed)
	}
}

func TestRegistryShutdownTimesOut(t *testing.T) {
	r := NewRegistry()
	s, _ := newTestServer(t, nil)
	r.Register(s)

	start := time.Now()
	r.Shutdown(100 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("shutdown returned early: %v", elapsed)
	}
	if ev := <-s.Events(); ev.Type != EventShutdown {
		t.Fatalf("event = %v", ev.Type)
	}
}
