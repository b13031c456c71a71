package loop

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/shooter/internal/game"
)

func TestRunQuits(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Seed = 3

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(bufio.NewReader(strings.NewReader(" q")), &out, Options{
			Config:       cfg,
			TermSizeFunc: func() (int, int, error) { return 80, 40, nil },
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	if out.Len() == 0 {
		t.Fatal("nothing rendered")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Width = -1

	err := Run(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, Options{Config: cfg})
	if !errors.Is(err, game.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
