package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func newTestStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestKeys(t *testing.T) {
	s := newTestStream()
	feed(s, "ad qr")
	in := ReadInput(s)

	if !in.Left || !in.Right || !in.Space || !in.Quit || !in.Reset {
		t.Fatalf("keys not detected: %+v", in)
	}
	if string(in.Pressed) != "ad qr" {
		t.Fatalf("pressed = %q", in.Pressed)
	}
	if !in.Tapped(' ') || in.Tapped('x') {
		t.Fatal("Tapped mismatch")
	}
	if !in.Active() {
		t.Fatal("input not active")
	}
}

func TestKeysHoldBriefly(t *testing.T) {
	s := newTestStream()
	feed(s, "a")
	ReadInput(s)

	if in := ReadInput(s); !in.Left || in.Tapped('a') {
		t.Fatalf("key should be held but not tapped again: %+v", in)
	}
	time.Sleep(2 * keyHoldDuration)
	if in := ReadInput(s); in.Left {
		t.Fatal("key still held after the hold duration")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newTestStream()
	feed(s, " ")
	ReadInput(s)
	ResetKeyInput(s)
	if in := ReadInput(s); in.Space {
		t.Fatal("space still held after reset")
	}
}

func TestArrowKeys(t *testing.T) {
	tests := []struct {
		seq         string
		left, right bool
	}{
		{"\x1b[D", true, false},
		{"\x1b[C", false, true},
		{"\x1b[A", false, false},
	}
	for _, tc := range tests {
		s := newTestStream()
		feed(s, tc.seq)
		in := ReadInput(s)
		if in.Left != tc.left || in.Right != tc.right {
			t.Errorf("%q: left=%v right=%v", tc.seq, in.Left, in.Right)
		}
		if len(in.Pressed) != 0 || in.Escape {
			t.Errorf("%q leaked into key bytes: %q", tc.seq, in.Pressed)
		}
	}
}

func TestMouseReports(t *testing.T) {
	s := newTestStream()
	feed(s, "\x1b[<0;10;5M\x1b[<32;11;6M\x1b[<0;11;6m\x1b[<64;1;1M\x1b[<2;3;4M")
	in := ReadInput(s)

	want := []MouseEvent{
		{Action: MousePress, Button: 0, Col: 10, Row: 5},
		{Action: MouseDrag, Button: 0, Col: 11, Row: 6},
		{Action: MouseRelease, Button: 0, Col: 11, Row: 6},
		{Action: MousePress, Button: 2, Col: 3, Row: 4},
	}
	if len(in.Mouse) != len(want) {
		t.Fatalf("mouse events = %+v", in.Mouse)
	}
	for i := range want {
		if in.Mouse[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, in.Mouse[i], want[i])
		}
	}
	if len(in.Pressed) != 0 || in.Quit {
		t.Fatalf("mouse bytes leaked into keys: %q", in.Pressed)
	}
}

func TestMouseReportSplitAcrossReads(t *testing.T) {
	s := newTestStream()
	feed(s, "a\x1b[<0;1")
	in := ReadInput(s)
	if len(in.Mouse) != 0 || string(in.Pressed) != "a" {
		t.Fatalf("partial read = %+v", in)
	}

	feed(s, "2;3M")
	in = ReadInput(s)
	if len(in.Mouse) != 1 || in.Mouse[0].Col != 12 || in.Mouse[0].Row != 3 {
		t.Fatalf("joined read = %+v", in.Mouse)
	}
}

func TestTrailingEscapeWaitsForSequence(t *testing.T) {
	s := newTestStream()
	feed(s, "a\x1b")
	if in := ReadInput(s); string(in.Pressed) != "a" || in.Escape {
		t.Fatalf("first read = %+v", in)
	}
	feed(s, "[C")
	if in := ReadInput(s); !in.Right || len(in.Pressed) != 0 {
		t.Fatalf("second read = %+v", in)
	}
}

func TestLoneEscape(t *testing.T) {
	s := newTestStream()
	feed(s, "\x1b")
	if in := ReadInput(s); !in.Escape {
		t.Fatal("escape not detected")
	}
}

func TestStreamClosed(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))

	deadline := time.Now().Add(time.Second)
	var in Input
	quit := false
	for !in.Closed && time.Now().Before(deadline) {
		in = ReadInput(s)
		quit = quit || in.Tapped('q')
		time.Sleep(time.Millisecond)
	}
	if !in.Closed || !quit {
		t.Fatalf("closed=%v quit=%v", in.Closed, quit)
	}
	// Reading a closed stream must not block or spin
	if in := ReadInput(s); !in.Closed {
		t.Fatal("closed flag lost")
	}
}

func TestCloseReleasesBlockedReader(t *testing.T) {
	// More bytes than the channel buffers, and nobody drains them
	s := StartStream(bufio.NewReader(strings.NewReader(strings.Repeat("a", 1000))))
	time.Sleep(10 * time.Millisecond)

	s.Close()
	s.Close()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after Close")
	}
}
