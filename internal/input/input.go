// Package input decodes terminal key presses and SGR mouse reports from a
// raw byte stream.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// MouseAction classifies a mouse report.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseDrag
	MouseRelease
)

// MouseEvent is one decoded SGR mouse report. Col and Row are 1-based
// terminal coordinates.
type MouseEvent struct {
	Action MouseAction
	Button int // 0 left, 1 middle, 2 right
	Col    int
	Row    int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Space   bool
	Enter   bool
	Reset   bool
	Escape  bool
	Closed  bool         // The underlying reader is gone
	Pressed []byte       // Key bytes received this frame, escape sequences excluded
	Mouse   []MouseEvent // Mouse reports received this frame, in order
}

// Tapped reports whether key b arrived during this frame, as opposed to
// being held from an earlier one.
func (in Input) Tapped(b byte) bool {
	return bytes.IndexByte(in.Pressed, b) >= 0
}

// Active reports whether anything at all arrived this frame.
func (in Input) Active() bool {
	return len(in.Pressed) > 0 || len(in.Mouse) > 0
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	space  time.Time
	enter  time.Time
	reset  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Incomplete escape sequence carried to the next read
	closed  bool

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r fails or, once Close is called, at its next byte.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:      make(chan byte, 256),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(s.stopped)
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Close stops delivering bytes. A reader goroutine blocked on a full buffer
// exits immediately; one blocked in ReadByte exits after its read returns.
func (s *Stream) Close() {
	if s.done == nil {
		return
	}
	s.closeOnce.Do(func() { close(s.done) })
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles arrow keys and SGR mouse sequences and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var in Input
	in.Closed = s.closed

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, complete := parseCSI(buf[i:], &s.state, &in, now)
			if !complete && !s.closed {
				// Wait for the rest of the sequence
				s.pending = append(s.pending, buf[i:]...)
				break
			}
			if n > 0 {
				i += n - 1
				continue
			}
		}
		if b == '\x1b' && i+1 == len(buf) && i > 0 && !s.closed {
			// A trailing ESC after other bytes may begin a sequence split across reads
			s.pending = append(s.pending, b)
			break
		}

		in.Pressed = append(in.Pressed, b)
		applyByteToState(&s.state, b, now)
	}

	// Keys are "pressed" if seen within hold duration
	in.Quit = now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Space = now.Sub(s.state.space) < keyHoldDuration
	in.Enter = now.Sub(s.state.enter) < keyHoldDuration
	in.Reset = now.Sub(s.state.reset) < keyHoldDuration
	in.Escape = now.Sub(s.state.escape) < keyHoldDuration
	return in
}

// ResetKeyInput forgets every held key, e.g. when switching screens so a
// held SPACE does not carry over.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// parseCSI decodes an ESC [ sequence at the start of seq. It returns the
// number of bytes consumed (0 when the sequence is not recognized) and
// whether the sequence was complete.
func parseCSI(seq []byte, state *keyState, in *Input, now time.Time) (int, bool) {
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'C': // Right arrow
		state.right = now
		return 3, true
	case 'D': // Left arrow
		state.left = now
		return 3, true
	case 'A', 'B': // Up/down arrows are not bound
		return 3, true
	case '<':
		end := bytes.IndexAny(seq, "Mm")
		if end < 0 {
			return 0, false
		}
		if ev, ok := parseSGRMouse(seq[3:end], seq[end]); ok {
			in.Mouse = append(in.Mouse, ev)
		}
		return end + 1, true
	}
	return 0, true
}

// parseSGRMouse decodes the "b;x;y" body of an SGR mouse report.
func parseSGRMouse(body []byte, final byte) (MouseEvent, bool) {
	parts := bytes.Split(body, []byte{';'})
	if len(parts) != 3 {
		return MouseEvent{}, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(string(p))
		if err != nil {
			return MouseEvent{}, false
		}
		nums[i] = n
	}

	code := nums[0]
	if code&64 != 0 {
		return MouseEvent{}, false // Wheel
	}

	ev := MouseEvent{
		Button: code & 3,
		Col:    nums[1],
		Row:    nums[2],
	}
	switch {
	case final == 'm':
		ev.Action = MouseRelease
	case code&32 != 0:
		ev.Action = MouseDrag
	default:
		ev.Action = MousePress
	}
	return ev, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'r', 'R':
		state.reset = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	}
}
