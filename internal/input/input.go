package input

import (
	"bufio"
	"bytes"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// PointerKind says what a mouse report means for the game.
type PointerKind uint8

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
)

// PointerEvent is a mouse report in 1-based terminal cells.
type PointerEvent struct {
	Kind PointerKind
	Col  int
	Row  int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Closed  bool // the underlying reader ended
	Pressed []byte

	// Edges seen this frame.
	FireToggle bool // 'f' or space
	Hitboxes   bool // 'h'
	Pointer    []PointerEvent
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete escape sequence carried to the next read
	closed  bool
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 512)}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ResetKeyInput forgets held keys and discards buffered bytes, so a key
// used to leave a screen does not leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
	s.pending = s.pending[:0]
	for !s.closed {
		select {
		case _, ok := <-s.ch:
			if !ok {
				s.closed = true
			}
		default:
			return
		}
	}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports and
// accumulates all pressed keys. Uses key state persistence to allow
// detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	return readInput(s, time.Now())
}

func readInput(s *Stream, now time.Time) Input {
	buf := append([]byte(nil), s.pending...)
	s.pending = s.pending[:0]

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
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, ok := parseCSI(buf[i:], s, &in, now)
			if !ok {
				// Incomplete; retry once the rest arrives.
				s.pending = append(s.pending, buf[i:]...)
				buf = buf[:i]
				break
			}
			if n > 0 {
				i += n - 1
				continue
			}
		}

		applyByteToState(&s.state, b, now)
		switch b {
		case 'f', 'F', ' ':
			in.FireToggle = true
		case 'h', 'H':
			in.Hitboxes = true
		}
	}

	in.Quit = now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Space = now.Sub(s.state.space) < keyHoldDuration
	in.Enter = now.Sub(s.state.enter) < keyHoldDuration
	in.Escape = now.Sub(s.state.escape) < keyHoldDuration
	in.Closed = s.closed
	in.Pressed = buf
	return in
}

// parseCSI consumes the CSI sequence at the start of seq. It returns the
// number of bytes used, 0 when the sequence is not one we handle, and
// ok=false when seq ends before the sequence does.
func parseCSI(seq []byte, s *Stream, in *Input, now time.Time) (n int, ok bool) {
	if len(seq) < 3 {
		return 0, false
	}
	switch seq[2] {
	case 'A':
		s.state.up = now
		return 3, true
	case 'B':
		s.state.down = now
		return 3, true
	case 'C':
		s.state.right = now
		return 3, true
	case 'D':
		s.state.left = now
		return 3, true
	case '<':
		end := bytes.IndexAny(seq[3:], "Mm")
		if end < 0 {
			if len(seq) > 32 {
				return len(seq), true // garbage, drop it
			}
			return 0, false
		}
		end += 3
		if ev, ok := parseMouse(seq[3:end], seq[end]); ok {
			in.Pointer = append(in.Pointer, ev)
		}
		return end + 1, true
	}
	return 0, true
}

// parseMouse decodes the "b;x;y" body of an SGR mouse report. Wheel and
// non-left buttons only move the pointer.
func parseMouse(body []byte, final byte) (PointerEvent, bool) {
	parts := bytes.Split(body, []byte{';'})
	if len(parts) != 3 {
		return PointerEvent{}, false
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(string(p))
		if err != nil {
			return PointerEvent{}, false
		}
		vals[i] = v
	}
	button, col, row := vals[0], vals[1], vals[2]
	ev := PointerEvent{Kind: PointerMove, Col: col, Row: row}
	switch {
	case button&64 != 0, button&32 != 0:
	case button&3 != 0:
	case final == 'M':
		ev.Kind = PointerDown
	case final == 'm':
		ev.Kind = PointerUp
	}
	return ev, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	}
}
