package input

import (
	"testing"
	"time"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestReadInputKeys(t *testing.T) {
	now := time.Unix(100, 0)
	s := newStream()
	feed(s, "a\x1b[Bq")

	in := readInput(s, now)
	if !in.Left || !in.Down || !in.Quit {
		t.Fatalf("keys not held: %+v", in)
	}
	if in.Right || in.Up || in.Escape {
		t.Fatalf("unexpected keys held: %+v", in)
	}

	later := readInput(s, now.Add(keyHoldDuration))
	if later.Left || later.Down {
		t.Fatal("keys still held after the hold duration")
	}
}

func TestReadInputEdges(t *testing.T) {
	s := newStream()
	feed(s, "fh")
	in := readInput(s, time.Unix(1, 0))
	if !in.FireToggle || !in.Hitboxes {
		t.Fatalf("edges missing: %+v", in)
	}
	in = readInput(s, time.Unix(1, 0))
	if in.FireToggle || in.Hitboxes {
		t.Fatal("edges repeated without new bytes")
	}
}

func TestReadInputMouse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want PointerEvent
	}{
		{"press", "\x1b[<0;12;7M", PointerEvent{Kind: PointerDown, Col: 12, Row: 7}},
		{"release", "\x1b[<0;12;7m", PointerEvent{Kind: PointerUp, Col: 12, Row: 7}},
		{"motion", "\x1b[<35;40;2M", PointerEvent{Kind: PointerMove, Col: 40, Row: 2}},
		{"drag", "\x1b[<32;3;4M", PointerEvent{Kind: PointerMove, Col: 3, Row: 4}},
		{"right button", "\x1b[<2;5;5M", PointerEvent{Kind: PointerMove, Col: 5, Row: 5}},
		{"wheel", "\x1b[<64;9;9M", PointerEvent{Kind: PointerMove, Col: 9, Row: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream()
			feed(s, tt.data)
			in := readInput(s, time.Unix(1, 0))
			if len(in.Pointer) != 1 || in.Pointer[0] != tt.want {
				t.Fatalf("Pointer = %+v, want [%+v]", in.Pointer, tt.want)
			}
			if in.Escape {
				t.Fatal("mouse report read as escape key")
			}
		})
	}
}

func TestReadInputSplitMouseReport(t *testing.T) {
	s := newStream()
	feed(s, "\x1b[<0;1")
	if in := readInput(s, time.Unix(1, 0)); len(in.Pointer) != 0 {
		t.Fatalf("partial report produced events: %+v", in.Pointer)
	}
	feed(s, "0;20M")
	in := readInput(s, time.Unix(1, 0))
	want := PointerEvent{Kind: PointerDown, Col: 10, Row: 20}
	if len(in.Pointer) != 1 || in.Pointer[0] != want {
		t.Fatalf("Pointer = %+v, want [%+v]", in.Pointer, want)
	}
}

func TestReadInputClosed(t *testing.T) {
	s := newStream()
	feed(s, "q")
	close(s.ch)
	in := readInput(s, time.Unix(1, 0))
	if !in.Closed || !in.Quit {
		t.Fatalf("Closed=%v Quit=%v", in.Closed, in.Quit)
	}
	if in = readInput(s, time.Unix(1, 0)); !in.Closed {
		t.Fatal("Closed not sticky")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newStream()
	feed(s, "a")
	readInput(s, time.Unix(1, 0))
	feed(s, "d")

	ResetKeyInput(s)
	in := readInput(s, time.Unix(1, 0))
	if in.Left || in.Right || len(in.Pressed) != 0 {
		t.Fatalf("input survived reset: %+v", in)
	}
}
