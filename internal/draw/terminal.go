package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Control sequences the hosts send around a session.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqMouseOn    = "\033[?1003h\033[?1006h" // any motion, SGR encoding
	seqMouseOff   = "\033[?1006l\033[?1003l"
)

// Viewport is the part of the terminal the game draws into: the window
// capped at a maximum render size and centered.
type Viewport struct {
	Width, Height        int
	OffsetCol, OffsetRow int // 0-based cells before the render area
}

// FitViewport caps a termWidth x termHeight window at maxWidth x maxHeight
// and centers what is left.
func FitViewport(termWidth, termHeight, maxWidth, maxHeight int) Viewport {
	w := max(min(termWidth, maxWidth), 0)
	h := max(min(termHeight, maxHeight), 0)
	return Viewport{
		Width:     w,
		Height:    h,
		OffsetCol: max(termWidth-w, 0) / 2,
		OffsetRow: max(termHeight-h, 0) / 2,
	}
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Viewport queries the terminal and fits the render area into it.
func (f TermSizeFunc) Viewport(maxWidth, maxHeight int) (Viewport, error) {
	w, h, err := f()
	if err != nil {
		return Viewport{}, err
	}
	return FitViewport(w, h, maxWidth, maxHeight), nil
}

// BeginSession hides the cursor, turns mouse reporting on and clears w.
func BeginSession(w io.Writer) error {
	_, err := io.WriteString(w, seqHideCursor+seqMouseOn+seqClear)
	return err
}

// EndSession restores what BeginSession changed and leaves a clear screen.
func EndSession(w io.Writer) error {
	_, err := io.WriteString(w, seqMouseOff+seqShowCursor+seqClear)
	return err
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) error {
	_, err := io.WriteString(w, seqClear)
	return err
}

// ChunkWriter accumulates a frame of terminal output and hands it to the
// underlying writer in packets no larger than maxChunkSize, which keeps
// SSH sessions responsive. Positions given to it are canvas-relative; the
// viewport offset is added on output.
type ChunkWriter struct {
	buf    strings.Builder
	out    *bufio.Writer
	view   Viewport
	numBuf [20]byte
}

// NewChunkWriter creates a ChunkWriter that writes to w inside view.
func NewChunkWriter(w io.Writer, view Viewport) *ChunkWriter {
	return &ChunkWriter{
		out:  bufio.NewWriterSize(w, maxChunkSize),
		view: view,
	}
}

// SetViewport moves subsequent output to view (e.g. after a resize).
func (cw *ChunkWriter) SetViewport(view Viewport) {
	cw.view = view
}

// MoveCursor appends a cursor position sequence for the 1-based canvas cell.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.view.OffsetRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.view.OffsetCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer for Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at the 1-based canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteColoredAt writes s in color starting at the 1-based canvas cell.
func (cw *ChunkWriter) WriteColoredAt(col, row int, s string, color Color) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(Fg(color))
	cw.buf.WriteString(s)
	cw.buf.WriteString(ColorReset)
}

// ClearScreen queues a full terminal clear.
func (cw *ChunkWriter) ClearScreen() {
	cw.buf.WriteString(seqClear)
}

// Len returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the buffered frame in pieces of at most maxChunkSize and
// resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}
