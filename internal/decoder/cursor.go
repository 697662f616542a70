package decoder

import (
	"errors"
	"io"
	"strings"
)

// LineSource supplies raw bulletin lines. Exhaustion is reported as io.EOF.
type LineSource interface {
	Next() (string, error)
}

// wrapLookahead is the number of columns inspected past the cursor after an
// advance. A blank window means the remaining fields wrapped onto the next
// physical line; the format carries no continuation marker.
const wrapLookahead = 4

// cursor walks fixed-width fields across a line stream. Advancing past the
// useful end of a line fetches the next non-blank line and resets to column
// zero, so a logical record may span several physical lines.
type cursor struct {
	src    LineSource
	line   string
	col    int
	loaded bool
}

func newCursor(src LineSource) *cursor {
	return &cursor{src: src}
}

// nextLine loads the next line that is not entirely blank.
func (c *cursor) nextLine() error {
	for {
		line, err := c.src.Next()
		if err != nil {
			c.loaded = false
			if errors.Is(err, io.EOF) {
				return ErrEndOfStream
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.line = line
		c.col = 0
		c.loaded = true
		return nil
	}
}

func (c *cursor) ensure() error {
	if !c.loaded {
		return c.nextLine()
	}
	return nil
}

// advance moves the cursor by width columns. When the lookahead window past
// the new position is blank or beyond the line end, the cursor wraps to the
// start of the next line.
func (c *cursor) advance(width int) error {
	c.col += width
	end := c.col + wrapLookahead
	if end > len(c.line) {
		end = len(c.line)
	}
	if c.col >= len(c.line) || strings.TrimSpace(c.line[c.col:end]) == "" {
		return c.nextLine()
	}
	return nil
}

// field returns width columns at the cursor, trimmed, then advances past the
// field and its single separator column. Exhaustion during the advance is
// deferred to the next read so the final field of a stream is not lost.
func (c *cursor) field(width int) (string, error) {
	if err := c.ensure(); err != nil {
		return "", err
	}
	end := c.col + width
	if end > len(c.line) {
		end = len(c.line)
	}
	var s string
	if c.col < len(c.line) {
		s = c.line[c.col:end]
	}
	// A token shorter than the window (the 4-character part markers) ends at
	// its separator; advancing the full window would shift every following
	// field by one column. A fully blank window keeps the fixed advance so
	// empty slots hold their place.
	adv := width + 1
	if i := strings.IndexByte(s, ' '); i > 0 {
		adv = i + 1
	}
	if err := c.advance(adv); err != nil && !errors.Is(err, ErrEndOfStream) {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// group returns the next five-character code group.
func (c *cursor) group() (string, error) {
	return c.field(5)
}

// skip advances the cursor by n columns without reading.
func (c *cursor) skip(n int) error {
	if err := c.ensure(); err != nil {
		return err
	}
	if err := c.advance(n); err != nil && !errors.Is(err, ErrEndOfStream) {
		return err
	}
	return nil
}

// rest returns the remainder of the current line and invalidates it, so the
// next read starts on a fresh line.
func (c *cursor) rest() string {
	if !c.loaded || c.col >= len(c.line) {
		return ""
	}
	s := c.line[c.col:]
	c.loaded = false
	return s
}

// wholeLine returns the current line in full when nothing of it has been
// consumed, otherwise the next non-blank line. The returned line is spent.
func (c *cursor) wholeLine() (string, error) {
	if !c.loaded || c.col > 0 {
		if err := c.nextLine(); err != nil {
			return "", err
		}
	}
	s := c.line
	c.loaded = false
	return s, nil
}

// sliceSource adapts a framed message (a slice of lines) to a LineSource.
type sliceSource struct {
	lines []string
	i     int
}

func (s *sliceSource) Next() (string, error) {
	if s.i >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.i]
	s.i++
	return line, nil
}
