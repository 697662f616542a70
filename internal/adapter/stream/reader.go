// Package stream adapts plain text streams to the pipeline: a Reader frames
// raw bulletin messages from an io.Reader, a Writer serializes decoded
// records to an io.Writer. Transport beyond sequential streams is out of
// scope for this service.
package stream

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/couchcryptid/recon-obs-decoder/internal/decoder"
	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// terminators end a message; a fresh start sentinel also closes the message
// in progress, since garbled bulletins sometimes lose their terminator.
func isTerminatorLine(fields []string) bool {
	return len(fields) > 0 && (fields[0] == "NNNN" || fields[0] == "$$")
}

func isMessageStart(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	// XXBB continues the message in progress (part B of the same release);
	// every other recognized header opens a new one.
	if fields[0] == "XXBB" {
		return false
	}
	_, ok := decoder.MessageTypeOf(fields[0])
	return ok
}

// Reader frames bulletins from a line stream. It implements
// pipeline.Extractor; exhaustion is io.EOF.
type Reader struct {
	scanner *bufio.Scanner
	held    string
	hasHeld bool
	ordinal int
}

// NewReader frames bulletins from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

func (r *Reader) nextLine() (string, bool) {
	if r.hasHeld {
		r.hasHeld = false
		return r.held, true
	}
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

// Extract returns the next framed message: the lines from a non-blank start
// through its terminator, inclusive. Blank padding lines between messages
// are dropped.
func (r *Reader) Extract(_ context.Context) (domain.Bulletin, error) {
	var lines []string
	for {
		line, ok := r.nextLine()
		if !ok {
			if err := r.scanner.Err(); err != nil {
				return domain.Bulletin{}, err
			}
			if len(lines) == 0 {
				return domain.Bulletin{}, io.EOF
			}
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(lines) > 0 && isMessageStart(fields) {
			r.held, r.hasHeld = line, true
			break
		}
		lines = append(lines, line)
		if isTerminatorLine(fields) {
			break
		}
	}
	r.ordinal++
	return domain.Bulletin{Lines: lines, Ordinal: r.ordinal}, nil
}
