package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// Writer serializes decoded records as fixed-column HSA lines. It implements
// pipeline.Loader.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a record writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Load appends one line per record. A record line is written only once fully
// decoded; there is no partial-record output.
func (w *Writer) Load(_ context.Context, records []domain.SoundingRecord) error {
	for _, r := range records {
		if _, err := w.w.WriteString(domain.FormatHSA(r)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
