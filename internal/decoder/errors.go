package decoder

import (
	"errors"
	"fmt"
)

// ErrEndOfStream signals normal exhaustion of the input. It is the
// flush-and-stop path, not a failure: callers flush buffered levels and
// return what was decoded.
var ErrEndOfStream = errors.New("end of stream")

// ErrCapacity reports a level buffer growing past its soft cap. The message
// is abandoned like any other malformed bulletin rather than silently
// truncated.
var ErrCapacity = errors.New("level buffer over capacity")

// FormatError reports a field that failed its expected numeric pattern.
// The surrounding message's decode is aborted and whatever was buffered is
// flushed; the error never aborts the stream.
type FormatError struct {
	Group  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed group %q: %s", e.Group, e.Reason)
}

func formatErr(group, reason string) error {
	return &FormatError{Group: group, Reason: reason}
}
