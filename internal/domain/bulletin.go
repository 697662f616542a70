package domain

import "strings"

// Bulletin is one framed raw message: the lines between a message start and
// its terminator (inclusive), as read from the input stream.
type Bulletin struct {
	Lines   []string
	Ordinal int // 1-based position in the stream
}

// FirstToken returns the first whitespace-delimited token of the bulletin,
// which identifies its format family.
func (b Bulletin) FirstToken() string {
	for _, line := range b.Lines {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
