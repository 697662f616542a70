// Package decoder turns legacy fixed-column reconnaissance bulletins
// (TEMPDROP, RECCO, VORTEX supplementary) into normalized sounding records.
//
// A Decoder is stateless across messages: every Decode call builds its own
// cursor, buffer, and counters, so one instance may decode any number of
// messages sequentially. Dropsonde levels are reconciled (splash override,
// time correction, pressure sort, shear synthesis) before they are returned;
// RECCO and VORTEX records return in immediate order.
package decoder

import (
	"log/slog"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// Decoder dispatches framed bulletin messages to the per-format decode
// routines.
type Decoder struct {
	logger      *slog.Logger
	missionDate int // YYYYMMDD override; zero defers to the clock
	maxLevels   int
}

// New creates a Decoder. missionDate (YYYYMMDD) supplies the year and month
// bulletins attach their day-of-month to; pass zero to default from the
// current date. maxLevels caps one release's buffer (zero for the default).
func New(logger *slog.Logger, missionDate, maxLevels int) *Decoder {
	return &Decoder{logger: logger, missionDate: missionDate, maxLevels: maxLevels}
}

// Decode decodes one framed message. A message unparsable past its header
// yields zero records and no error (silent skip); a FormatError mid-message
// aborts the decode but still returns whatever the reconciler flushed.
func (d *Decoder) Decode(lines []string) ([]domain.SoundingRecord, error) {
	cur := newCursor(&sliceSource{lines: lines})
	date := domain.MissionDate(d.missionDate)

	first, err := cur.group()
	if err != nil {
		return nil, nil
	}
	switch first {
	case "XXAA", "XXBB":
		td := newTempdropDecoder(cur, d.logger, date, d.maxLevels)
		return td.run(first)
	case reccoStartA, reccoStartB:
		return decodeRecco(cur, d.logger, date)
	case vortexStart:
		return decodeVortex(cur, d.logger, date)
	default:
		d.logger.Warn("unrecognized bulletin header, message skipped", "header", first)
		return nil, nil
	}
}

// MessageTypeOf reports the bulletin family a framed message would dispatch
// to, or false for an unrecognized header.
func MessageTypeOf(firstToken string) (domain.MessageType, bool) {
	switch firstToken {
	case "XXAA", "XXBB":
		return domain.MessageTempDrop, true
	case reccoStartA, reccoStartB:
		return domain.MessageRecco, true
	case vortexStart:
		return domain.MessageVortex, true
	}
	return "", false
}
