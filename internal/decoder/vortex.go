package decoder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// vortexStart is the line-start marker of a VORTEX supplementary table.
const vortexStart = "SUPPL"

// vortexMaxRows is the soft cap on buffered fix rows per message.
const vortexMaxRows = 10

// vortexTimePrefix opens the trailing line bracketing the table's rows with
// two GGgg clock times.
const vortexTimePrefix = "TIME"

// Fixed column offsets of one supplementary row:
// quadrant+lat+lon (7), level index (1), geopotential (4), TTTDD (5),
// ddfff (5), single spaces between.
var vortexRowCols = [5]struct{ start, width int }{
	{0, 7}, {8, 1}, {10, 4}, {15, 5}, {21, 5},
}

// decodeVortex buffers up to vortexMaxRows supplementary fix rows, which
// carry no timestamps of their own, then distributes the bracketing clock
// times of the trailing TIME line across them by ordinal position. Rows emit
// in table order. A terminator arriving before the TIME line ends the
// message without flushing buffered rows; the legacy decoder did the same
// and downstream counts are reconciled against that behavior.
func decodeVortex(cur *cursor, log *slog.Logger, missionDate int) ([]domain.SoundingRecord, error) {
	var rows []domain.SoundingRecord
	for {
		line, err := cur.wholeLine()
		if errors.Is(err, ErrEndOfStream) {
			log.Warn("vortex table ended without a TIME line; rows discarded", "rows", len(rows))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if isTerminator(fields[0]) {
			if len(rows) > 0 {
				log.Warn("vortex table ended without a TIME line; rows discarded", "rows", len(rows))
			}
			return nil, nil
		}
		if fields[0] == vortexTimePrefix {
			if len(fields) < 3 {
				return nil, formatErr(line, "short TIME line")
			}
			if err := interpolateVortexTimes(rows, fields[1], fields[2]); err != nil {
				return nil, err
			}
			return rows, nil
		}
		if len(rows) >= vortexMaxRows {
			return nil, fmt.Errorf("%w: %d vortex rows", ErrCapacity, vortexMaxRows)
		}
		rec, err := decodeVortexRow(line, missionDate)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

func vortexCol(line string, i int) string {
	c := vortexRowCols[i]
	if c.start >= len(line) {
		return ""
	}
	end := c.start + c.width
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[c.start:end])
}

func decodeVortexRow(line string, missionDate int) (domain.SoundingRecord, error) {
	rec := domain.NewRecord(domain.MessageVortex, domain.TagSupplVortex)
	rec.Date = missionDate

	pos := vortexCol(line, 0)
	if len(pos) != 7 {
		return rec, formatErr(line, "short position field")
	}
	var err error
	if rec.Lat, rec.Lon, err = reccoPosition(pos[:1], pos[1:4], pos[4:7]); err != nil {
		return rec, err
	}

	li := vortexCol(line, 1)
	if !isMissing(li) {
		idx, perr := parseDigits(li)
		if perr != nil {
			return rec, perr
		}
		if idx < 1 || idx > 7 {
			return rec, formatErr(li, "unknown level index")
		}
		rec.Pressure = reccoLevels[idx]
	}

	hRaw := vortexCol(line, 2)
	if !isMissing(hRaw) {
		n, perr := parseDigits(hRaw)
		if perr != nil {
			return rec, perr
		}
		rec.Height = float64(n)
	}

	var dew float64
	if rec.Temp, dew, err = decodeTempDew(vortexCol(line, 3)); err != nil {
		return rec, err
	}
	rec.RH = relativeHumidity(rec.Temp, dew)

	if rec.WindU, rec.WindV, err = decodeWind(vortexCol(line, 4), false); err != nil {
		return rec, err
	}
	return rec, nil
}

// interpolateVortexTimes assigns each row a time linearly interpolated by
// ordinal position between the two bracketing clock times, computed in
// minutes since midnight. A bracket crossing midnight extends past 1440
// before wrapping.
func interpolateVortexTimes(rows []domain.SoundingRecord, first, last string) error {
	t0, err := parseDigits(first)
	if err != nil {
		return err
	}
	t1, err := parseDigits(last)
	if err != nil {
		return err
	}
	m0 := t0/100*60 + t0%100
	m1 := t1/100*60 + t1%100
	if m1 < m0 {
		m1 += 24 * 60
	}
	for i := range rows {
		m := m0
		if len(rows) > 1 {
			m = m0 + (m1-m0)*i/(len(rows)-1)
		}
		m %= 24 * 60
		rows[i].Time = m/60*100 + m%60
	}
	return nil
}
