package decoder

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// mandatoryLevels is the standard-pressure table in transmission order.
// Two-digit section headers are matched against it; a level whose header is
// absent is skipped (925 is skipped when 85 follows 00).
var mandatoryLevels = []struct {
	header   string
	pressure int
}{
	{"99", 0}, // surface, pressure from the group itself
	{"00", 1000},
	{"92", 925},
	{"85", 850},
	{"70", 700},
	{"50", 500},
	{"40", 400},
	{"30", 300},
	{"25", 250},
	{"20", 200},
	{"15", 150},
	{"10", 100},
}

// sigCounter tracks the running two-digit level counter of the significant
// blocks: 00 or 11 first, then 22 ... 99 and back to 11.
type sigCounter struct {
	started bool
	n       int
}

func (c *sigCounter) matches(hh string) bool {
	if len(hh) != 2 || hh[0] != hh[1] || hh[0] < '0' || hh[0] > '9' {
		return false
	}
	d := int(hh[0] - '0')
	if !c.started {
		if d == 0 || d == 1 {
			c.started = true
			c.n = d
			return true
		}
		return false
	}
	next := c.n + 1
	if next == 10 {
		next = 1
	}
	if d == next {
		c.n = next
		return true
	}
	return false
}

// tempdropDecoder runs the TEMPDROP section state machine for one message.
// All mutable state lives here, created per message and discarded at flush.
type tempdropDecoder struct {
	cur *cursor
	buf *releaseBuffer
	log *slog.Logger

	date     int // YYYYMMDD with the header's day-of-month applied
	timeHHMM int
	lat, lon float64
	knots    bool
	sfcPres  float64

	partB    bool
	tableIdx int

	pending    string
	hasPending bool
}

func newTempdropDecoder(cur *cursor, log *slog.Logger, missionDate, maxLevels int) *tempdropDecoder {
	return &tempdropDecoder{
		cur:     cur,
		buf:     newReleaseBuffer(maxLevels),
		log:     log,
		date:    missionDate,
		lat:     domain.Missing,
		lon:     domain.Missing,
		sfcPres: domain.Missing,
	}
}

func (t *tempdropDecoder) group() (string, error) {
	if t.hasPending {
		t.hasPending = false
		return t.pending, nil
	}
	return t.cur.group()
}

func (t *tempdropDecoder) push(g string) {
	t.pending = g
	t.hasPending = true
}

func isTerminator(g string) bool {
	return g == "NNNN" || g == "$$"
}

func isSectionMarker(g string) bool {
	switch g {
	case "21212", "31313", "51515", "62626", "XXAA", "XXBB":
		return true
	}
	return isTerminator(g)
}

// run decodes one TEMPDROP message whose part marker was already consumed.
// A FormatError aborts the message: whatever was buffered is still flushed
// and returned alongside the error.
func (t *tempdropDecoder) run(part string) ([]domain.SoundingRecord, error) {
	t.partB = part == "XXBB"
	if err := t.header(); err != nil {
		return t.finish(), err
	}
	for {
		g, err := t.group()
		if errors.Is(err, ErrEndOfStream) {
			return t.finish(), nil
		}
		if err != nil {
			return t.finish(), err
		}
		switch {
		case isTerminator(g):
			return t.finish(), nil
		case g == "XXAA" || g == "XXBB":
			t.partB = g == "XXBB"
			t.tableIdx = 0
			err = t.header()
		case g == "21212":
			err = t.significantWind()
		case g == "31313":
			err = t.timeGroup()
		case g == "51515":
			err = t.additional()
		case g == "62626":
			err = t.remarks()
			if err == nil {
				return t.finish(), nil
			}
		case len(g) == 5 && strings.HasPrefix(g, "88"):
			err = t.tropopause(g)
		case len(g) == 5 && (strings.HasPrefix(g, "77") || strings.HasPrefix(g, "66")):
			err = t.maxWind(g)
		default:
			if t.partB {
				err = t.significantTemp(g)
			} else {
				err = t.mandatory(g)
			}
		}
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				return t.finish(), nil
			}
			return t.finish(), err
		}
	}
}

func (t *tempdropDecoder) finish() []domain.SoundingRecord {
	return t.buf.flush()
}

// header parses `YYGGi 99LaLaLa QcLoLoLoLo`. A day field above 50 flags wind
// speeds in knots.
func (t *tempdropDecoder) header() error {
	g, err := t.group()
	if err != nil {
		return err
	}
	if len(g) < 4 {
		return formatErr(g, "short day/hour group")
	}
	day, err := parseDigits(g[:2])
	if err != nil {
		return err
	}
	hour, err := parseDigits(g[2:4])
	if err != nil {
		return err
	}
	if day > 50 {
		t.knots = true
		day -= 50
	}
	t.date = t.date/100*100 + day
	t.timeHHMM = hour * 100

	g, err = t.group()
	if err != nil {
		return err
	}
	if len(g) != 5 || !strings.HasPrefix(g, "99") {
		return formatErr(g, "expected 99LaLaLa latitude group")
	}
	latRaw, err := parseDigits(g[2:])
	if err != nil {
		return err
	}

	g, err = t.group()
	if err != nil {
		return err
	}
	if len(g) != 5 {
		return formatErr(g, "expected quadrant/longitude group")
	}
	quad := g[0]
	lonRaw, err := parseDigits(g[1:])
	if err != nil {
		return err
	}
	t.lat = float64(latRaw) / 10
	t.lon = float64(lonRaw) / 10
	// WMO quadrants: 1 NE, 3 SE, 5 SW, 7 NW. South flips latitude; east is
	// negative in this format's longitude convention.
	switch quad {
	case '1':
		t.lon = -t.lon
	case '3':
		t.lat, t.lon = -t.lat, -t.lon
	case '5':
		t.lat = -t.lat
	case '7':
		// north, west: both positive
	default:
		return formatErr(g, "unknown quadrant")
	}
	return nil
}

// newLevel seeds a record with the release position and time.
func (t *tempdropDecoder) newLevel(tag domain.Tag) domain.SoundingRecord {
	r := domain.NewRecord(domain.MessageTempDrop, tag)
	r.Date = t.date
	r.Time = t.timeHHMM
	r.Lat = t.lat
	r.Lon = t.lon
	return r
}

// mandatory decodes one standard-level group triple `HHhhh TTTDD ddfff`.
// Headers resolve against the remaining table tail so omitted levels are
// skipped; a header with no table entry is logged and dropped.
func (t *tempdropDecoder) mandatory(g string) error {
	if len(g) != 5 {
		t.log.Warn("skipping unrecognized group", "group", g)
		return nil
	}
	idx := -1
	for j := t.tableIdx; j < len(mandatoryLevels); j++ {
		if mandatoryLevels[j].header == g[:2] {
			idx = j
			break
		}
	}
	if idx < 0 {
		t.log.Warn("skipping unrecognized group", "group", g)
		return nil
	}
	t.tableIdx = idx + 1

	rec := t.newLevel(domain.TagMandatory)
	if mandatoryLevels[idx].pressure == 0 {
		// Surface: the group carries the surface pressure, which travels in
		// the height column under the 1070.0 pressure flag.
		p, err := decodePressure3(g[2:])
		if err != nil {
			return err
		}
		t.sfcPres = p
		rec.Pressure = domain.SurfacePressureFlag
		rec.Height = p
	} else {
		rec.Pressure = float64(mandatoryLevels[idx].pressure)
		h, err := decodeHeight(mandatoryLevels[idx].pressure, g[2:], t.sfcPres)
		if err != nil {
			return err
		}
		rec.Height = h
	}

	g2, err := t.group()
	if err != nil {
		return err
	}
	var dew float64
	rec.Temp, dew, err = decodeTempDew(g2)
	if err != nil {
		return err
	}
	rec.RH = relativeHumidity(rec.Temp, dew)

	g3, err := t.group()
	if err != nil {
		return err
	}
	rec.WindU, rec.WindV, err = decodeWind(g3, t.knots)
	if err != nil {
		return err
	}
	return t.buf.add(rec)
}

// tropopause decodes `88PPP TTTDD ddfff`; 88999 means no tropopause.
func (t *tempdropDecoder) tropopause(g string) error {
	if g == "88999" {
		return nil
	}
	rec := t.newLevel(domain.TagTropopause)
	p, err := decodePressureDirect(g[2:])
	if err != nil {
		return err
	}
	rec.Pressure = p

	g2, err := t.group()
	if err != nil {
		return err
	}
	var dew float64
	rec.Temp, dew, err = decodeTempDew(g2)
	if err != nil {
		return err
	}
	rec.RH = relativeHumidity(rec.Temp, dew)

	g3, err := t.group()
	if err != nil {
		return err
	}
	rec.WindU, rec.WindV, err = decodeWind(g3, t.knots)
	if err != nil {
		return err
	}
	return t.buf.add(rec)
}

// maxWind decodes `77PPP ddfff` (or 66); 77999/66999 means none reported.
func (t *tempdropDecoder) maxWind(g string) error {
	if g[2:] == "999" {
		return nil
	}
	rec := t.newLevel(domain.TagMaxWind)
	p, err := decodePressureDirect(g[2:])
	if err != nil {
		return err
	}
	rec.Pressure = p

	g2, err := t.group()
	if err != nil {
		return err
	}
	rec.WindU, rec.WindV, err = decodeWind(g2, t.knots)
	if err != nil {
		return err
	}
	return t.buf.add(rec)
}

// significantTemp consumes counter-led `nnPPP TTTDD` pairs of part B. The
// first group must open the counter sequence; otherwise it is dropped here
// rather than pushed back, so the main loop cannot spin on it.
func (t *tempdropDecoder) significantTemp(g string) error {
	var counter sigCounter
	first := true
	for {
		if len(g) != 5 || !counter.matches(g[:2]) {
			if first {
				t.log.Warn("skipping unrecognized group", "group", g)
				return nil
			}
			t.push(g)
			return nil
		}
		first = false
		rec := t.newLevel(domain.TagSignificant)
		p, err := decodePressure3(g[2:])
		if err != nil {
			return err
		}
		rec.Pressure = p

		g2, err := t.group()
		if err != nil {
			return err
		}
		var dew float64
		rec.Temp, dew, err = decodeTempDew(g2)
		if err != nil {
			return err
		}
		rec.RH = relativeHumidity(rec.Temp, dew)
		if err := t.buf.add(rec); err != nil {
			return err
		}

		g, err = t.group()
		if err != nil {
			return err
		}
	}
}

// significantWind consumes counter-led `nnPPP ddfff` pairs after 21212.
func (t *tempdropDecoder) significantWind() error {
	var counter sigCounter
	for {
		g, err := t.group()
		if err != nil {
			return err
		}
		if len(g) != 5 || isSectionMarker(g) || !counter.matches(g[:2]) {
			t.push(g)
			return nil
		}
		rec := t.newLevel(domain.TagSignificant)
		p, err := decodePressure3(g[2:])
		if err != nil {
			return err
		}
		rec.Pressure = p

		g2, err := t.group()
		if err != nil {
			return err
		}
		rec.WindU, rec.WindV, err = decodeWind(g2, t.knots)
		if err != nil {
			return err
		}
		if err := t.buf.add(rec); err != nil {
			return err
		}
	}
}

// timeGroup scans the 31313 section for the 8GGgg group carrying the actual
// release time; the reconciler applies it at flush.
func (t *tempdropDecoder) timeGroup() error {
	for scanned := 0; scanned < 4; scanned++ {
		g, err := t.group()
		if err != nil {
			return err
		}
		if isSectionMarker(g) {
			t.push(g)
			return nil
		}
		if len(g) == 5 && g[0] == '8' {
			hhmm, err := parseDigits(g[1:])
			if err != nil {
				return err
			}
			t.buf.setCorrectedTime(hhmm, t.timeHHMM/100)
			return nil
		}
	}
	return nil
}

// additional decodes the 51515 block: sub-marker 10190 introduces a
// geopotential-only `HHhhh` level; 10191 is the continuation variant, which
// skips 12 columns before resuming.
func (t *tempdropDecoder) additional() error {
	for {
		g, err := t.group()
		if err != nil {
			return err
		}
		switch g {
		case "10190":
			g2, err := t.group()
			if err != nil {
				return err
			}
			if err := t.additionalLevel(g2); err != nil {
				return err
			}
		case "10191":
			if err := t.cur.skip(12); err != nil {
				return err
			}
		default:
			t.push(g)
			return nil
		}
	}
}

func (t *tempdropDecoder) additionalLevel(g string) error {
	if len(g) != 5 {
		return formatErr(g, "short additional-level group")
	}
	for _, lvl := range mandatoryLevels {
		if lvl.header != g[:2] || lvl.pressure == 0 {
			continue
		}
		rec := t.newLevel(domain.TagAdditional)
		rec.Pressure = float64(lvl.pressure)
		h, err := decodeHeight(lvl.pressure, g[2:], t.sfcPres)
		if err != nil {
			return err
		}
		rec.Height = h
		return t.buf.add(rec)
	}
	t.log.Warn("skipping unrecognized additional level", "group", g)
	return nil
}

// remarks scans the 62626 block character stream, with line continuation,
// for the splash-location and deep-layer-mean wind tokens. The block runs to
// the terminator, so it always ends the message.
func (t *tempdropDecoder) remarks() error {
	var b strings.Builder
	b.WriteString(t.cur.rest())
	for {
		line, err := t.cur.wholeLine()
		if errors.Is(err, ErrEndOfStream) {
			break
		}
		if err != nil {
			return err
		}
		first := strings.Fields(line)
		if len(first) > 0 && isTerminator(first[0]) {
			break
		}
		b.WriteString(" ")
		b.WriteString(line)
	}
	t.scanRemarks(b.String())
	return nil
}

func (t *tempdropDecoder) scanRemarks(text string) {
	tokens := strings.Fields(strings.ToUpper(text))
	for i, tok := range tokens {
		switch tok {
		case "SPL", "SPG":
			if i+2 >= len(tokens) {
				continue
			}
			lat := splashCoordinate(tokens[i+1], "S")
			lon := splashCoordinate(tokens[i+2], "E")
			if lat != domain.Missing && lon != domain.Missing {
				t.buf.setSplash(lat, lon)
			}
		case "DLM":
			if i+2 >= len(tokens) || tokens[i+1] != "WND" {
				continue
			}
			u, v, err := decodeWind(tokens[i+2], t.knots)
			if err != nil || u == domain.Missing {
				t.log.Warn("unparsable deep-layer-mean wind remark", "token", tokens[i+2])
				continue
			}
			rec := t.newLevel(domain.TagDeepLayer)
			rec.WindU, rec.WindV = u, v
			if err := t.buf.add(rec); err != nil {
				t.log.Warn("deep-layer-mean wind dropped", "error", err)
			}
		}
	}
}
