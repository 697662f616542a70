package decoder

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// reccoStartA and reccoStartB are the two line-start sentinels identifying a
// RECCO observation.
const (
	reccoStartA = "97779"
	reccoStartB = "95559"
)

// reccoLevels maps the one-digit pressure index 1-7 to standard levels.
var reccoLevels = [8]float64{0, 1000, 925, 850, 700, 500, 400, 300}

// dewpointFallbackPrefix opens the plain-text line consulted when the
// dewpoint slot is blank or slash-filled. Anything that does not match
// decodes as missing, never as an error.
const dewpointFallbackPrefix = "DEWPT "

// decodeRecco reads the fields of one RECCO report through the cursor, so a
// report wrapped across physical lines decodes the same as a one-line
// report. Field order: GGgg time, quadrant digit, latitude and longitude in
// tenths, pressure index, four-digit altitude, TTT temperature, DD dewpoint
// depression, ddfff wind. The record emits immediately.
func decodeRecco(cur *cursor, log *slog.Logger, missionDate int) ([]domain.SoundingRecord, error) {
	rec := domain.NewRecord(domain.MessageRecco, domain.TagRecco)
	rec.Date = missionDate

	g, err := cur.field(4)
	if err != nil {
		return nil, err
	}
	hhmm, err := parseDigits(g)
	if err != nil {
		return nil, err
	}
	rec.Time = hhmm

	quad, err := cur.field(1)
	if err != nil {
		return nil, err
	}
	latRaw, err := cur.field(3)
	if err != nil {
		return nil, err
	}
	lonRaw, err := cur.field(3)
	if err != nil {
		return nil, err
	}
	if rec.Lat, rec.Lon, err = reccoPosition(quad, latRaw, lonRaw); err != nil {
		return nil, err
	}

	pi, err := cur.field(1)
	if err != nil {
		return nil, err
	}
	alt, err := cur.field(4)
	if err != nil {
		return nil, err
	}
	if rec.Pressure, rec.Height, err = reccoPressure(pi, alt); err != nil {
		return nil, err
	}

	tRaw, err := cur.field(3)
	if err != nil {
		return nil, err
	}
	dRaw, err := cur.field(2)
	if err != nil {
		return nil, err
	}
	var dew float64
	rec.Temp, dew, err = decodeTempDew(tRaw + dRaw)
	if err != nil {
		return nil, err
	}
	wantFallback := isMissing(dRaw) && rec.Temp != domain.Missing

	wRaw, err := cur.field(5)
	if err != nil {
		return nil, err
	}
	// RECCO has no day field, so the knots flag never applies here.
	if rec.WindU, rec.WindV, err = decodeWind(wRaw, false); err != nil {
		return nil, err
	}

	if wantFallback {
		dew = fallbackDewpoint(cur, log)
	}
	rec.RH = relativeHumidity(rec.Temp, dew)

	return []domain.SoundingRecord{rec}, nil
}

// reccoPosition applies the quadrant fold: digits 0-3 are north, 5-8 south;
// within each hemisphere 0/5 and 1/6 are west (positive), 2/7 and 3/8 east
// (negative); the odd offsets add the 100-degree longitude fold.
func reccoPosition(quad, latRaw, lonRaw string) (lat, lon float64, err error) {
	lat, lon = domain.Missing, domain.Missing
	if isMissing(quad) || isMissing(latRaw) || isMissing(lonRaw) {
		return lat, lon, nil
	}
	q, err := parseDigits(quad)
	if err != nil {
		return lat, lon, err
	}
	latN, err := parseDigits(latRaw)
	if err != nil {
		return lat, lon, err
	}
	lonN, err := parseDigits(lonRaw)
	if err != nil {
		return lat, lon, err
	}
	south := q >= 5
	o := q % 5
	if o > 3 {
		return lat, lon, formatErr(quad, "unknown quadrant")
	}
	lat = float64(latN) / 10
	if south {
		lat = -lat
	}
	lon = float64(lonN) / 10
	if o == 1 || o == 3 {
		lon += 100
	}
	if o >= 2 {
		lon = -lon
	}
	return lat, lon, nil
}

// reccoPressure resolves the pressure-index modes: 1-7 pick a standard
// level with the altitude group as its height; 8 treats the altitude as true
// altitude and derives pressure from the barometric formula; 9 is the
// D-value mode (parity-signed D-value decameters in the first digit,
// pressure altitude in decameters in the rest).
func reccoPressure(pi, alt string) (pressure, height float64, err error) {
	pressure, height = domain.Missing, domain.Missing
	if isMissing(pi) || isMissing(alt) {
		return pressure, height, nil
	}
	idx, err := parseDigits(pi)
	if err != nil {
		return pressure, height, err
	}
	n, err := parseDigits(alt)
	if err != nil {
		return pressure, height, err
	}
	switch {
	case idx >= 1 && idx <= 7:
		pressure = reccoLevels[idx]
		height = float64(n)
	case idx == 8:
		height = float64(n)
		pressure = baroPressure(height)
	case idx == 9:
		d := n / 1000
		dvalue := float64(d) * 10
		if d >= 5 {
			dvalue = -float64(d-5) * 10
		}
		palt := float64(n%1000) * 10
		pressure = baroPressure(palt)
		height = palt + dvalue
	default:
		return pressure, height, formatErr(pi, "unknown pressure index")
	}
	return pressure, height, nil
}

// fallbackDewpoint parses the plain-text dewpoint line that follows a report
// whose dewpoint slot was left blank. A mismatching line yields missing.
func fallbackDewpoint(cur *cursor, log *slog.Logger) float64 {
	line, err := cur.wholeLine()
	if errors.Is(err, ErrEndOfStream) {
		return domain.Missing
	}
	if err != nil {
		return domain.Missing
	}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, dewpointFallbackPrefix) {
		log.Warn("dewpoint fallback line not recognized", "line", trimmed)
		return domain.Missing
	}
	v, perr := strconv.ParseFloat(strings.TrimSpace(trimmed[len(dewpointFallbackPrefix):]), 64)
	if perr != nil {
		return domain.Missing
	}
	return v
}
