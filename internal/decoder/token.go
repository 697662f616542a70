package decoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// knotsToMS converts knots to meters per second.
const knotsToMS = 0.51444

// isMissing reports whether a raw slot matches the all-missing pattern:
// empty, or composed entirely of slashes.
func isMissing(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r != '/' {
			return false
		}
	}
	return true
}

// parseDigits converts a fixed-width digit run, rejecting anything that is
// neither numeric nor the missing pattern.
func parseDigits(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, formatErr(s, "expected digits")
	}
	return n, nil
}

// decodePressure3 decodes a three-digit whole-hPa pressure group. Values
// below 100 carry an implicit leading 10 (004 -> 1004 hPa).
func decodePressure3(s string) (float64, error) {
	if isMissing(s) {
		return domain.Missing, nil
	}
	n, err := parseDigits(s)
	if err != nil {
		return domain.Missing, err
	}
	if n < 100 {
		n += 1000
	}
	return float64(n), nil
}

// decodeHeight applies the level-dependent geopotential disambiguation to a
// three-digit height group. The same rules validate the output downstream,
// so they must not drift.
func decodeHeight(levelhPa int, raw string, sfcPres float64) (float64, error) {
	if isMissing(raw) {
		return domain.Missing, nil
	}
	n, err := parseDigits(raw)
	if err != nil {
		return domain.Missing, err
	}
	h := float64(n)
	lowSurface := sfcPres != domain.Missing && sfcPres <= 950
	switch {
	case levelhPa == 1000:
		// Below-sea-level heights fold as 500 + depth.
		if h > 500 {
			h = -(h - 500)
		}
	case levelhPa == 925:
		// With the surface at or below 925 hPa the level can sit below sea
		// level; the raw group is offset by 500.
		if sfcPres != domain.Missing && sfcPres <= 925 {
			h -= 500
		}
	case levelhPa == 850:
		h += 1000
		if lowSurface && h > 1500 {
			h -= 1000
		}
	case levelhPa == 700:
		if lowSurface || h >= 500 {
			h += 2000
		} else {
			h += 3000
		}
	case levelhPa == 500 || levelhPa == 400:
		h *= 10
	case levelhPa <= 300:
		h *= 10
		if h < 4000 {
			h += 10000
		}
	}
	return h, nil
}

// decodePressureDirect decodes a three-digit pressure with no implicit
// leading digit; the tropopause group reads its pressure this way.
func decodePressureDirect(s string) (float64, error) {
	if isMissing(s) {
		return domain.Missing, nil
	}
	n, err := parseDigits(s)
	if err != nil {
		return domain.Missing, err
	}
	return float64(n), nil
}

// decodeTempDew decodes a TTTDD group: temperature in tenths of a degree
// with sign carried by the terminal digit's parity (odd means negative),
// followed by a two-digit dewpoint depression. Depression codes above 50
// encode whole degrees minus 50; the rest are tenths.
func decodeTempDew(g string) (temp, dew float64, err error) {
	temp, dew = domain.Missing, domain.Missing
	if len(g) < 3 {
		return temp, dew, nil
	}
	tRaw := g[:3]
	if !isMissing(tRaw) {
		n, perr := parseDigits(tRaw)
		if perr != nil {
			return temp, dew, perr
		}
		temp = float64(n) * 0.1
		if n%2 == 1 {
			temp = -temp
		}
	}
	if len(g) < 5 || temp == domain.Missing {
		return temp, dew, nil
	}
	dRaw := g[3:5]
	if isMissing(dRaw) {
		return temp, dew, nil
	}
	n, perr := parseDigits(dRaw)
	if perr != nil {
		return temp, dew, perr
	}
	var depression float64
	if n > 50 {
		depression = float64(n - 50)
	} else {
		depression = float64(n) * 0.1
	}
	dew = temp - depression
	return temp, dew, nil
}

// saturationVaporPressure is the Magnus-form es(T) in hPa for T in degC.
func saturationVaporPressure(t float64) float64 {
	return 6.112 * math.Exp(17.67*t/(t+243.5))
}

// relativeHumidity derives RH (percent) from temperature and dewpoint as the
// ratio of actual to saturation vapor pressure, clipped to 100.
func relativeHumidity(temp, dew float64) float64 {
	if temp == domain.Missing || dew == domain.Missing {
		return domain.Missing
	}
	rh := 100 * saturationVaporPressure(dew) / saturationVaporPressure(temp)
	if rh > 100 {
		rh = 100
	}
	return rh
}

// decodeWind decodes a ddfff group: direction in tens of degrees and a
// three-digit speed. Speeds of 500 or more fold back by 500 and add five
// degrees of direction. The knots flag applies the knots-to-m/s conversion;
// without it the speed passes through in the source unit.
func decodeWind(g string, knots bool) (u, v float64, err error) {
	u, v = domain.Missing, domain.Missing
	if len(g) < 5 {
		return u, v, nil
	}
	dRaw, sRaw := g[:2], g[2:5]
	if isMissing(dRaw) || isMissing(sRaw) {
		return u, v, nil
	}
	dd, perr := parseDigits(dRaw)
	if perr != nil {
		return u, v, perr
	}
	fff, perr := parseDigits(sRaw)
	if perr != nil {
		return u, v, perr
	}
	dir := float64(dd) * 10
	speed := float64(fff)
	if speed >= 500 {
		speed -= 500
		dir += 5
	}
	if knots {
		speed *= knotsToMS
	}
	u, v = windComponents(dir, speed)
	return u, v, nil
}

// windComponents maps a meteorological direction and speed to u/v via the
// meteorological-to-mathematical angle transform.
func windComponents(dirDeg, speed float64) (u, v float64) {
	ang := 270 - dirDeg
	for ang < 0 {
		ang += 360
	}
	for ang >= 360 {
		ang -= 360
	}
	rad := ang * math.Pi / 180
	return speed * math.Cos(rad), speed * math.Sin(rad)
}

// baroPressure is the barometric-formula pressure (hPa) at a true altitude
// in meters, referenced to the standard atmosphere.
func baroPressure(heightM float64) float64 {
	return 1013.25 * math.Pow(1-2.25577e-5*heightM, 5.25588)
}

// splashCoordinate parses a remark coordinate token such as "2530N" or
// "07430W": hundredths of degrees with a hemisphere letter. The neg set
// names the hemispheres that flip the sign (south for latitude, east for
// longitude per the format's convention). A malformed token is missing, not
// an error.
func splashCoordinate(tok string, neg string) float64 {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if tok == "" {
		return domain.Missing
	}
	sign := 1.0
	digits := strings.Builder{}
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case strings.ContainsRune(neg, r):
			sign = -1.0
		case strings.ContainsRune("NSEW", r):
			// hemisphere letter that keeps the positive sign
		default:
			return domain.Missing
		}
	}
	if digits.Len() == 0 {
		return domain.Missing
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return domain.Missing
	}
	return sign * float64(n) / 100
}
