package domain

import "fmt"

// hsaFormat lays out one fixed-column output line. Column widths match what
// the downstream spline analysis parses by byte offset: date (YYMMDD, one
// decimal), HHMM, lat/lon at 7.3, pressure/temperature/humidity at 6.1,
// geopotential at 7.1, wind components at 6.1, then the 4-character tag.
const hsaFormat = "%7.1f %04d %7.3f %7.3f %6.1f %6.1f %6.1f %7.1f %6.1f %6.1f %4s"

// FormatHSA renders a record as one fixed-column text line, without a
// trailing newline. The output is byte-stable for identical inputs.
func FormatHSA(r SoundingRecord) string {
	return fmt.Sprintf(hsaFormat,
		float64(r.Date%1000000), // YYYYMMDD -> YYMMDD
		r.Time,
		r.Lat,
		r.Lon,
		r.Pressure,
		r.Temp,
		r.RH,
		r.Height,
		r.WindU,
		r.WindV,
		string(r.Tag),
	)
}
