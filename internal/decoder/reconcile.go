package decoder

import (
	"fmt"
	"sort"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// DefaultMaxLevels is the soft cap on buffered levels for one release.
const DefaultMaxLevels = 200

// releaseBuffer collects the decoded levels of one dropsonde release and
// owns the post-hoc corrections applied at flush. One buffer exists per
// message; it is never shared across decode invocations.
type releaseBuffer struct {
	maxLevels int
	levels    []domain.SoundingRecord

	// release metadata recovered during decode
	correctedTime int // HHMM from the 31313 group, -1 when absent
	nominalHour   int // hour from the bulletin header
	splashLat     float64
	splashLon     float64
}

func newReleaseBuffer(maxLevels int) *releaseBuffer {
	if maxLevels <= 0 {
		maxLevels = DefaultMaxLevels
	}
	return &releaseBuffer{
		maxLevels:     maxLevels,
		correctedTime: -1,
		splashLat:     domain.Missing,
		splashLon:     domain.Missing,
	}
}

func (b *releaseBuffer) add(r domain.SoundingRecord) error {
	if len(b.levels) >= b.maxLevels {
		return fmt.Errorf("%w: %d levels", ErrCapacity, b.maxLevels)
	}
	b.levels = append(b.levels, r)
	return nil
}

func (b *releaseBuffer) setSplash(lat, lon float64) {
	b.splashLat, b.splashLon = lat, lon
}

func (b *releaseBuffer) setCorrectedTime(hhmm, nominalHour int) {
	b.correctedTime = hhmm
	b.nominalHour = nominalHour
}

// flush applies the splash-location override, the corrected release time
// with its date rollback, the stable descending-pressure sort, and the shear
// synthesis, then returns the reconciled sequence. The buffer is spent
// afterwards.
func (b *releaseBuffer) flush() []domain.SoundingRecord {
	out := b.levels
	b.levels = nil

	if b.splashLat != domain.Missing && b.splashLon != domain.Missing {
		for i := range out {
			out[i].Lat = b.splashLat
			out[i].Lon = b.splashLon
		}
	}

	if b.correctedTime >= 0 && b.correctedTime < 2400 {
		// A nominal hour of 0 with a corrected time in the final hour of the
		// previous day means the release straddled midnight.
		rollback := b.nominalHour == 0 && b.correctedTime/100 == 23
		for i := range out {
			out[i].Time = b.correctedTime
			if rollback {
				out[i].Date = previousDay(out[i].Date)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pressure > out[j].Pressure
	})

	if shear, ok := synthesizeShear(out); ok {
		out = append(out, shear)
	}
	return out
}

// synthesizeShear builds the WSHR summary when levels at exactly 200 and
// 850 hPa both carry wind. Components are the 200 hPa wind minus the
// 850 hPa wind; thermodynamic fields stay missing.
func synthesizeShear(levels []domain.SoundingRecord) (domain.SoundingRecord, bool) {
	var upper, lower *domain.SoundingRecord
	for i := range levels {
		switch {
		case upper == nil && levels[i].Pressure == 200 && levels[i].HasWind():
			upper = &levels[i]
		case lower == nil && levels[i].Pressure == 850 && levels[i].HasWind():
			lower = &levels[i]
		}
	}
	if upper == nil || lower == nil {
		return domain.SoundingRecord{}, false
	}
	shear := domain.NewRecord(upper.Type, domain.TagShear)
	shear.Date = upper.Date
	shear.Time = upper.Time
	shear.Lat = upper.Lat
	shear.Lon = upper.Lon
	shear.Pressure = domain.ShearPressureFlag
	shear.WindU = upper.WindU - lower.WindU
	shear.WindV = upper.WindV - lower.WindV
	return shear, true
}

// daysInMonth uses a fixed 28-day February; the legacy decoder had no
// leap-year rule and downstream output is matched against it.
var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// previousDay steps a YYYYMMDD date back by one day with month and year
// rollover.
func previousDay(date int) int {
	year, month, day := date/10000, date/100%100, date%100
	day--
	if day < 1 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		day = daysInMonth[month]
	}
	return year*10000 + month*100 + day
}
