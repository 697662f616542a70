package domain

// Missing is the sole sentinel for absent physical values. Slash-filled
// groups in the raw bulletins decode to it and it survives into the output
// columns unchanged.
const Missing = -99.0

// SurfacePressureFlag marks a surface row in the pressure column; the actual
// surface pressure travels in the height column of that row.
const SurfacePressureFlag = 1070.0

// ShearPressureFlag is the pressure encoding of a WSHR summary record.
const ShearPressureFlag = 999.0

// Tag identifies the subtype of an emitted record. Tags are exactly four
// characters; downstream parsers slice them by fixed offset.
type Tag string

const (
	TagMandatory   Tag = "MANL"
	TagSignificant Tag = "SIGL"
	TagAdditional  Tag = "ADDL"
	TagRecco       Tag = "RECO"
	TagSupplVortex Tag = "SUPV"
	TagMaxWind     Tag = "MWND"
	TagTropopause  Tag = "TROP"
	TagDeepLayer   Tag = "DLMW"
	TagShear       Tag = "WSHR"
)

// MessageType names the bulletin family a record was decoded from.
type MessageType string

const (
	MessageTempDrop MessageType = "tempdrop"
	MessageRecco    MessageType = "recco"
	MessageVortex   MessageType = "vortex"
)

// SoundingRecord is one decoded observation level or synthesized summary.
// Latitude is degrees north (south negative); longitude keeps the format's
// own convention of west positive, east negative.
type SoundingRecord struct {
	Type     MessageType
	Date     int // YYYYMMDD
	Time     int // HHMM, possibly corrected by the reconciler
	Lat      float64
	Lon      float64
	Pressure float64 // hPa, or SurfacePressureFlag / ShearPressureFlag
	Temp     float64 // degC
	RH       float64 // percent, 0-100
	Height   float64 // geopotential meters; surface pressure on surface rows
	WindU    float64 // m/s
	WindV    float64 // m/s
	Tag      Tag
}

// NewRecord returns a record of the given type and tag with every physical
// field set to the missing sentinel.
func NewRecord(mt MessageType, tag Tag) SoundingRecord {
	return SoundingRecord{
		Type:     mt,
		Tag:      tag,
		Lat:      Missing,
		Lon:      Missing,
		Pressure: Missing,
		Temp:     Missing,
		RH:       Missing,
		Height:   Missing,
		WindU:    Missing,
		WindV:    Missing,
	}
}

// HasWind reports whether both wind components are present.
func (r SoundingRecord) HasWind() bool {
	return r.WindU != Missing && r.WindV != Missing
}

// IsSurface reports whether the record is a flagged surface row.
func (r SoundingRecord) IsSurface() bool {
	return r.Pressure == SurfacePressureFlag
}
