// Package domain models decoded reconnaissance-aircraft sounding records.
//
// # Data sources
//
// Records originate from three legacy fixed-column bulletin families
// transmitted by hurricane reconnaissance aircraft:
//
//	TEMPDROP - airborne dropsonde soundings (WMO TEMP-style code groups)
//	RECCO    - low-level flight observations
//	SUPPL    - in-storm VORTEX supplementary fix tables
//
// # Encoding conventions
//
// Sign convention:
//
//	Latitude is degrees north; south is negative.
//	Longitude follows the format's own convention: west positive, EAST
//	NEGATIVE. Downstream consumers expect this, so it is preserved verbatim.
//
// Missing data:
//
//	Every physical field uses the single sentinel -99.0. Slash-filled
//	groups in the raw bulletins ("///", "/////") decode to the sentinel;
//	no field mixes partial and sentinel encoding.
//
// Surface levels:
//
//	A surface observation is flagged with 1070.0 in the pressure column and
//	carries the decoded surface pressure (hPa) in the geopotential-height
//	column. This lets the downstream spline analysis find the surface row
//	without a separate flag column.
//
// Time format:
//
//	HHMM in 24-hour notation as an integer, e.g. 1510 = 15:10 UTC. The date
//	is YYYYMMDD; bulletins carry only a day-of-month, so the year and month
//	attach from the mission date (see MissionDate).
//
// # Subtype tags
//
// Each emitted record carries a four-character subtype tag parsed by fixed
// offset downstream:
//
//	MANL - mandatory standard-pressure level
//	SIGL - significant temperature or wind level
//	ADDL - additional/extrapolated level (51515 block)
//	RECO - RECCO flight-level observation
//	SUPV - VORTEX supplementary fix row
//	MWND - maximum-wind level (77/66 group)
//	TROP - tropopause level (88 group)
//	DLMW - deep-layer-mean wind derived from a remark
//	WSHR - synthesized 200-850 hPa wind-shear summary
package domain
