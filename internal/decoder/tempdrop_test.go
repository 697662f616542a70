package decoder

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, missionDate int, lines ...string) []domain.SoundingRecord {
	t.Helper()
	records, err := New(testLogger(), missionDate, 0).Decode(lines)
	require.NoError(t, err)
	return records
}

func TestTempdropMandatory(t *testing.T) {
	records := decode(t, 20240601,
		"XXAA 68231 99252 70537",
		"99985 25015 10010 00132 24020 08510",
		"85476 20018 07008",
		"NNNN",
	)
	require.Len(t, records, 3)

	sfc := records[0]
	assert.Equal(t, domain.TagMandatory, sfc.Tag)
	assert.True(t, sfc.IsSurface())
	assert.Equal(t, 985.0, sfc.Height, "surface pressure travels in the height column")
	assert.Equal(t, 20240618, sfc.Date)
	assert.Equal(t, 2300, sfc.Time)
	assert.Equal(t, 25.2, sfc.Lat)
	assert.Equal(t, 53.7, sfc.Lon)
	// Day field 68 flags knots: 10 kt at the surface.
	require.True(t, sfc.HasWind())
	assert.InDelta(t, 5.1444, math.Hypot(sfc.WindU, sfc.WindV), 1e-4)

	l1000 := records[1]
	assert.Equal(t, 1000.0, l1000.Pressure)
	assert.Equal(t, 132.0, l1000.Height)
	assert.InDelta(t, 24.0, l1000.Temp, 1e-9)

	// 925 was omitted from the table; 850 resolves against the tail.
	l850 := records[2]
	assert.Equal(t, 850.0, l850.Pressure)
	assert.Equal(t, 1476.0, l850.Height)
	assert.InDelta(t, 20.0, l850.Temp, 1e-9)
}

func TestTempdropHeaderQuadrants(t *testing.T) {
	cases := []struct {
		quad     string
		lat, lon float64
	}{
		{"1", 25.2, -53.7},
		{"3", -25.2, -53.7},
		{"5", -25.2, 53.7},
		{"7", 25.2, 53.7},
	}
	for _, tc := range cases {
		t.Run(tc.quad, func(t *testing.T) {
			records := decode(t, 20240601,
				"XXAA 18231 99252 "+tc.quad+"0537",
				"99985 25015 10010",
				"NNNN",
			)
			require.Len(t, records, 1)
			assert.Equal(t, tc.lat, records[0].Lat)
			assert.Equal(t, tc.lon, records[0].Lon)
		})
	}
}

func TestTempdropTropopauseAndMaxWind(t *testing.T) {
	t.Run("reported", func(t *testing.T) {
		records := decode(t, 20240601,
			"XXAA 18231 99252 70537",
			"88159 51560 29040",
			"77200 30555",
			"NNNN",
		)
		require.Len(t, records, 2)

		// Descending pressure puts the max wind level first.
		mw := records[0]
		assert.Equal(t, domain.TagMaxWind, mw.Tag)
		assert.Equal(t, 200.0, mw.Pressure)
		// Speed 555 folds to 55 with five degrees added.
		wantU, wantV := windComponents(310, 55)
		assert.InDelta(t, wantU, mw.WindU, 1e-9)
		assert.InDelta(t, wantV, mw.WindV, 1e-9)

		trop := records[1]
		assert.Equal(t, domain.TagTropopause, trop.Tag)
		assert.Equal(t, 159.0, trop.Pressure)
		assert.InDelta(t, -51.5, trop.Temp, 1e-9)
	})

	t.Run("none reported", func(t *testing.T) {
		records := decode(t, 20240601,
			"XXAA 18231 99252 70537",
			"88999 77999",
			"NNNN",
		)
		assert.Empty(t, records)
	})
}

func TestTempdropSignificantLevels(t *testing.T) {
	records := decode(t, 20240601,
		"XXBB 18231 99252 70537",
		"00985 25015 11972 24519",
		"21212 00985 10010 11950 12015",
		"NNNN",
	)
	require.Len(t, records, 4)
	for _, r := range records {
		assert.Equal(t, domain.TagSignificant, r.Tag)
	}

	// The temperature level at 985 precedes the wind level at 985: the sort
	// is stable on ties.
	assert.Equal(t, 985.0, records[0].Pressure)
	assert.InDelta(t, 25.0, records[0].Temp, 1e-9)
	assert.False(t, records[0].HasWind())

	assert.Equal(t, 985.0, records[1].Pressure)
	assert.True(t, records[1].HasWind())
	assert.Equal(t, domain.Missing, records[1].Temp)

	assert.Equal(t, 972.0, records[2].Pressure)
	assert.InDelta(t, -24.5, records[2].Temp, 1e-9)

	assert.Equal(t, 950.0, records[3].Pressure)
	assert.True(t, records[3].HasWind())
}

func TestTempdropPartContinuation(t *testing.T) {
	records := decode(t, 20240601,
		"XXAA 68231 99252 70537",
		"99985 25015 10010",
		"XXBB 68231 99252 70537",
		"00985 25015",
		"NNNN",
	)
	require.Len(t, records, 2)
	assert.Equal(t, domain.TagMandatory, records[0].Tag)
	assert.Equal(t, domain.TagSignificant, records[1].Tag)
	assert.Equal(t, 985.0, records[1].Pressure)
}

func TestTempdropCorrectedTime(t *testing.T) {
	t.Run("release time rewrites the levels", func(t *testing.T) {
		records := decode(t, 20240601,
			"XXAA 18231 99252 70537",
			"99985 25015 10010",
			"31313 45208 82302",
			"NNNN",
		)
		require.Len(t, records, 1)
		assert.Equal(t, 2302, records[0].Time)
		assert.Equal(t, 20240618, records[0].Date)
	})

	t.Run("midnight straddle rolls the date back", func(t *testing.T) {
		records := decode(t, 20240301,
			"XXAA 01001 99252 70537",
			"99985 25015 10010",
			"31313 45208 82355",
			"NNNN",
		)
		require.Len(t, records, 1)
		assert.Equal(t, 2355, records[0].Time)
		assert.Equal(t, 20240228, records[0].Date)
	})
}

func TestTempdropAdditionalLevels(t *testing.T) {
	records := decode(t, 20240601,
		"XXAA 18231 99252 70537",
		"99985 25015 10010",
		"51515 10190 00128 10191 SFC-0850 MB 10190 85476",
		"NNNN",
	)
	require.Len(t, records, 3)
	assert.True(t, records[0].IsSurface())

	add1000 := records[1]
	assert.Equal(t, domain.TagAdditional, add1000.Tag)
	assert.Equal(t, 1000.0, add1000.Pressure)
	assert.Equal(t, 128.0, add1000.Height)

	add850 := records[2]
	assert.Equal(t, domain.TagAdditional, add850.Tag)
	assert.Equal(t, 850.0, add850.Pressure)
	assert.Equal(t, 1476.0, add850.Height)
}

func TestTempdropRemarks(t *testing.T) {
	records := decode(t, 20240601,
		"XXAA 18231 99252 70537",
		"99985 25015 10010",
		"62626 SPL 2516N 07434W DLM WND 24012",
		"NNNN",
	)
	require.Len(t, records, 2)

	// Splash fix overrides the header position on every record.
	for _, r := range records {
		assert.InDelta(t, 25.16, r.Lat, 1e-9)
		assert.InDelta(t, 74.34, r.Lon, 1e-9)
	}

	dlm := records[1]
	assert.Equal(t, domain.TagDeepLayer, dlm.Tag)
	wantU, wantV := windComponents(240, 12)
	assert.InDelta(t, wantU, dlm.WindU, 1e-9)
	assert.InDelta(t, wantV, dlm.WindV, 1e-9)
}

func TestTempdropShearSynthesis(t *testing.T) {
	records := decode(t, 20240601,
		"XXAA 18231 99252 70537",
		"99985 25015 10010 00132 24020 08510",
		"85476 20018 07008 70090 12052 06010",
		"50576 11548 35025 40734 22560 33030",
		"30934 33561 31040 25059 43562 30045",
		"20184 48563 30550",
		"NNNN",
	)
	require.Len(t, records, 10)

	shear := records[len(records)-1]
	assert.Equal(t, domain.TagShear, shear.Tag)
	assert.Equal(t, domain.ShearPressureFlag, shear.Pressure)

	u850, v850 := windComponents(70, 8*knotsToMS)
	u200, v200 := windComponents(305, 50*knotsToMS)
	assert.InDelta(t, u200-u850, shear.WindU, 1e-9)
	assert.InDelta(t, v200-v850, shear.WindV, 1e-9)
	assert.Equal(t, domain.Missing, shear.Temp)
	assert.Equal(t, 11840.0, records[8].Height, "200 hPa height folds above ten thousand")
}

func TestDecodeUnrecognizedHeader(t *testing.T) {
	records, err := New(testLogger(), 20240601, 0).Decode([]string{"ZZZZZ 12345", "NNNN"})
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestMessageTypeOf(t *testing.T) {
	mt, ok := MessageTypeOf("XXAA")
	assert.True(t, ok)
	assert.Equal(t, domain.MessageTempDrop, mt)

	mt, ok = MessageTypeOf("97779")
	assert.True(t, ok)
	assert.Equal(t, domain.MessageRecco, mt)

	mt, ok = MessageTypeOf("SUPPL")
	assert.True(t, ok)
	assert.Equal(t, domain.MessageVortex, mt)

	_, ok = MessageTypeOf("ZZZZZ")
	assert.False(t, ok)
}
