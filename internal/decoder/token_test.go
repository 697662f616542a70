package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(""))
	assert.True(t, isMissing("/"))
	assert.True(t, isMissing("/////"))
	assert.False(t, isMissing("12/45"))
	assert.False(t, isMissing("00000"))
}

func TestDecodePressure3(t *testing.T) {
	t.Run("implicit leading ten", func(t *testing.T) {
		p, err := decodePressure3("004")
		require.NoError(t, err)
		assert.Equal(t, 1004.0, p)
	})

	t.Run("three digits pass through", func(t *testing.T) {
		p, err := decodePressure3("925")
		require.NoError(t, err)
		assert.Equal(t, 925.0, p)
	})

	t.Run("slashes are missing", func(t *testing.T) {
		p, err := decodePressure3("///")
		require.NoError(t, err)
		assert.Equal(t, domain.Missing, p)
	})

	t.Run("letters are a format error", func(t *testing.T) {
		_, err := decodePressure3("9a5")
		assert.Error(t, err)
	})
}

func TestDecodePressureDirect(t *testing.T) {
	p, err := decodePressureDirect("159")
	require.NoError(t, err)
	assert.Equal(t, 159.0, p)

	p, err = decodePressureDirect("///")
	require.NoError(t, err)
	assert.Equal(t, domain.Missing, p)
}

func TestDecodeHeight(t *testing.T) {
	cases := []struct {
		name    string
		level   int
		raw     string
		sfcPres float64
		want    float64
	}{
		{"1000 plain", 1000, "132", domain.Missing, 132},
		{"1000 below sea level", 1000, "540", domain.Missing, -40},
		{"925 plain", 925, "857", 985, 857},
		{"925 offset under a low surface", 925, "476", 920, -24},
		{"850 adds a thousand", 850, "476", 985, 1476},
		{"850 low surface keeps metric range", 850, "550", 940, 550},
		{"700 low band", 700, "090", 985, 3090},
		{"700 high band", 700, "520", 985, 2520},
		{"700 low surface", 700, "090", 940, 2090},
		{"500 decameters", 500, "576", 985, 5760},
		{"400 decameters", 400, "734", 985, 7340},
		{"300 plain decameters", 300, "934", 985, 9340},
		{"200 folds above ten thousand", 200, "184", 985, 11840},
		{"missing", 500, "///", 985, domain.Missing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := decodeHeight(tc.level, tc.raw, tc.sfcPres)
			require.NoError(t, err)
			assert.Equal(t, tc.want, h)
		})
	}
}

func TestDecodeTempDew(t *testing.T) {
	t.Run("even temperature is positive", func(t *testing.T) {
		temp, dew, err := decodeTempDew("24020")
		require.NoError(t, err)
		assert.InDelta(t, 24.0, temp, 1e-9)
		assert.InDelta(t, 22.0, dew, 1e-9)
	})

	t.Run("odd temperature is negative", func(t *testing.T) {
		temp, dew, err := decodeTempDew("11548")
		require.NoError(t, err)
		assert.InDelta(t, -11.5, temp, 1e-9)
		assert.InDelta(t, -16.3, dew, 1e-9)
	})

	t.Run("depression above fifty is whole degrees", func(t *testing.T) {
		temp, dew, err := decodeTempDew("51560")
		require.NoError(t, err)
		assert.InDelta(t, -51.5, temp, 1e-9)
		assert.InDelta(t, -61.5, dew, 1e-9)
	})

	t.Run("missing temperature blocks the dewpoint", func(t *testing.T) {
		temp, dew, err := decodeTempDew("///20")
		require.NoError(t, err)
		assert.Equal(t, domain.Missing, temp)
		assert.Equal(t, domain.Missing, dew)
	})

	t.Run("missing depression keeps the temperature", func(t *testing.T) {
		temp, dew, err := decodeTempDew("240//")
		require.NoError(t, err)
		assert.InDelta(t, 24.0, temp, 1e-9)
		assert.Equal(t, domain.Missing, dew)
	})

	t.Run("short group is all missing", func(t *testing.T) {
		temp, dew, err := decodeTempDew("24")
		require.NoError(t, err)
		assert.Equal(t, domain.Missing, temp)
		assert.Equal(t, domain.Missing, dew)
	})
}

func TestRelativeHumidity(t *testing.T) {
	t.Run("saturated air is one hundred percent", func(t *testing.T) {
		assert.InDelta(t, 100.0, relativeHumidity(15.0, 15.0), 1e-9)
	})

	t.Run("supersaturation clips", func(t *testing.T) {
		assert.Equal(t, 100.0, relativeHumidity(15.0, 16.0))
	})

	t.Run("two degree depression", func(t *testing.T) {
		assert.InDelta(t, 88.59, relativeHumidity(24.0, 22.0), 0.05)
	})

	t.Run("missing propagates", func(t *testing.T) {
		assert.Equal(t, domain.Missing, relativeHumidity(domain.Missing, 10.0))
		assert.Equal(t, domain.Missing, relativeHumidity(10.0, domain.Missing))
	})
}

func TestDecodeWind(t *testing.T) {
	t.Run("direction and speed", func(t *testing.T) {
		u, v, err := decodeWind("30550", false)
		require.NoError(t, err)
		// Direction 305, speed 50: wind blowing toward the southeast sector.
		assert.InDelta(t, 40.96, u, 0.01)
		assert.InDelta(t, -28.68, v, 0.01)
	})

	t.Run("speed fold adds five degrees", func(t *testing.T) {
		u, v, err := decodeWind("24650", false)
		require.NoError(t, err)
		wantU, wantV := windComponents(245, 150)
		assert.InDelta(t, wantU, u, 1e-9)
		assert.InDelta(t, wantV, v, 1e-9)
	})

	t.Run("knots convert", func(t *testing.T) {
		u, v, err := decodeWind("27100", true)
		require.NoError(t, err)
		assert.InDelta(t, 51.444, u, 1e-9)
		assert.InDelta(t, 0.0, v, 1e-6)
	})

	t.Run("northerly wind", func(t *testing.T) {
		u, v, err := decodeWind("00010", false)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, u, 1e-6)
		assert.InDelta(t, -10.0, v, 1e-6)
	})

	t.Run("slashed direction is missing", func(t *testing.T) {
		u, v, err := decodeWind("//015", false)
		require.NoError(t, err)
		assert.Equal(t, domain.Missing, u)
		assert.Equal(t, domain.Missing, v)
	})

	t.Run("short group is missing", func(t *testing.T) {
		u, v, err := decodeWind("240", false)
		require.NoError(t, err)
		assert.Equal(t, domain.Missing, u)
		assert.Equal(t, domain.Missing, v)
	})
}

func TestBaroPressure(t *testing.T) {
	assert.InDelta(t, 1013.25, baroPressure(0), 1e-9)
	assert.Greater(t, baroPressure(1000), baroPressure(3000))
	// Standard atmosphere puts 500 hPa near 5.5 km.
	assert.InDelta(t, 500.0, baroPressure(5574), 1.0)
}

func TestSplashCoordinate(t *testing.T) {
	assert.InDelta(t, 25.30, splashCoordinate("2530N", "S"), 1e-9)
	assert.InDelta(t, -25.30, splashCoordinate("2530S", "S"), 1e-9)
	assert.InDelta(t, 74.30, splashCoordinate("07430W", "E"), 1e-9)
	assert.InDelta(t, -74.30, splashCoordinate("07430E", "E"), 1e-9)
	assert.Equal(t, domain.Missing, splashCoordinate("ABC", "S"))
	assert.Equal(t, domain.Missing, splashCoordinate("", "S"))
}
