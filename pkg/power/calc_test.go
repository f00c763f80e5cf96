package power

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/validation"
)

func TestCalcPQ(t *testing.T) {
	tests := []struct {
		name    string
		act     float64
		react   float64
		scaling float64
		wantApp float64
		wantDir schema.PowerFactorDirection
	}{
		{"inductive", 400, 300, 1, 500, schema.DirectionUE},
		{"capacitive", 400, -300, 1, 500, schema.DirectionOE},
		{"scaled down", 800, 600, 0.5, 500, schema.DirectionUE},
		{"zero reactive", 400, 0, 1, 400, schema.DirectionUE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := calcPQ(tt.act, tt.react, tt.scaling)
			assert.InDelta(t, tt.wantApp, pp.apparent, 1e-9)
			assert.InDelta(t, tt.act*tt.scaling, pp.active, 1e-9)
			assert.InDelta(t, tt.react*tt.scaling, pp.reactive, 1e-9)
			assert.Equal(t, tt.wantDir, pp.direction)
			assert.Equal(t, schema.QControlQConst, pp.control)
		})
	}
}

func TestCalcPQZeroPower(t *testing.T) {
	pp := calcPQ(0, 0, 1)
	assert.Zero(t, pp.apparent)
	assert.True(t, math.IsNaN(pp.cosphi), "cos phi of a zero-power point is undetermined")
	assert.Equal(t, schema.DirectionUE, pp.direction)
}

func TestCalcPC(t *testing.T) {
	r := validation.NewReport()
	pp := calcPC(800, 0.8, schema.DirectionUE, 1, r)

	assert.InDelta(t, 1000, pp.apparent, 1e-9)
	assert.InDelta(t, 800, pp.active, 1e-9)
	assert.InDelta(t, 600, pp.reactive, 1e-9)
	assert.Equal(t, schema.QControlCosPhiConst, pp.control)
	assert.Empty(t, r.Warnings)

	pp = calcPC(800, 0.8, schema.DirectionOE, 1, r)
	assert.InDelta(t, -600, pp.reactive, 1e-9, "over-excited points supply reactive power")
}

func TestCalcPCZeroActivePower(t *testing.T) {
	r := validation.NewReport()
	pp := calcPC(0, 1, schema.DirectionUE, 1, r)

	assert.Zero(t, pp.apparent)
	assert.Zero(t, pp.active)
	assert.Zero(t, pp.reactive)
	assert.Equal(t, 1.0, pp.cosphi)
	assert.Equal(t, schema.DirectionUE, pp.direction)
	assert.Empty(t, r.Warnings, "an idle element with a proper cos phi is a regular operating point")
}

func TestCalcPCZeroCosPhiFallsBack(t *testing.T) {
	r := validation.NewReport()
	pp := calcPC(1000, 0, schema.DirectionUE, 1, r)

	assert.Zero(t, pp.apparent)
	assert.Zero(t, pp.active)
	assert.Zero(t, pp.reactive)
	assert.Zero(t, pp.cosphi, "the given cos phi survives the fallback")
	assert.Equal(t, schema.DirectionUE, pp.direction)
	require.Len(t, r.Warnings, 1)
	assert.True(t, r.Valid, "an undetermined operating point is a warning, not an error")
}

func TestCalcIC(t *testing.T) {
	pp := calcIC(400, 10, 0.9, schema.DirectionUE, 1)

	wantApp := 400 * 10 / math.Sqrt(3)
	assert.InDelta(t, wantApp, pp.apparent, 1e-9)
	assert.InDelta(t, wantApp*0.9, pp.active, 1e-9)
	assert.InDelta(t, 0.9, pp.cosphi, 1e-12)

	pp = calcIC(400, 10, 0.9, schema.DirectionUE, -1)
	assert.InDelta(t, wantApp, pp.apparent, 1e-9, "apparent power is unsigned")
	assert.InDelta(t, -wantApp*0.9, pp.active, 1e-9, "negative scaling flips the active power")
}

func TestCalcSC(t *testing.T) {
	pp := calcSC(1000, 0.8, schema.DirectionOE, 1)
	assert.InDelta(t, 1000, pp.apparent, 1e-9)
	assert.InDelta(t, 800, pp.active, 1e-9)
	assert.InDelta(t, -600, pp.reactive, 1e-9)

	pp = calcSC(1000, 0.8, schema.DirectionUE, -1)
	assert.InDelta(t, 1000, pp.apparent, 1e-9)
	assert.InDelta(t, -800, pp.active, 1e-9)
	assert.InDelta(t, 600, pp.reactive, 1e-9)
}

func TestCalcQC(t *testing.T) {
	r := validation.NewReport()
	pp := calcQC(600, 0.8, 1, r)

	assert.InDelta(t, 1000, pp.apparent, 1e-9)
	assert.InDelta(t, 800, pp.active, 1e-9)
	assert.InDelta(t, 600, pp.reactive, 1e-9)
	assert.Equal(t, schema.DirectionUE, pp.direction)
	assert.Empty(t, r.Warnings)

	pp = calcQC(-600, 0.8, 1, r)
	assert.Equal(t, schema.DirectionOE, pp.direction, "direction follows the sign of the reactive power")
}

func TestCalcQCUnityCosPhiFallsBack(t *testing.T) {
	r := validation.NewReport()
	pp := calcQC(600, 1, 1, r)

	assert.Zero(t, pp.apparent)
	assert.Zero(t, pp.reactive)
	assert.Equal(t, 1.0, pp.cosphi)
	require.Len(t, r.Warnings, 1)
}

func TestCalcIP(t *testing.T) {
	app := 400 * 10 / math.Sqrt(3)
	act := app * 0.9
	pp := calcIP(400, 10, act, schema.DirectionUE, 1)

	assert.InDelta(t, app, pp.apparent, 1e-9)
	assert.InDelta(t, act, pp.active, 1e-9)
	assert.InDelta(t, 0.9, pp.cosphi, 1e-9, "cos phi is derived, not given")
}

func TestCalcSP(t *testing.T) {
	pp := calcSP(1000, 800, schema.DirectionUE, 1)
	assert.InDelta(t, 600, pp.reactive, 1e-9)
	assert.InDelta(t, 0.8, pp.cosphi, 1e-12)
}

func TestCalcSQ(t *testing.T) {
	pp := calcSQ(1000, 600, 1)
	assert.InDelta(t, 800, pp.active, 1e-9)
	assert.Equal(t, schema.DirectionUE, pp.direction)

	pp = calcSQ(1000, -600, 1)
	assert.Equal(t, schema.DirectionOE, pp.direction)

	pp = calcSQ(1000, 600, -1)
	assert.InDelta(t, -800, pp.active, 1e-9, "negative scaling flips the active power")
}

// The power triangle s^2 = p^2 + q^2 must hold for every resolved phase,
// regardless of which two quantities were given.
func TestPowerTriangleHolds(t *testing.T) {
	r := validation.NewReport()
	points := map[string]phasePower{
		"pq": calcPQ(400, 300, 1),
		"pc": calcPC(800, 0.8, schema.DirectionUE, 1, r),
		"ic": calcIC(400, 10, 0.9, schema.DirectionOE, 1),
		"sc": calcSC(1000, 0.8, schema.DirectionUE, -1),
		"qc": calcQC(600, 0.8, 1, r),
		"ip": calcIP(400, 10, 1500, schema.DirectionUE, 1),
		"sp": calcSP(1000, 800, schema.DirectionOE, 1),
		"sq": calcSQ(1000, 600, 1),
	}

	for name, pp := range points {
		assert.InDelta(t, pp.apparent*pp.apparent, pp.active*pp.active+pp.reactive*pp.reactive, 1e-6,
			"power triangle violated for %s", name)
	}
	assert.Empty(t, r.Warnings)
}
