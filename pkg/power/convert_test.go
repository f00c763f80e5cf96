package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkraft/gridexport/pkg/schema"
)

func TestAsActivePowerRounds(t *testing.T) {
	state, err := FromPQSym(1000.123456, 0, 1, ThreePhaseNeutral)
	require.NoError(t, err)

	act := state.AsActivePower()
	for _, v := range act.Values {
		assert.Equal(t, schema.Round(1000.123456/3, schema.DigitsPower), v)
	}
}

func TestAsPowerFactorCarriesDirection(t *testing.T) {
	state, err := FromSCSym(1000, 0.8, schema.DirectionOE, 1, ThreePhaseNeutral)
	require.NoError(t, err)

	pf := state.AsPowerFactor()
	assert.Equal(t, schema.DirectionOE, pf.Direction)
	for _, v := range pf.Values {
		assert.Equal(t, 0.8, v)
	}
}

func TestUndeterminedCosPhiPresentsAsUnity(t *testing.T) {
	state, err := FromPQSym(0, 0, 1, ThreePhaseNeutral)
	require.NoError(t, err)

	pf := state.AsPowerFactor()
	for _, v := range pf.Values {
		assert.Equal(t, 1.0, v, "NaN must not leak into a JSON document")
	}

	rated := state.AsRatedPower()
	assert.Equal(t, 1.0, rated.CosPhi)
}

func TestAsRatedPowerIsConsistent(t *testing.T) {
	state, err := FromSCAsym([]float64{100.123456, 300.987654, 0}, []float64{0.8, 1, 1}, schema.DirectionUE, 1)
	require.NoError(t, err)

	rated := state.AsRatedPower()
	require.NoError(t, rated.Validate())
	assert.Equal(t, schema.Round(rated.Values[0]+rated.Values[1]+rated.Values[2], schema.DigitsPower), rated.Value)
	assert.Len(t, rated.CosPhis, 3)
}
