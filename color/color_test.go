package color

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sharma, Wu & Dalal (2005) canonical CIEDE2000 reference pairs, given in
// Lab. Converted to LCh here since that's the type this package works with.
func labToLCh(l, a, b float64) LCh {
	c := math.Hypot(a, b)
	h := radToDeg(math.Atan2(b, a))
	if h < 0 {
		h += 360
	}
	return LCh{L: l, C: c, H: h}
}

func TestDeltaE2000_SharmaReferencePairs(t *testing.T) {
	cases := []struct {
		name       string
		a, b       LCh
		wantDeltaE float64
	}{
		{"pair1", labToLCh(50.0000, 2.6772, -79.7751), labToLCh(50.0000, 0.0000, -82.7485), 2.0425},
		{"pair2", labToLCh(50.0000, 3.1571, -77.2803), labToLCh(50.0000, 0.0000, -82.7485), 2.8615},
		{"pair3", labToLCh(50.0000, 2.8361, -74.0200), labToLCh(50.0000, 0.0000, -82.7485), 3.4412},
		{"pair4", labToLCh(50.0000, -1.3802, -84.2814), labToLCh(50.0000, 0.0000, -82.7485), 1.0000},
		{"pair5", labToLCh(50.0000, -1.1848, -84.8006), labToLCh(50.0000, 0.0000, -82.7485), 1.0000},
		{"pair6", labToLCh(50.0000, -0.9009, -85.5211), labToLCh(50.0000, 0.0000, -82.7485), 1.0000},
		{"pair7", labToLCh(50.0000, 0.0000, 0.0000), labToLCh(50.0000, -1.0000, 2.0000), 2.3669},
		{"pair8", labToLCh(50.0000, -1.0000, 2.0000), labToLCh(50.0000, 0.0000, 0.0000), 2.3669},
		{"pair9", labToLCh(50.0000, 2.4900, -0.0010), labToLCh(50.0000, -2.4900, 0.0009), 7.1792},
		{"pair10", labToLCh(60.2574, -34.0099, 36.2677), labToLCh(60.4626, -34.1751, 39.4387), 1.2644},
		{"pair11", labToLCh(63.0109, -31.0961, -5.8663), labToLCh(62.8187, -29.7946, -4.0864), 1.2630},
		{"pair12", labToLCh(35.0831, -44.1164, 3.7933), labToLCh(35.0232, -40.0716, 1.5901), 1.8731},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeltaE2000(tc.a, tc.b)
			assert.InDelta(t, tc.wantDeltaE, got, 0.02, "deltaE2000 mismatch")
		})
	}
}

func TestDeltaE2000_Identity(t *testing.T) {
	c := LCh{L: 40, C: 30, H: 210}
	require.InDelta(t, 0.0, DeltaE2000(c, c), 1e-9)
}

func TestHueDelta_Circular(t *testing.T) {
	assert.InDelta(t, 20.0, HueDelta(LCh{H: 350}, LCh{H: 10}), 1e-9)
	assert.InDelta(t, 180.0, HueDelta(LCh{H: 0}, LCh{H: 180}), 1e-9)
	assert.InDelta(t, 0.0, HueDelta(LCh{H: 45}, LCh{H: 45}), 1e-9)
}

func TestClassifyRelation(t *testing.T) {
	assert.Equal(t, RelationSame, ClassifyRelation(LCh{H: 10}, LCh{H: 11}))
	assert.Equal(t, RelationAnalogous, ClassifyRelation(LCh{H: 10}, LCh{H: 35}))
	assert.Equal(t, RelationTriadic, ClassifyRelation(LCh{H: 0}, LCh{H: 120}))
	assert.Equal(t, RelationComplementary, ClassifyRelation(LCh{H: 0}, LCh{H: 170}))
	assert.Equal(t, RelationUnrelated, ClassifyRelation(LCh{H: 0}, LCh{H: 70}))
}

func TestIsNeutral(t *testing.T) {
	assert.True(t, IsNeutral(LCh{L: 50, C: 3, H: 100}, NeutralChroma))
	assert.True(t, IsNeutral(LCh{L: 98, C: 40, H: 100}, NeutralChroma))
	assert.False(t, IsNeutral(LCh{L: 50, C: 40, H: 100}, NeutralChroma))
}

func TestCircularStdDevHue_TightCluster(t *testing.T) {
	sd := CircularStdDevHue([]float64{10, 12, 8, 11})
	assert.Less(t, sd, 5.0)
}

func TestCircularStdDevHue_Spread(t *testing.T) {
	sd := CircularStdDevHue([]float64{0, 90, 180, 270})
	assert.Greater(t, sd, 60.0)
}
