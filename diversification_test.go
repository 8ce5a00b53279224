package folio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHHISingleAsset(t *testing.T) {
	d, _ := ComputeDiversification([]string{"ACME"}, []float64{4200}, [][]float64{alternating(30, 0.01)})
	require.NotNil(t, d.HHI)
	assert.InDelta(t, 1.0, *d.HHI, 1e-12)
	require.NotNil(t, d.EffectiveAssets)
	assert.InDelta(t, 1.0, *d.EffectiveAssets, 1e-12)
	// a single asset has no covariance structure to diversify
	assert.Nil(t, d.Ratio)
}

func TestHHIEqualWeights(t *testing.T) {
	securities := []string{"A", "B", "C", "D"}
	weights := []float64{100, 100, 100, 100}
	series := [][]float64{
		alternating(30, 0.01),
		alternating(30, 0.02),
		alternating(30, 0.015),
		alternating(30, 0.005),
	}
	d, _ := ComputeDiversification(securities, weights, series)
	require.NotNil(t, d.HHI)
	assert.InDelta(t, 0.25, *d.HHI, 1e-12)
	require.NotNil(t, d.EffectiveAssets)
	assert.InDelta(t, 4.0, *d.EffectiveAssets, 1e-12)
	for _, sec := range securities {
		assert.InDelta(t, 0.25, d.Weights[sec], 1e-12)
	}
}

func TestHHIBounds(t *testing.T) {
	d, _ := ComputeDiversification([]string{"A", "B"}, []float64{900, 100}, nil)
	require.NotNil(t, d.HHI)
	assert.Greater(t, *d.HHI, 0.0)
	assert.LessOrEqual(t, *d.HHI, 1.0)
	assert.InDelta(t, 0.81+0.01, *d.HHI, 1e-12)
}

func TestDiversificationNoReturnSeries(t *testing.T) {
	// concentration metrics do not need return series; the ratio does
	for name, series := range map[string][][]float64{
		"nil":        nil,
		"empty":      {},
		"mismatched": {alternating(30, 0.01)},
	} {
		t.Run(name, func(t *testing.T) {
			d, diags := ComputeDiversification([]string{"A", "B"}, []float64{900, 100}, series)
			require.NotNil(t, d.HHI)
			assert.InDelta(t, 0.82, *d.HHI, 1e-12)
			require.NotNil(t, d.EffectiveAssets)
			assert.Nil(t, d.Ratio)
			found := false
			for _, dg := range diags {
				found = found || dg.Code == DiagNotEnoughReturns
			}
			assert.True(t, found)
		})
	}
}

func TestDiversificationRatioPerfectCorrelation(t *testing.T) {
	// two assets moving in lockstep bring no diversification: ratio 1
	base := alternating(40, 0.01)
	d, _ := ComputeDiversification([]string{"A", "B"}, []float64{500, 500}, [][]float64{base, base})
	require.NotNil(t, d.Ratio)
	assert.InDelta(t, 1.0, *d.Ratio, 1e-9)
}

func TestDiversificationRatioAnticorrelated(t *testing.T) {
	a := alternating(40, 0.01)
	b := make([]float64, len(a))
	for i, r := range a {
		b[i] = -r
	}
	// perfectly anticorrelated equal weights cancel out: portfolio variance
	// collapses and the ratio is reported as 1 by convention
	d, _ := ComputeDiversification([]string{"A", "B"}, []float64{500, 500}, [][]float64{a, b})
	require.NotNil(t, d.Ratio)
	assert.InDelta(t, 1.0, *d.Ratio, 1e-9)
}

func TestDiversificationRatioIndependentAssets(t *testing.T) {
	// two uncorrelated assets: ratio above 1
	a := []float64{0.01, -0.01, 0.01, -0.01, 0.01, -0.01, 0.01, -0.01}
	b := []float64{0.01, 0.01, -0.01, -0.01, 0.01, 0.01, -0.01, -0.01}
	d, _ := ComputeDiversification([]string{"A", "B"}, []float64{500, 500}, [][]float64{a, b})
	require.NotNil(t, d.Ratio)
	assert.Greater(t, *d.Ratio, 1.0)
}

func TestDiversificationShortSeries(t *testing.T) {
	d, diags := ComputeDiversification([]string{"A", "B"}, []float64{500, 500}, [][]float64{{0.01}, {0.01}})
	require.NotNil(t, d.HHI)
	assert.Nil(t, d.Ratio)
	found := false
	for _, dg := range diags {
		found = found || dg.Code == DiagNotEnoughReturns
	}
	assert.True(t, found)
}

func TestDiversificationNoWeights(t *testing.T) {
	d, _ := ComputeDiversification(nil, nil, nil)
	assert.Nil(t, d.HHI)
	assert.Nil(t, d.EffectiveAssets)
	assert.Nil(t, d.Ratio)
}
