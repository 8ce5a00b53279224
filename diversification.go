package folio

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Diversification describes how concentrated the portfolio is at the end
// of the reporting window.
type Diversification struct {
	// HHI is the Herfindahl-Hirschman index of the position weights, in
	// (0, 1]: 1 for a single position, 1/n for n equal positions.
	HHI *float64 `json:"hhi"`
	// EffectiveAssets is 1/HHI: the number of equal-weight positions with
	// the same concentration.
	EffectiveAssets *float64 `json:"effectiveAssets"`
	// Ratio is the diversification ratio: the weighted sum of individual
	// volatilities over the portfolio volatility. 1 means no
	// diversification benefit.
	Ratio *float64 `json:"diversificationRatio"`
	// Weights are the position weights the metrics were computed from,
	// keyed by security.
	Weights map[string]float64 `json:"weights"`
}

// ComputeDiversification derives concentration metrics from position
// weights, and the diversification ratio from the per-asset daily return
// series. securities, weights and assetReturns are parallel; weights are
// normalized internally. Return series must be date-aligned with each
// other.
func ComputeDiversification(securities []string, weights []float64, assetReturns [][]float64) (Diversification, []Diagnostic) {
	var d Diversification
	var diags []Diagnostic

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if len(weights) == 0 || total <= 0 {
		return d, diags
	}

	d.Weights = make(map[string]float64, len(securities))
	hhi := 0.0
	for i, w := range weights {
		w /= total
		d.Weights[securities[i]] = w
		hhi += w * w
	}
	d.HHI = ptr(hhi)
	d.EffectiveAssets = ptr(1 / hhi)

	// The ratio needs at least two assets with a usable covariance.
	n := len(weights)
	if n < 2 {
		return d, diags
	}
	obs := 0
	if len(assetReturns) == n {
		obs = len(assetReturns[0])
		for _, series := range assetReturns {
			obs = min(obs, len(series))
		}
	}
	if obs < 2 {
		diags = append(diags, diag(DiagNotEnoughReturns, SeverityInfo,
			"not enough aligned asset returns for the diversification ratio"))
		return d, diags
	}

	data := mat.NewDense(obs, n, nil)
	for j, series := range assetReturns {
		for i := 0; i < obs; i++ {
			data.Set(i, j, series[i])
		}
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	w := mat.NewVecDense(n, nil)
	weighted := 0.0
	for i := range weights {
		w.SetVec(i, d.Weights[securities[i]])
		weighted += d.Weights[securities[i]] * math.Sqrt(cov.At(i, i)*TradingDaysPerYear)
	}
	portVar := mat.Inner(w, &cov, w) * TradingDaysPerYear
	if portVar <= 0 {
		d.Ratio = ptr(1.0)
		return d, diags
	}
	d.Ratio = ptr(weighted / math.Sqrt(portVar))
	return d, diags
}
