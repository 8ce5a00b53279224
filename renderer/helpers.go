package renderer

import (
	"fmt"
	"text/template"

	"github.com/mgirard/folio"
)

// funcMap holds the formatting helpers shared by all templates. Nullable
// metrics render as "n/a" rather than a misleading zero.
var funcMap = template.FuncMap{
	"pct":     pct,
	"num":     num,
	"weight":  weight,
	"signed":  signed,
	"delta":   delta,
	"verdict": verdict,
}

// pct formats a nullable return fraction as a percentage.
func pct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// num formats a nullable ratio with two decimals.
func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// weight formats a position weight as a percentage.
func weight(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

// signed renders a money amount with an explicit sign.
func signed(m folio.Money) string { return m.SignedString() }

// delta returns the null-safe comparison delta of one metric.
func delta(r *folio.Report, name string) *float64 {
	if r.Comparison == nil {
		return nil
	}
	return r.Comparison.Deltas[name]
}

// verdict tells whether the portfolio beats the benchmark on one metric.
func verdict(r *folio.Report, name string) string {
	if r.Comparison == nil {
		return "n/a"
	}
	better := r.Comparison.Outperforming[name]
	switch {
	case better == nil:
		return "n/a"
	case *better:
		return "yes"
	default:
		return "no"
	}
}
