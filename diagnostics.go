package folio

import "fmt"

// Severity grades a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes.
const (
	DiagPeriodAdjusted   = "period_adjusted"
	DiagOversellClamped  = "oversell_clamped"
	DiagCostBasisPrice   = "cost_basis_price"
	DiagMissingPrice     = "missing_price"
	DiagNotEnoughReturns = "not_enough_returns"
	DiagOneSignedFlows   = "one_signed_flows"
	DiagNoConvergence    = "no_convergence"
	DiagZeroStartValue   = "zero_start_value"
	DiagNoDownside       = "no_downside"
	DiagZeroDrawdown     = "zero_drawdown"
	DiagNoBenchmark      = "no_benchmark"
)

// Diagnostic records a degraded-but-not-fatal condition encountered while
// computing a report. Hard input errors are returned as errors instead;
// diagnostics accompany null metrics.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string { return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message) }

// diag is shorthand for building a Diagnostic with a formatted message.
func diag(code string, severity Severity, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: severity, Message: fmt.Sprintf(format, args...)}
}
