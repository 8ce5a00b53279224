// Package folio computes performance and risk analytics for
// transaction-based investment portfolios.
//
// The entry point is the [Engine]: it takes an immutable [Ledger] of buy
// and sell transactions and a [PriceSource] collaborator, reconstructs
// holdings with FIFO lot accounting, builds a gap-free daily valuation
// [History], and derives returns (CAGR, XIRR, TWR, MWR), risk metrics
// (volatility, Sharpe, Sortino, drawdown, VaR, CVaR, Calmar, beta,
// alpha), diversification metrics and a benchmark comparison.
//
// Accounting math (quantities, costs, valuations) is exact, carried by
// [Money] and [Quantity] on decimals. Statistical metrics are float64
// and independently nullable: a metric that cannot be computed is nil
// in the [Report], with a [Diagnostic] explaining why.
package folio
