package folio

import (
	"fmt"
	"slices"
)

// OversellPolicy decides what happens when a sell exceeds the held quantity.
type OversellPolicy string

const (
	// OversellClamp floors the position at zero: the sell consumes every
	// remaining lot and a diagnostic records the excess.
	OversellClamp OversellPolicy = "clamp"
	// OversellReject fails the replay with ErrOversell.
	OversellReject OversellPolicy = "reject"
)

// ErrOversell is returned under OversellReject when a sell exceeds the held
// quantity.
var ErrOversell = fmt.Errorf("sell exceeds held quantity")

// residualQuantity is the dust threshold under which a position is
// considered closed.
var residualQuantity = Q(1e-9)

// Holding is the reconstructed position of one security at a point in time.
type Holding struct {
	Security     string
	Quantity     Quantity
	CostBasis    Money // FIFO cost of the shares still held
	RealizedGain Money // net proceeds minus FIFO cost of shares sold so far
	lots         lots
}

// Lots returns the surviving purchase lots, oldest first.
func (h *Holding) Lots() []Lot { return slices.Clone([]Lot(h.lots)) }

// Holdings is the position book at a point in time, one entry per security
// ever traded. Closed positions keep their realized gain.
type Holdings struct {
	On       Date
	holdings map[string]*Holding
}

func newHoldings() *Holdings {
	return &Holdings{holdings: make(map[string]*Holding)}
}

// apply replays one transaction into the book, FIFO. Oversells are resolved
// according to policy before any lot is touched.
func (hs *Holdings) apply(tx Transaction, policy OversellPolicy) (diags []Diagnostic, err error) {
	h := hs.holdings[tx.Security]
	if h == nil {
		h = &Holding{Security: tx.Security}
		hs.holdings[tx.Security] = h
	}

	switch tx.Command {
	case TxBuy:
		h.lots = append(h.lots, Lot{
			Date:     tx.Date,
			Quantity: tx.Quantity,
			Cost:     tx.Consideration().Add(tx.Fee),
		})

	case TxSell:
		quantity, proceeds := tx.Quantity, tx.Consideration().Sub(tx.Fee)
		if held := h.lots.quantity(); quantity.GreaterThan(held) {
			if policy == OversellReject {
				return nil, fmt.Errorf("%w: %s sells %s but holds %s on %s", ErrOversell, tx.Security, quantity, held, tx.Date)
			}
			// Clamp: only the held part is sold, proceeds scale down with it.
			diags = append(diags, diag(DiagOversellClamped, SeverityWarning,
				"%s: sell of %s on %s clamped to held %s", tx.Security, quantity, tx.Date, held))
			if !quantity.IsZero() {
				proceeds = proceeds.Mul(held).Div(quantity)
			}
			quantity = held
		}
		cost, remaining := h.lots.consume(quantity)
		h.lots = remaining
		h.RealizedGain = h.RealizedGain.Add(proceeds.Sub(cost))
	}

	h.Quantity = h.lots.quantity()
	h.CostBasis = h.lots.cost()
	return diags, nil
}

// prune zeroes out dust positions so downstream valuation does not price
// residuals.
func (hs *Holdings) prune() {
	for _, h := range hs.holdings {
		if !h.Quantity.GreaterThan(residualQuantity) && !h.Quantity.IsZero() {
			h.Quantity, h.CostBasis, h.lots = Q(0), Money{}, nil
		}
	}
}

// Get returns the holding for a security, or nil when never traded.
func (hs *Holdings) Get(security string) *Holding { return hs.holdings[security] }

// Open returns the securities with a surviving position, sorted.
func (hs *Holdings) Open() []string {
	var open []string
	for sec, h := range hs.holdings {
		if h.Quantity.GreaterThan(residualQuantity) {
			open = append(open, sec)
		}
	}
	slices.Sort(open)
	return open
}

// CostBasis returns the total cost of all surviving positions.
func (hs *Holdings) CostBasis() Money {
	var total Money
	for _, h := range hs.holdings {
		total = total.Add(h.CostBasis)
	}
	return total
}

// RealizedGain returns the total realized gain across all positions, closed
// ones included.
func (hs *Holdings) RealizedGain() Money {
	var total Money
	for _, h := range hs.holdings {
		total = total.Add(h.RealizedGain)
	}
	return total
}

// ReplayHoldings reconstructs the position book by replaying the ledger up
// to and including 'on', FIFO. The replay is a pure function of the ledger:
// replaying the same ledger always yields the same book.
func ReplayHoldings(ledger *Ledger, on Date, policy OversellPolicy) (*Holdings, []Diagnostic, error) {
	hs := newHoldings()
	hs.On = on
	var diags []Diagnostic

	for _, tx := range ledger.Transactions(OnOrBefore(on)) {
		d, err := hs.apply(tx, policy)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, d...)
	}
	hs.prune()
	return hs, diags, nil
}
