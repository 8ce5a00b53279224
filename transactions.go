package folio

import (
	"fmt"
)

// TxType identifies the kind of a ledger transaction.
type TxType string

const (
	TxBuy  TxType = "buy"
	TxSell TxType = "sell"
)

// ErrInvalidTransaction wraps all transaction validation failures.
var ErrInvalidTransaction = fmt.Errorf("invalid transaction")

// Transaction is a single dated trade of a security.
//
// Amount is the gross consideration (quantity times unit price); when left
// zero it is derived from Quantity and Price. Fee is always a cost borne by
// the investor, whatever the side.
type Transaction struct {
	Command  TxType
	Date     Date
	Security string
	Quantity Quantity
	Price    Money // unit price
	Amount   Money // gross consideration
	Fee      Money
	Memo     string
}

// NewBuy creates a buy of quantity units at the given unit price.
func NewBuy(on Date, security string, quantity Quantity, price, fee Money) Transaction {
	return Transaction{Command: TxBuy, Date: on, Security: security, Quantity: quantity, Price: price, Amount: price.Mul(quantity), Fee: fee}
}

// NewSell creates a sell of quantity units at the given unit price.
func NewSell(on Date, security string, quantity Quantity, price, fee Money) Transaction {
	return Transaction{Command: TxSell, Date: on, Security: security, Quantity: quantity, Price: price, Amount: price.Mul(quantity), Fee: fee}
}

// Validate checks the hard input rules. Violations are wrapped in
// ErrInvalidTransaction.
func (t Transaction) Validate() error {
	switch t.Command {
	case TxBuy, TxSell:
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidTransaction, t.Command)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if t.Security == "" {
		return fmt.Errorf("%w: missing security", ErrInvalidTransaction)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be strictly positive, got %s", ErrInvalidTransaction, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidTransaction, t.Price)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("%w: fee must not be negative, got %s", ErrInvalidTransaction, t.Fee)
	}
	return nil
}

// Consideration returns the gross amount of the trade, deriving it from
// quantity and unit price when Amount was not set.
func (t Transaction) Consideration() Money {
	if t.Amount.IsZero() && !t.Price.IsZero() {
		return t.Price.Mul(t.Quantity)
	}
	return t.Amount
}

// UnitPrice returns the unit price, deriving it from Amount when Price was
// not set.
func (t Transaction) UnitPrice() Money {
	if t.Price.IsZero() && !t.Amount.IsZero() && !t.Quantity.IsZero() {
		return t.Amount.Div(t.Quantity)
	}
	return t.Price
}

// ExternalFlow returns the transaction's cash flow into the portfolio:
// positive for a buy (capital funded from outside, fees included),
// negative for a sell (net proceeds leaving the portfolio).
func (t Transaction) ExternalFlow() Money {
	switch t.Command {
	case TxBuy:
		return t.Consideration().Add(t.Fee)
	case TxSell:
		return t.Consideration().Sub(t.Fee).Neg()
	}
	return Money{}
}

// InvestorFlow returns the flow from the investor's point of view, as used
// by money-weighted return: a buy is money out (negative), a sell is money
// back in (positive).
func (t Transaction) InvestorFlow() Money { return t.ExternalFlow().Neg() }

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s x%s @ %s", t.Date, t.Command, t.Security, t.Quantity, t.UnitPrice())
}
