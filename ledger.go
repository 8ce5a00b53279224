package folio

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger is the chronological record of all transactions of a portfolio.
// It is kept sorted by date; same-day transactions keep their relative
// order, except that buys settle before sells.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Append validates and adds transactions, keeping the ledger sorted.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("appending %s: %w", tx, err)
		}
		l.transactions = append(l.transactions, tx)
	}
	l.stableSort()
	return nil
}

// stableSort sorts transactions by date, buys before sells on the same day.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Command == TxBuy && b.Command == TxSell
	})
}

// Transactions returns an iterator over transactions matching all the given
// filters, in chronological order.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	txs:
		for i, tx := range l.transactions {
			for _, keep := range filters {
				if !keep(tx) {
					continue txs
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// BySecurity keeps only transactions on the given security.
func BySecurity(security string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Security == security }
}

// OnOrBefore keeps only transactions dated on or before d.
func OnOrBefore(d Date) func(Transaction) bool {
	return func(tx Transaction) bool { return !tx.Date.After(d) }
}

// Within keeps only transactions dated inside r, boundaries included.
func Within(r Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Inception returns the date of the oldest transaction. ok is false for an
// empty ledger.
func (l *Ledger) Inception() (d Date, ok bool) {
	if len(l.transactions) == 0 {
		return Date{}, false
	}
	return l.transactions[0].Date, true
}

// Latest returns the date of the newest transaction. ok is false for an
// empty ledger.
func (l *Ledger) Latest() (d Date, ok bool) {
	if len(l.transactions) == 0 {
		return Date{}, false
	}
	return l.transactions[len(l.transactions)-1].Date, true
}

// Securities returns the sorted set of securities ever traded.
func (l *Ledger) Securities() []string {
	var secs []string
	for _, tx := range l.transactions {
		if !slices.Contains(secs, tx.Security) {
			secs = append(secs, tx.Security)
		}
	}
	slices.Sort(secs)
	return secs
}

// Currency returns the ledger's currency, taken from the first transaction
// carrying one.
func (l *Ledger) Currency() string {
	for _, tx := range l.transactions {
		if c := tx.Amount.Currency(); c != "" {
			return c
		}
		if c := tx.Price.Currency(); c != "" {
			return c
		}
	}
	return ""
}

// Clone returns an independent copy. Engines snapshot the ledger so that a
// running computation never observes appends.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{transactions: slices.Clone(l.transactions)}
}
