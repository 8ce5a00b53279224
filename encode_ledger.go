package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// txLine is the JSONL wire form of a Transaction: flat decimal fields plus
// a single currency for price, amount and fee.
type txLine struct {
	Command  TxType          `json:"command"`
	Date     Date            `json:"date"`
	Security string          `json:"security"`
	Quantity Quantity        `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	Fee      decimal.Decimal `json:"fee"`
	Currency string          `json:"currency,omitempty"`
	Memo     string          `json:"memo,omitempty"`
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var line txLine
		if err := json.Unmarshal(lineBytes, &line); err != nil {
			return nil, fmt.Errorf("could not decode transaction line %q: %w", string(lineBytes), err)
		}

		tx := Transaction{
			Command:  line.Command,
			Date:     line.Date,
			Security: line.Security,
			Quantity: line.Quantity,
			Price:    M(line.Price, line.Currency),
			Amount:   M(line.Amount, line.Currency),
			Fee:      M(line.Fee, line.Currency),
			Memo:     line.Memo,
		}
		if err := ledger.Append(tx); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// EncodeTransaction marshals a single transaction and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	line := txLine{
		Command:  tx.Command,
		Date:     tx.Date,
		Security: tx.Security,
		Quantity: tx.Quantity,
		Price:    tx.UnitPrice().value,
		Amount:   tx.Consideration().value,
		Fee:      tx.Fee.value,
		Currency: cur(tx.Amount, cur2(tx.Price, tx.Fee)),
		Memo:     tx.Memo,
	}
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// cur2 merges two monies' currencies, keeping "" weak.
func cur2(a, b Money) Money { return Money{cur: cur(a, b)} }

// EncodeLedger persists the ledger to an io.Writer in JSONL format, in
// chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
