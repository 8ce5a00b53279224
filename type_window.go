package folio

import (
	"fmt"
	"strings"
)

// ErrUnknownPeriod is returned when a period token is not recognized.
var ErrUnknownPeriod = fmt.Errorf("unknown period token")

// Window is a reporting window derived from a period token and a reference
// end date. A window with a zero From is open-ended: it starts at the
// ledger's inception.
type Window struct {
	Token string
	From  Date // zero for open-ended windows
	To    Date
}

// ParseWindow derives the window for a period token ending on 'end'.
// Derivation is purely calendar arithmetic: the same token and end date
// always produce the same window.
//
// Supported tokens: "1m", "3m", "6m", "ytd", "1y", "2y", "3y", "5y" and
// "inception" (aliases "max", "all").
func ParseWindow(token string, end Date) (Window, error) {
	w := Window{Token: strings.ToLower(strings.TrimSpace(token)), To: end}
	switch w.Token {
	case "1m":
		w.From = end.AddMonths(-1)
	case "3m":
		w.From = end.AddMonths(-3)
	case "6m":
		w.From = end.AddMonths(-6)
	case "ytd":
		w.From = NewDate(end.Year(), 1, 1)
	case "1y":
		w.From = end.AddYears(-1)
	case "2y":
		w.From = end.AddYears(-2)
	case "3y":
		w.From = end.AddYears(-3)
	case "5y":
		w.From = end.AddYears(-5)
	case "inception", "max", "all":
		w.Token = "inception"
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
	}
	return w, nil
}

// Open reports whether the window start is unresolved until inception is known.
func (w Window) Open() bool { return w.From.IsZero() }

// Resolve pins the window to a concrete date range given the ledger's
// inception date. A bounded window that starts before inception is clamped
// to inception; adjusted reports that clamping happened.
func (w Window) Resolve(inception Date) (r Range, adjusted bool) {
	if w.Open() || w.From.Before(inception) {
		return NewRange(inception, w.To), !w.Open()
	}
	return NewRange(w.From, w.To), false
}

func (w Window) String() string {
	if w.Open() {
		return fmt.Sprintf("inception..%s", w.To)
	}
	return fmt.Sprintf("%s (%s..%s)", w.Token, w.From, w.To)
}
