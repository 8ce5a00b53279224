package folio

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains returns true if date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// DayCount returns the number of days spanned, boundaries included.
func (r Range) DayCount() int { return r.To.Sub(r.From) + 1 }

// Years returns the span expressed in average calendar years.
func (r Range) Years() float64 { return float64(r.To.Sub(r.From)) / 365.25 }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
