package folio

// Lot represents a single purchase of a security, used for cost basis
// calculations.
type Lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money // Total cost of the lot (quantity * price, fees included)
}

type lots []Lot

// quantity returns the total quantity held across all lots.
func (l lots) quantity() Quantity {
	var total Quantity
	for _, currentLot := range l {
		total = total.Add(currentLot.Quantity)
	}
	return total
}

// cost returns the total cost basis across all lots.
func (l lots) cost() Money {
	var total Money
	for _, currentLot := range l {
		total = total.Add(currentLot.Cost)
	}
	return total
}

// consume removes quantityToSell from the oldest lots first and returns the
// FIFO cost of the sold shares together with the remaining lots. A partial
// sale out of a lot reduces its cost proportionally.
//
// Callers must not consume more than l.quantity(); the oversell policy is
// resolved before lots are touched.
func (l lots) consume(quantityToSell Quantity) (costOfSoldShares Money, remaining lots) {
	for _, currentLot := range l {
		switch {
		case quantityToSell.IsZero():
			remaining = append(remaining, currentLot)

		case currentLot.Quantity.GreaterThan(quantityToSell):
			// Partial sale from this lot
			costOfSoldPortion := currentLot.Cost.Mul(quantityToSell).Div(currentLot.Quantity)
			costOfSoldShares = costOfSoldShares.Add(costOfSoldPortion)
			remaining = append(remaining, Lot{
				Date:     currentLot.Date,
				Quantity: currentLot.Quantity.Sub(quantityToSell),
				Cost:     currentLot.Cost.Sub(costOfSoldPortion),
			})
			quantityToSell = Q(0)

		default:
			// Full sale of this lot
			costOfSoldShares = costOfSoldShares.Add(currentLot.Cost)
			quantityToSell = quantityToSell.Sub(currentLot.Quantity)
		}
	}
	return costOfSoldShares, remaining
}
