package storeclient

import (
	"github.com/shopspring/decimal"

	"panel-store/internal/model"
)

// CustomerFee is the fee the buyer pays on top of the package price for a
// channel: max(flat + price*percent/100, minimum_fee), clamped to
// maximum_fee when one is set. This must match what the gateway itself
// charges; it is recomputed here only for display in the confirmation step.
func CustomerFee(price int, ch model.Channel) int {
	fee := decimal.NewFromInt(int64(ch.FeeCustomer.Flat)).
		Add(decimal.NewFromInt(int64(price)).
			Mul(decimal.NewFromFloat(ch.FeeCustomer.Percent)).
			Div(decimal.NewFromInt(100)))

	min := decimal.NewFromInt(int64(ch.MinimumFee))
	if fee.LessThan(min) {
		fee = min
	}
	if ch.MaximumFee > 0 {
		max := decimal.NewFromInt(int64(ch.MaximumFee))
		if fee.GreaterThan(max) {
			fee = max
		}
	}
	return int(fee.Round(0).IntPart())
}

// CustomerTotal is the displayed total for the confirmation step.
func CustomerTotal(price int, ch model.Channel) int {
	return price + CustomerFee(price, ch)
}
