package fee

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveGross  = errors.New("gross amount must be positive")
	ErrPercentOutOfRange = errors.New("percent fee must be between 0 and 100")
	ErrNegativeFixed     = errors.New("fixed fee cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// Breakdown carries the separate fee components so audit text can report
// the percentage and fixed parts individually.
type Breakdown struct {
	Gross      decimal.Decimal
	PercentFee decimal.Decimal
	FixedFee   decimal.Decimal
	Net        decimal.Decimal
}

// Calculate derives the net payable amount from a gross amount, a percentage
// fee and a fixed per-transaction fee. Net is clamped at zero. Pure, no I/O.
func Calculate(gross, percent, fixed decimal.Decimal) (Breakdown, error) {
	if !gross.IsPositive() {
		return Breakdown{}, ErrNonPositiveGross
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return Breakdown{}, ErrPercentOutOfRange
	}
	if fixed.IsNegative() {
		return Breakdown{}, ErrNegativeFixed
	}

	percentFee := gross.Mul(percent).Div(hundred).Round(2)
	net := gross.Sub(percentFee).Sub(fixed)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Breakdown{
		Gross:      gross,
		PercentFee: percentFee,
		FixedFee:   fixed,
		Net:        net,
	}, nil
}
