package domain

import (
	"fmt"

	"github.com/fundtires/ledger_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value: an integer count of the smallest
// indivisible PLS unit. All accounting arithmetic happens on this type; no
// floating point is used anywhere money is represented.
type Amount int64

// BasisPointDenominator is the divisor for basis-point rates (100 bp = 1%).
const BasisPointDenominator = 10000

// Zero is the additive identity for Amount.
const Zero Amount = 0

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub returns a - b, failing with ErrUnderflow if the result would be negative.
// No mutation-path caller may swallow this error; a failed Sub means the
// operation as a whole must be rejected.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d", apperrors.ErrUnderflow, a, b)
	}
	return a - b, nil
}

// Split divides the amount by a basis-point rate, flooring the cut and
// assigning the remainder to the rest, so cut + rest == a exactly.
func (a Amount) Split(bp int64) (cut Amount, rest Amount) {
	// Computed as (a/10000)*bp + (a%10000)*bp/10000 to avoid int64 overflow
	// on a*bp for large amounts. Exact floor for 0 <= bp <= 10000.
	q := int64(a) / BasisPointDenominator
	r := int64(a) % BasisPointDenominator
	cut = Amount(q*bp + r*bp/BasisPointDenominator)
	return cut, a - cut
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// Decimal converts the amount for exact non-accounting arithmetic
// (leaderboard scores, display). Never used on a balance-mutation path.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

func (a Amount) String() string {
	return fmt.Sprintf("%d", int64(a))
}
