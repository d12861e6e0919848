// Package numerology implements transcendental reduction, the repeated
// digit-sum used everywhere a number is "reduced" in the realm engine.
//
// Reduction rules:
//   - Values 0-9 are returned unchanged.
//   - Master numbers (11, 22, 33, 44) are returned unchanged, whether they
//     are the input itself or the result of any digit-sum step.
//   - Otherwise the value is replaced by the sum of its base-10 digits until
//     one of the two conditions above holds.
//
// Halting at the first intermediate master number keeps Reduce idempotent:
// Reduce(Reduce(n)) == Reduce(n) for every n.
package numerology

import (
	"math"

	"github.com/phrazzld/numina/internal/domain"
)

// Reduce returns the single digit or master number for n.
// Negative input reduces by magnitude.
func Reduce(n int) int {
	switch {
	case n == math.MinInt:
		// -MinInt overflows; its magnitude is not a master number, so
		// taking the digit sum first reduces to the same value.
		n = DigitSum(n)
	case n < 0:
		n = -n
	}

	for {
		if n <= 9 || IsMaster(n) {
			return n
		}
		n = DigitSum(n)
	}
}

// IsMaster reports whether n is one of the master numbers 11, 22, 33 or 44.
func IsMaster(n int) bool {
	return domain.IsMasterNumber(n)
}

// DigitSum returns the sum of the base-10 digits of |n|.
func DigitSum(n int) int {
	m := uint(n)
	if n < 0 {
		m = uint(-(n + 1)) + 1
	}

	sum := 0
	for m > 0 {
		sum += int(m % 10)
		m /= 10
	}
	return sum
}

// ReduceAll reduces each value and returns the reduced sum of the results.
// It is the building block for multi-component numbers such as dates.
func ReduceAll(values ...int) int {
	total := 0
	for _, v := range values {
		total += Reduce(v)
	}
	return Reduce(total)
}
