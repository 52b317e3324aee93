package models

import (
	"math"
	"math/big"
)

var (
	ratOne = big.NewRat(1, 1)
	ratTen = big.NewRat(10, 1)
)

// quantizeDecimal rounds v the way a fixed-point decimal column of maxDigits
// digits with decimalPlaces fractional digits stores a float: first to maxDigits
// significant digits, then to decimalPlaces places, both ROUND_HALF_EVEN on the
// exact binary value of v.
func quantizeDecimal(v float64, maxDigits, decimalPlaces int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	x := new(big.Rat).SetFloat64(v)
	x = roundHalfEven(x, maxDigits-1-decimalExponent(x))
	x = roundHalfEven(x, decimalPlaces)

	f, _ := x.Float64()
	return f
}

// decimalExponent returns e such that 10^e <= |x| < 10^(e+1); x must not be zero
func decimalExponent(x *big.Rat) int {
	a := new(big.Rat).Abs(x)
	if a.Cmp(ratOne) >= 0 {
		whole := new(big.Int).Quo(a.Num(), a.Denom())
		return len(whole.String()) - 1
	}

	e := 0
	for a.Cmp(ratOne) < 0 {
		a.Mul(a, ratTen)
		e--
	}
	return e
}

// roundHalfEven rounds x to places fractional digits; negative places round
// to tens, hundreds and so on
func roundHalfEven(x *big.Rat, places int) *big.Rat {
	n := places
	if n < 0 {
		n = -n
	}
	scale := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))

	scaled := new(big.Rat).Set(x)
	if places >= 0 {
		scaled.Mul(scaled, scale)
	} else {
		scaled.Quo(scaled, scale)
	}

	q, r := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	twice := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
	if c := twice.Cmp(scaled.Denom()); c > 0 || (c == 0 && q.Bit(0) == 1) {
		if scaled.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}

	out := new(big.Rat).SetInt(q)
	if places >= 0 {
		return out.Quo(out, scale)
	}
	return out.Mul(out, scale)
}
