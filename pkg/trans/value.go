package trans

import (
	"math/big"
)

// Val is a typed literal: a boolean, an arbitrary-precision integer, or an
// arbitrary-precision rational. Values appear as constants in expressions and
// as variable assignments in counterexample traces.
type Val struct {
	sort Sort
	b    bool
	i    *big.Int
	r    *big.Rat
}

// BoolVal returns a boolean literal.
func BoolVal(b bool) Val {
	return Val{sort: Bool, b: b}
}

// IntVal returns an integer literal.
func IntVal(i *big.Int) Val {
	return Val{sort: Int, i: i}
}

// Int64Val returns an integer literal from a native int64.
func Int64Val(i int64) Val {
	return IntVal(big.NewInt(i))
}

// RatVal returns a rational literal.
func RatVal(r *big.Rat) Val {
	return Val{sort: Rat, r: r}
}

// Rat64Val returns a rational literal from a native numerator and denominator.
func Rat64Val(num, den int64) Val {
	return RatVal(big.NewRat(num, den))
}

func (v Val) Sort() Sort { return v.sort }

// Bool returns the boolean payload. Only meaningful when Sort() == Bool.
func (v Val) Bool() bool { return v.b }

// Int returns the integer payload. Only meaningful when Sort() == Int.
func (v Val) Int() *big.Int { return v.i }

// Rat returns the rational payload. Only meaningful when Sort() == Rat.
func (v Val) Rat() *big.Rat { return v.r }

// Equal reports whether two values have the same sort and payload.
func (v Val) Equal(o Val) bool {
	if v.sort != o.sort {
		return false
	}
	switch v.sort {
	case Bool:
		return v.b == o.b
	case Int:
		return v.i.Cmp(o.i) == 0
	case Rat:
		return v.r.Cmp(o.r) == 0
	}
	return false
}

func (v Val) String() string {
	switch v.sort {
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return v.i.String()
	case Rat:
		return v.r.RatString()
	}
	return "<invalid>"
}
