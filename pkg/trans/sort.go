package trans

import "fmt"

// Sort is the type of a state variable or expression.
type Sort int

const (
	Bool Sort = iota
	Int
	Rat
)

func (s Sort) String() string {
	switch s {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Rat:
		return "rat"
	}
	return fmt.Sprintf("Sort(%d)", int(s))
}

// Numeric reports whether the sort supports arithmetic.
func (s Sort) Numeric() bool {
	return s == Int || s == Rat
}
