package trans

import (
	"fmt"
	"strings"
)

// Op is an n-ary operator. Its string value is the SMT-LIB symbol for the
// operator, which is also used when rendering expressions for humans.
type Op string

const (
	OpAnd     Op = "and"
	OpOr      Op = "or"
	OpNot     Op = "not"
	OpImplies Op = "=>"
	OpIte     Op = "ite"
	OpEq      Op = "="
	OpLt      Op = "<"
	OpLe      Op = "<="
	OpGt      Op = ">"
	OpGe      Op = ">="
	OpAdd     Op = "+"
	OpSub     Op = "-"
	OpMul     Op = "*"
	OpDiv     Op = "/"
	OpIDiv    Op = "div"
	OpMod     Op = "mod"
)

// Expr is a node in an expression tree over the state variables of a system.
// Trees are immutable once built; the same Expr may be shared freely.
//
// Sort-checking is the front end's responsibility. Constructors here compute
// result sorts assuming well-sorted arguments.
type Expr interface {
	// Sort returns the sort of the value this expression evaluates to.
	Sort() Sort
	fmt.Stringer
}

// Cst is a constant expression.
type Cst struct {
	Val Val
}

func (c Cst) Sort() Sort     { return c.Val.Sort() }
func (c Cst) String() string { return c.Val.String() }

// True and False are the boolean constant expressions.
var (
	True  = Cst{Val: BoolVal(true)}
	False = Cst{Val: BoolVal(false)}
)

// Var is a reference to a state variable. A primed reference denotes the
// variable in the successor state and is only legal inside the transition
// relation.
type Var struct {
	ID     string
	Primed bool
	sort   Sort
}

// NewVar returns an unprimed reference to the variable id of the given sort.
func NewVar(id string, sort Sort) Var {
	return Var{ID: id, sort: sort}
}

// Prime returns the primed version of a variable reference.
func (v Var) Prime() Var {
	v.Primed = true
	return v
}

func (v Var) Sort() Sort { return v.sort }

func (v Var) String() string {
	if v.Primed {
		return v.ID + "'"
	}
	return v.ID
}

// App is the application of an operator to zero or more arguments.
type App struct {
	Op   Op
	Args []Expr
	sort Sort
}

func (a App) Sort() Sort { return a.sort }

func (a App) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(string(a.Op))
	for _, arg := range a.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// NewApp builds an operator application with an explicit result sort. Most
// callers want the typed constructors below.
func NewApp(op Op, sort Sort, args ...Expr) App {
	return App{Op: op, Args: args, sort: sort}
}

// And builds a conjunction. Zero arguments denote true.
func And(args ...Expr) Expr { return NewApp(OpAnd, Bool, args...) }

// Or builds a disjunction. Zero arguments denote false.
func Or(args ...Expr) Expr { return NewApp(OpOr, Bool, args...) }

// Not negates a boolean expression.
func Not(arg Expr) Expr { return NewApp(OpNot, Bool, arg) }

// Implies builds an implication.
func Implies(lhs, rhs Expr) Expr { return NewApp(OpImplies, Bool, lhs, rhs) }

// Ite builds an if-then-else; the result sort is the sort of the branches.
func Ite(cnd, thn, els Expr) Expr { return NewApp(OpIte, thn.Sort(), cnd, thn, els) }

// Eq compares two expressions of the same sort.
func Eq(lhs, rhs Expr) Expr { return NewApp(OpEq, Bool, lhs, rhs) }

// Lt, Le, Gt and Ge compare two numeric expressions.
func Lt(lhs, rhs Expr) Expr { return NewApp(OpLt, Bool, lhs, rhs) }
func Le(lhs, rhs Expr) Expr { return NewApp(OpLe, Bool, lhs, rhs) }
func Gt(lhs, rhs Expr) Expr { return NewApp(OpGt, Bool, lhs, rhs) }
func Ge(lhs, rhs Expr) Expr { return NewApp(OpGe, Bool, lhs, rhs) }

// Add builds a sum over numeric expressions of one sort.
func Add(args ...Expr) Expr { return NewApp(OpAdd, numSort(args), args...) }

// Sub builds a difference; with a single argument it denotes unary negation.
func Sub(args ...Expr) Expr { return NewApp(OpSub, numSort(args), args...) }

// Mul builds a product over numeric expressions of one sort.
func Mul(args ...Expr) Expr { return NewApp(OpMul, numSort(args), args...) }

// Div builds a rational division.
func Div(lhs, rhs Expr) Expr { return NewApp(OpDiv, Rat, lhs, rhs) }

// IDiv builds an integer division.
func IDiv(lhs, rhs Expr) Expr { return NewApp(OpIDiv, Int, lhs, rhs) }

// Mod builds an integer remainder.
func Mod(lhs, rhs Expr) Expr { return NewApp(OpMod, Int, lhs, rhs) }

func numSort(args []Expr) Sort {
	for _, a := range args {
		if a.Sort() == Rat {
			return Rat
		}
	}
	return Int
}
