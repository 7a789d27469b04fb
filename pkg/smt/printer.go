package smt

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/kinduct/kinduct/pkg/trans"
)

// SymbolAt returns the SMT symbol for the variable id unrolled at the given
// step index.
func SymbolAt(id string, step int) string {
	return "|" + id + "@" + strconv.Itoa(step) + "|"
}

// SortSymbol returns the SMT-LIB sort for a system sort.
func SortSymbol(sort trans.Sort) string {
	switch sort {
	case trans.Bool:
		return "Bool"
	case trans.Int:
		return "Int"
	case trans.Rat:
		return "Real"
	}
	panic(fmt.Sprintf("no SMT sort for %v", sort))
}

// LogicFor returns the logic the checkers run under for a system: linear
// rational arithmetic when any rational variable appears, linear integer
// arithmetic otherwise.
func LogicFor(sys *trans.System) string {
	if sys.HasRat() {
		return "QF_LRA"
	}
	return "QF_LIA"
}

// ExprAt renders an expression as an SMT-LIB term at a step index. Unprimed
// variable references become |id@step|, primed references |id@step+1|. The
// rendering is a plain structural fold; no sharing, no simplification.
func ExprAt(e trans.Expr, step int) string {
	var sb strings.Builder
	writeExpr(&sb, e, step)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e trans.Expr, step int) {
	switch n := e.(type) {
	case trans.Cst:
		writeVal(sb, n.Val)
	case trans.Var:
		at := step
		if n.Primed {
			at = step + 1
		}
		sb.WriteString(SymbolAt(n.ID, at))
	case trans.App:
		writeApp(sb, n, step)
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

func writeApp(sb *strings.Builder, a trans.App, step int) {
	// Empty conjunctions and disjunctions have no SMT-LIB form; they
	// collapse to their neutral element.
	if len(a.Args) == 0 {
		switch a.Op {
		case trans.OpAnd:
			sb.WriteString("true")
			return
		case trans.OpOr:
			sb.WriteString("false")
			return
		}
	}
	sb.WriteByte('(')
	sb.WriteString(string(a.Op))
	for _, arg := range a.Args {
		sb.WriteByte(' ')
		writeExpr(sb, arg, step)
	}
	sb.WriteByte(')')
}

func writeVal(sb *strings.Builder, v trans.Val) {
	switch v.Sort() {
	case trans.Bool:
		if v.Bool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case trans.Int:
		writeInt(sb, v.Int())
	case trans.Rat:
		writeRat(sb, v.Rat())
	default:
		panic(fmt.Sprintf("no SMT form for value of sort %v", v.Sort()))
	}
}

func writeInt(sb *strings.Builder, i *big.Int) {
	if i.Sign() < 0 {
		sb.WriteString("(- ")
		sb.WriteString(new(big.Int).Neg(i).String())
		sb.WriteByte(')')
		return
	}
	sb.WriteString(i.String())
}

func writeRat(sb *strings.Builder, r *big.Rat) {
	if r.Sign() < 0 {
		sb.WriteString("(- ")
		writeRat(sb, new(big.Rat).Neg(r))
		sb.WriteByte(')')
		return
	}
	if r.IsInt() {
		sb.WriteString(r.Num().String())
		return
	}
	sb.WriteString("(/ ")
	sb.WriteString(r.Num().String())
	sb.WriteByte(' ')
	sb.WriteString(r.Denom().String())
	sb.WriteByte(')')
}
