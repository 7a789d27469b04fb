package smt

import (
	"math/big"

	"github.com/kinduct/kinduct/pkg/trans"
)

// ValueQuery names a declared symbol and the sort its model value must parse
// under.
type ValueQuery struct {
	Symbol string
	Sort   trans.Sort
}

// Binding pairs a queried symbol with its value in the current model.
type Binding struct {
	Symbol string
	Val    trans.Val
}

// parseValueResponse checks a get-value response against the queries that
// produced it and parses each value into a typed literal. The solver must
// echo the queried symbols back in order; anything else is a protocol error.
func parseValueResponse(sx sexpr, queries []ValueQuery) ([]Binding, error) {
	pairs, ok := sx.([]sexpr)
	if !ok {
		return nil, protocolErrorf("get-value response is not a list: %s", sexprString(sx))
	}
	if len(pairs) != len(queries) {
		return nil, protocolErrorf(
			"get-value response has %d entries, expected %d", len(pairs), len(queries),
		)
	}
	bindings := make([]Binding, len(pairs))
	for i, p := range pairs {
		pair, ok := p.([]sexpr)
		if !ok || len(pair) != 2 {
			return nil, protocolErrorf("malformed get-value entry %s", sexprString(p))
		}
		sym, ok := pair[0].(string)
		// Solvers are free to echo `|x@0|` back without the quoting
		// pipes, so symbols compare unquoted.
		if !ok || unquoteSymbol(sym) != unquoteSymbol(queries[i].Symbol) {
			return nil, protocolErrorf(
				"get-value entry %s does not match queried symbol %s",
				sexprString(pair[0]), queries[i].Symbol,
			)
		}
		val, err := parseVal(pair[1], queries[i].Sort)
		if err != nil {
			return nil, err
		}
		bindings[i] = Binding{Symbol: sym, Val: val}
	}
	return bindings, nil
}

func unquoteSymbol(s string) string {
	if len(s) >= 2 && s[0] == '|' && s[len(s)-1] == '|' {
		return s[1 : len(s)-1]
	}
	return s
}

// parseVal parses a model value under the sort of the symbol it was queried
// for. Rational values may come back as `n`, `n.m`, `(/ n d)`, `(- v)`, or
// any nesting of the last two.
func parseVal(sx sexpr, sort trans.Sort) (trans.Val, error) {
	switch sort {
	case trans.Bool:
		atom, ok := sx.(string)
		if !ok {
			return trans.Val{}, protocolErrorf("expected boolean value, got %s", sexprString(sx))
		}
		switch atom {
		case "true":
			return trans.BoolVal(true), nil
		case "false":
			return trans.BoolVal(false), nil
		}
		return trans.Val{}, protocolErrorf("expected boolean value, got %q", atom)

	case trans.Int:
		i, err := parseIntVal(sx)
		if err != nil {
			return trans.Val{}, err
		}
		return trans.IntVal(i), nil

	case trans.Rat:
		r, err := parseRatVal(sx)
		if err != nil {
			return trans.Val{}, err
		}
		return trans.RatVal(r), nil
	}
	return trans.Val{}, protocolErrorf("cannot parse value of sort %v", sort)
}

func parseIntVal(sx sexpr) (*big.Int, error) {
	switch v := sx.(type) {
	case string:
		i, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, protocolErrorf("expected integer value, got %q", v)
		}
		return i, nil
	case []sexpr:
		if len(v) == 2 && v[0] == "-" {
			inner, err := parseIntVal(v[1])
			if err != nil {
				return nil, err
			}
			return inner.Neg(inner), nil
		}
	}
	return nil, protocolErrorf("expected integer value, got %s", sexprString(sx))
}

func parseRatVal(sx sexpr) (*big.Rat, error) {
	switch v := sx.(type) {
	case string:
		// big.Rat accepts both plain integers and decimal notation,
		// which is how z3 prints real constants like `0.0` or `1.5`.
		r, ok := new(big.Rat).SetString(v)
		if !ok {
			return nil, protocolErrorf("expected rational value, got %q", v)
		}
		return r, nil
	case []sexpr:
		if len(v) == 2 && v[0] == "-" {
			inner, err := parseRatVal(v[1])
			if err != nil {
				return nil, err
			}
			return inner.Neg(inner), nil
		}
		if len(v) == 3 && v[0] == "/" {
			num, err := parseRatVal(v[1])
			if err != nil {
				return nil, err
			}
			den, err := parseRatVal(v[2])
			if err != nil {
				return nil, err
			}
			if den.Sign() == 0 {
				return nil, protocolErrorf("division by zero in rational value %s", sexprString(sx))
			}
			return num.Quo(num, den), nil
		}
	}
	return nil, protocolErrorf("expected rational value, got %s", sexprString(sx))
}
