package parse

import (
	"fmt"
	"math/big"

	"github.com/kinduct/kinduct/pkg/trans"
)

// System parses the textual description of a transition system: an `svars`
// block, an `init` block, a `trans` block, and one or more `po` blocks.
// Expressions are sort-checked while parsing; the resulting trans.System
// needs no further checking.
func System(src string) (*trans.System, error) {
	lx, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{lexer: lx, sorts: make(map[string]trans.Sort)}
	return p.system()
}

type parser struct {
	*lexer
	pos         int
	decls       []trans.Decl
	sorts       map[string]trans.Sort
	allowPrimed bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errAt(t token, format string, args ...interface{}) *Error {
	return p.err(t.row, t.col, fmt.Sprintf(format, args...))
}

func (p *parser) expectSym(sym string) (token, error) {
	t := p.next()
	if t.kind != tokSym || t.text != sym {
		return t, p.errAt(t, "expected `%s`, found %s", sym, t)
	}
	return t, nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t := p.next()
	if t.kind != tokIdent || t.text != kw {
		return t, p.errAt(t, "expected `%s`, found %s", kw, t)
	}
	return t, nil
}

func (p *parser) eatSym(sym string) bool {
	t := p.peek()
	if t.kind == tokSym && t.text == sym {
		p.pos++
		return true
	}
	return false
}

func (p *parser) system() (*trans.System, error) {
	if err := p.svars(); err != nil {
		return nil, err
	}

	init, err := p.block("init", false)
	if err != nil {
		return nil, err
	}
	trn, err := p.block("trans", true)
	if err != nil {
		return nil, err
	}

	var pos []trans.PO
	seen := make(map[string]bool)
	for {
		t := p.peek()
		if t.kind == tokEOF {
			break
		}
		if t.kind != tokIdent || t.text != "po" {
			return nil, p.errAt(t, "expected `po` or end of input, found %s", t)
		}
		p.next()
		name := p.next()
		if name.kind != tokString {
			return nil, p.errAt(name, "expected a quoted proof obligation name, found %s", name)
		}
		if seen[name.text] {
			return nil, p.errAt(name, "duplicate proof obligation %q", name.text)
		}
		seen[name.text] = true
		def, err := p.braced(false)
		if err != nil {
			return nil, err
		}
		if def.Sort() != trans.Bool {
			return nil, p.errAt(name, "proof obligation %q must be boolean", name.text)
		}
		pos = append(pos, trans.PO{Name: name.text, Def: def})
	}
	if len(pos) == 0 {
		return nil, p.errAt(p.peek(), "expected at least one `po` block")
	}

	sys, err := trans.NewSystem(p.decls, init, trn, pos)
	if err != nil {
		return nil, p.errAt(p.peek(), "%v", err)
	}
	return sys, nil
}

func (p *parser) svars() error {
	if _, err := p.expectKeyword("svars"); err != nil {
		return err
	}
	if _, err := p.expectSym("{"); err != nil {
		return err
	}
	for {
		if p.eatSym("}") {
			if len(p.decls) == 0 {
				return p.errAt(p.peek(), "a system needs at least one state variable")
			}
			return nil
		}
		id := p.next()
		if id.kind != tokIdent {
			return p.errAt(id, "expected a state variable name, found %s", id)
		}
		if _, dup := p.sorts[id.text]; dup {
			return p.errAt(id, "duplicate state variable %q", id.text)
		}
		if _, err := p.expectSym(":"); err != nil {
			return err
		}
		st := p.next()
		sort, ok := sortNames[st.text]
		if st.kind != tokIdent || !ok {
			return p.errAt(st, "expected a sort (`bool`, `int` or `rat`), found %s", st)
		}
		p.decls = append(p.decls, trans.Decl{ID: id.text, Sort: sort})
		p.sorts[id.text] = sort
		if !p.eatSym(",") {
			if _, err := p.expectSym("}"); err != nil {
				return err
			}
			if len(p.decls) == 0 {
				return p.errAt(p.peek(), "a system needs at least one state variable")
			}
			return nil
		}
	}
}

var sortNames = map[string]trans.Sort{
	"bool": trans.Bool,
	"int":  trans.Int,
	"rat":  trans.Rat,
}

func (p *parser) block(kw string, primed bool) (trans.Expr, error) {
	if _, err := p.expectKeyword(kw); err != nil {
		return nil, err
	}
	e, err := p.braced(primed)
	if err != nil {
		return nil, err
	}
	if e.Sort() != trans.Bool {
		return nil, p.errAt(p.peek(), "the `%s` predicate must be boolean", kw)
	}
	return e, nil
}

func (p *parser) braced(primed bool) (trans.Expr, error) {
	if _, err := p.expectSym("{"); err != nil {
		return nil, err
	}
	p.allowPrimed = primed
	e, err := p.expr()
	p.allowPrimed = false
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSym("}"); err != nil {
		return nil, err
	}
	return e, nil
}

// expr parses an implication, the loosest level. `=>` is right-associative.
func (p *parser) expr() (trans.Expr, error) {
	lhs, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if !p.eatSym("=>") {
		return lhs, nil
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if lhs.Sort() != trans.Bool || rhs.Sort() != trans.Bool {
		return nil, p.errAt(t, "`=>` takes boolean operands")
	}
	return trans.Implies(lhs, rhs), nil
}

func (p *parser) orExpr() (trans.Expr, error) {
	return p.boolChain("||", trans.Or, p.andExpr)
}

func (p *parser) andExpr() (trans.Expr, error) {
	return p.boolChain("&&", trans.And, p.cmpExpr)
}

func (p *parser) boolChain(
	sym string, build func(...trans.Expr) trans.Expr, sub func() (trans.Expr, error),
) (trans.Expr, error) {
	first, err := sub()
	if err != nil {
		return nil, err
	}
	args := []trans.Expr{first}
	for {
		t := p.peek()
		if !p.eatSym(sym) {
			break
		}
		arg, err := sub()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if first.Sort() != trans.Bool || arg.Sort() != trans.Bool {
			return nil, p.errAt(t, "`%s` takes boolean operands", sym)
		}
	}
	if len(args) == 1 {
		return first, nil
	}
	return build(args...), nil
}

var cmpOps = map[string]func(lhs, rhs trans.Expr) trans.Expr{
	"=":  trans.Eq,
	"<":  trans.Lt,
	"<=": trans.Le,
	">":  trans.Gt,
	">=": trans.Ge,
}

func (p *parser) cmpExpr() (trans.Expr, error) {
	lhs, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokSym {
		return lhs, nil
	}
	build, isCmp := cmpOps[t.text]
	neq := t.text == "!="
	if !isCmp && !neq {
		return lhs, nil
	}
	p.next()
	rhs, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	lhs, rhs, ok := unifySorts(lhs, rhs)
	if !ok {
		return nil, p.errAt(t, "`%s` takes operands of the same sort, found %v and %v",
			t.text, lhs.Sort(), rhs.Sort())
	}
	if t.text != "=" && t.text != "!=" && !lhs.Sort().Numeric() {
		return nil, p.errAt(t, "`%s` takes numeric operands", t.text)
	}
	if neq {
		return trans.Not(trans.Eq(lhs, rhs)), nil
	}
	return build(lhs, rhs), nil
}

func (p *parser) addExpr() (trans.Expr, error) {
	lhs, err := p.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokSym || (t.text != "+" && t.text != "-") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.mulExpr()
		if err != nil {
			return nil, err
		}
		l, r, ok := unifySorts(lhs, rhs)
		if !ok || !l.Sort().Numeric() {
			return nil, p.errAt(t, "`%s` takes numeric operands of the same sort", t.text)
		}
		if t.text == "+" {
			lhs = trans.Add(l, r)
		} else {
			lhs = trans.Sub(l, r)
		}
	}
}

func (p *parser) mulExpr() (trans.Expr, error) {
	lhs, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		isMul := t.kind == tokSym && (t.text == "*" || t.text == "/")
		isKw := t.kind == tokIdent && (t.text == "div" || t.text == "mod")
		if !isMul && !isKw {
			return lhs, nil
		}
		p.next()
		rhs, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		switch t.text {
		case "*":
			l, r, ok := unifySorts(lhs, rhs)
			if !ok || !l.Sort().Numeric() {
				return nil, p.errAt(t, "`*` takes numeric operands of the same sort")
			}
			lhs = trans.Mul(l, r)
		case "/":
			l, lok := ratOperand(lhs)
			r, rok := ratOperand(rhs)
			if !lok || !rok {
				return nil, p.errAt(t, "`/` takes rational operands")
			}
			// A division of two literals is a rational literal.
			if lc, isL := l.(trans.Cst); isL {
				if rc, isR := r.(trans.Cst); isR {
					if rc.Val.Rat().Sign() == 0 {
						return nil, p.errAt(t, "division by zero")
					}
					q := new(big.Rat).Quo(lc.Val.Rat(), rc.Val.Rat())
					lhs = trans.Cst{Val: trans.RatVal(q)}
					continue
				}
			}
			lhs = trans.Div(l, r)
		case "div", "mod":
			if lhs.Sort() != trans.Int || rhs.Sort() != trans.Int {
				return nil, p.errAt(t, "`%s` takes integer operands", t.text)
			}
			if t.text == "div" {
				lhs = trans.IDiv(lhs, rhs)
			} else {
				lhs = trans.Mod(lhs, rhs)
			}
		}
	}
}

func (p *parser) unaryExpr() (trans.Expr, error) {
	t := p.peek()
	if t.kind == tokSym && t.text == "!" {
		p.next()
		e, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		if e.Sort() != trans.Bool {
			return nil, p.errAt(t, "`!` takes a boolean operand")
		}
		return trans.Not(e), nil
	}
	if t.kind == tokSym && t.text == "-" {
		p.next()
		e, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		if !e.Sort().Numeric() {
			return nil, p.errAt(t, "`-` takes a numeric operand")
		}
		// Fold literal negation so that `-1` is a constant.
		if c, ok := e.(trans.Cst); ok {
			switch c.Sort() {
			case trans.Int:
				return trans.Cst{Val: trans.IntVal(new(big.Int).Neg(c.Val.Int()))}, nil
			case trans.Rat:
				return trans.Cst{Val: trans.RatVal(new(big.Rat).Neg(c.Val.Rat()))}, nil
			}
		}
		return trans.Sub(e), nil
	}
	return p.atom()
}

func (p *parser) atom() (trans.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		i, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return nil, p.errAt(t, "malformed integer literal %s", t)
		}
		return trans.Cst{Val: trans.IntVal(i)}, nil

	case tokIdent:
		switch t.text {
		case "true":
			return trans.True, nil
		case "false":
			return trans.False, nil
		case "ite":
			return p.ite(t)
		}
		sort, ok := p.sorts[t.text]
		if !ok {
			return nil, p.errAt(t, "unknown state variable %q", t.text)
		}
		v := trans.NewVar(t.text, sort)
		if p.eatSym("'") {
			if !p.allowPrimed {
				return nil, p.errAt(t, "primed variables are only allowed in the transition relation")
			}
			return v.Prime(), nil
		}
		return v, nil

	case tokSym:
		if t.text == "(" {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSym(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.errAt(t, "expected an expression, found %s", t)
}

func (p *parser) ite(t token) (trans.Expr, error) {
	if _, err := p.expectSym("("); err != nil {
		return nil, err
	}
	cnd, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSym(","); err != nil {
		return nil, err
	}
	thn, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSym(","); err != nil {
		return nil, err
	}
	els, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSym(")"); err != nil {
		return nil, err
	}
	if cnd.Sort() != trans.Bool {
		return nil, p.errAt(t, "the condition of `ite` must be boolean")
	}
	thn, els, ok := unifySorts(thn, els)
	if !ok {
		return nil, p.errAt(t, "the branches of `ite` must have the same sort, found %v and %v",
			thn.Sort(), els.Sort())
	}
	return trans.Ite(cnd, thn, els), nil
}

// unifySorts reconciles the sorts of two operands, coercing integer literals
// to rationals against a rational operand.
func unifySorts(l, r trans.Expr) (trans.Expr, trans.Expr, bool) {
	if l.Sort() == r.Sort() {
		return l, r, true
	}
	if l.Sort() == trans.Rat {
		if c, ok := intLiteralAsRat(r); ok {
			return l, c, true
		}
	}
	if r.Sort() == trans.Rat {
		if c, ok := intLiteralAsRat(l); ok {
			return c, r, true
		}
	}
	return l, r, false
}

// ratOperand admits rational expressions and integer literals, which coerce.
func ratOperand(e trans.Expr) (trans.Expr, bool) {
	if e.Sort() == trans.Rat {
		return e, true
	}
	return intLiteralAsRat(e)
}

func intLiteralAsRat(e trans.Expr) (trans.Expr, bool) {
	c, ok := e.(trans.Cst)
	if !ok || c.Sort() != trans.Int {
		return e, false
	}
	return trans.Cst{Val: trans.RatVal(new(big.Rat).SetInt(c.Val.Int()))}, true
}
