package trans

import (
	"fmt"
)

// Decl declares one state variable.
type Decl struct {
	ID   string
	Sort Sort
}

// PO is a named proof obligation: a boolean predicate over the unprimed state
// expected to hold in every reachable state.
type PO struct {
	Name string
	Def  Expr
}

// System is a discrete transition system: state variable declarations, an
// initial-state predicate, a transition relation, and an ordered collection
// of proof obligations.
//
// A System is immutable once built and is shared by reference among all
// checkers working on it.
type System struct {
	decls   []Decl
	init    Expr
	trans   Expr
	pos     []PO
	declIdx map[string]int
	poIdx   map[string]int
}

// NewSystem validates and assembles a system. Variable ids and PO names must
// be unique, and init, trans and every PO definition must be boolean.
func NewSystem(decls []Decl, init, trans Expr, pos []PO) (*System, error) {
	s := &System{
		decls:   decls,
		init:    init,
		trans:   trans,
		pos:     pos,
		declIdx: make(map[string]int, len(decls)),
		poIdx:   make(map[string]int, len(pos)),
	}
	for i, d := range decls {
		if _, dup := s.declIdx[d.ID]; dup {
			return nil, fmt.Errorf("duplicate state variable %q", d.ID)
		}
		s.declIdx[d.ID] = i
	}
	if init == nil || init.Sort() != Bool {
		return nil, fmt.Errorf("initial predicate must be boolean")
	}
	if trans == nil || trans.Sort() != Bool {
		return nil, fmt.Errorf("transition relation must be boolean")
	}
	for i, po := range pos {
		if _, dup := s.poIdx[po.Name]; dup {
			return nil, fmt.Errorf("duplicate proof obligation %q", po.Name)
		}
		if po.Def == nil || po.Def.Sort() != Bool {
			return nil, fmt.Errorf("proof obligation %q must be boolean", po.Name)
		}
		s.poIdx[po.Name] = i
	}
	return s, nil
}

// Decls returns the state variable declarations in declaration order.
func (s *System) Decls() []Decl { return s.decls }

// Init returns the initial-state predicate.
func (s *System) Init() Expr { return s.init }

// Trans returns the transition relation.
func (s *System) Trans() Expr { return s.trans }

// POs returns the proof obligations in source order.
func (s *System) POs() []PO { return s.pos }

// PO looks a proof obligation up by name.
func (s *System) PO(name string) (PO, bool) {
	i, ok := s.poIdx[name]
	if !ok {
		return PO{}, false
	}
	return s.pos[i], true
}

// Decl looks a state variable up by id.
func (s *System) Decl(id string) (Decl, bool) {
	i, ok := s.declIdx[id]
	if !ok {
		return Decl{}, false
	}
	return s.decls[i], true
}

// PONames returns the PO names in source order.
func (s *System) PONames() []string {
	names := make([]string, len(s.pos))
	for i, po := range s.pos {
		names[i] = po.Name
	}
	return names
}

// HasRat reports whether any state variable is rational-sorted. It decides
// the SMT logic used by the checkers.
func (s *System) HasRat() bool {
	for _, d := range s.decls {
		if d.Sort == Rat {
			return true
		}
	}
	return false
}

// MaxIDLen returns the length of the longest variable id, for column
// alignment when rendering traces.
func (s *System) MaxIDLen() int {
	max := 0
	for _, d := range s.decls {
		if len(d.ID) > max {
			max = len(d.ID)
		}
	}
	return max
}
