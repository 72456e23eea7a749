package grammar

import "fmt"

type productionNum int

const productionNumStart = productionNum(0)

func (n productionNum) Int() int {
	return int(n)
}

// Production is a rule A → β. The core treats the semantic action as
// opaque text; only the emitters interpret it.
type Production struct {
	num    productionNum
	lhs    *Symbol
	rhs    []*Symbol
	rhsLen int
	action string

	// prec is the production's effective precedence: an explicit
	// %prec override when present, otherwise the precedence of the
	// rightmost terminal in the RHS, otherwise precNil.
	prec int

	// assoc mirrors the associativity of the symbol prec came from.
	assoc AssocType
}

func newProduction(lhs *Symbol, rhs []*Symbol, action string) (*Production, error) {
	if lhs == nil {
		return nil, fmt.Errorf("LHS must be non-nil")
	}
	if lhs.IsTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol: %v", lhs)
	}
	for _, sym := range rhs {
		if sym == nil {
			return nil, fmt.Errorf("a symbol of RHS must be non-nil; LHS: %v", lhs)
		}
	}
	return &Production{
		num:    -1,
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
		action: action,
	}, nil
}

func (p *Production) Num() int {
	return p.num.Int()
}

func (p *Production) LHS() *Symbol {
	return p.lhs
}

func (p *Production) RHS() []*Symbol {
	return p.rhs
}

func (p *Production) Action() string {
	return p.action
}

func (p *Production) Precedence() int {
	return p.prec
}

func (p *Production) IsEmpty() bool {
	return p.rhsLen == 0
}

func (p *Production) String() string {
	s := p.lhs.name + " ->"
	if p.rhsLen == 0 {
		return s + " ε"
	}
	for _, sym := range p.rhs {
		s += " " + sym.name
	}
	return s
}

type productionSet struct {
	prods     []*Production
	lhs2Prods map[*Symbol][]*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[*Symbol][]*Production{},
	}
}

// append numbers the production in insertion order. The augmented
// start production must be appended first so it takes number 0.
func (ps *productionSet) append(prod *Production) {
	prod.num = productionNum(len(ps.prods))
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
}

func (ps *productionSet) findByNum(num productionNum) (*Production, bool) {
	if num < 0 || int(num) >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs *Symbol) ([]*Production, bool) {
	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}

func (ps *productionSet) len() int {
	return len(ps.prods)
}
