package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
)

// lrItemID packs the identity triple of an LR(1) item into one
// comparable, sortable integer:
//
//	bits 40..63: production number
//	bits 20..39: dot position
//	bits  0..19: lookahead symbol id
//
// Equality and hashing on items therefore reduce to integer
// operations, which is the hottest comparison in the generator.
type lrItemID uint64

func newLRItemID(prod productionNum, dot int, lookAhead symbolID) lrItemID {
	return lrItemID(uint64(prod)<<40 | uint64(dot)<<20 | uint64(lookAhead))
}

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", uint64(id))
}

type lrItem struct {
	id   lrItemID
	prod productionNum

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol *Symbol

	// lookAhead is a terminal symbol (possibly $). The item is
	// reducible only when the lookahead appears as the next input
	// symbol.
	lookAhead *Symbol

	// When initial is true, the item is [S' → ・S, $].
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is a kernel item.
	kernel bool
}

func newLRItem(prod *Production, dot int, lookAhead *Symbol) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}
	if lookAhead == nil || !lookAhead.IsTerminal() {
		return nil, fmt.Errorf("lookahead must be a terminal symbol")
	}

	var dottedSymbol *Symbol
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.num == productionNumStart && dot == 0

	return &lrItem{
		id:           newLRItemID(prod.num, dot, symbolID(lookAhead.id)),
		prod:         prod.num,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		lookAhead:    lookAhead,
		initial:      initial,
		reducible:    dot == prod.rhsLen,
		kernel:       initial || dot > 0,
	}, nil
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// kernel is the canonical form of a state's kernel items: duplicates
// removed, sorted by item id, fingerprinted. In a canonical LR(1)
// automaton the closure is a pure function of the kernel, so two
// states are equal iff their kernels are.
type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	var sortedItems []*lrItem
	{
		m := map[lrItemID]*lrItem{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item.id)
			}
			m[item.id] = item
		}
		sortedItems = make([]*lrItem, 0, len(m))
		for _, item := range m {
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return sortedItems[i].id < sortedItems[j].id
		})
	}

	var id kernelID
	{
		b := make([]byte, 0, len(sortedItems)*8)
		for _, item := range sortedItems {
			var bID [8]byte
			binary.LittleEndian.PutUint64(bID[:], uint64(item.id))
			b = append(b, bID[:]...)
		}
		id = sha256.Sum256(b)
	}

	return &kernel{
		id:    id,
		items: sortedItems,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// lrState is one state of the canonical collection: its kernel, the
// full closure, and the outgoing transitions.
type lrState struct {
	*kernel
	num stateNum

	// closure holds every item of the state in deterministic
	// discovery order, kernel items first.
	closure []*lrItem

	next map[*Symbol]kernelID
}
