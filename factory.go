// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"
	"log"
	"math/big"
)

// Factory owns a node table, the operator caches and the garbage collector.
// A factory is confined to a single goroutine; independent factories can be
// used from different goroutines without interaction.
type Factory struct {
	tab      tables
	varnum   int32
	varset   [][2]int // positive and negative node for each variable
	refstack []int    // internal node reference stack
	epoch    uint32
	err      error
	running  bool

	// configuration
	minfree         float64
	increase        float64
	maxnodesize     int
	maxnodeincrease int
	cachesize       int
	cacheratio      int

	// operator caches
	applycache   cache
	itecache     cache
	quantcache   cache
	appexcache   cache
	replacecache cache
	composecache cache
	misccache    cache
	applyop      Operator // current operation during an apply
	appexop      Operator // current operator for appex
	appexid      int      // current cache id for appex
	replaceid    int      // current cache id for replace
	composeid    int      // current cache id for compose
	composelevel int32    // variable substituted by the current compose

	// quantification set, encoded as in BuDDy: quantset[level] == quantsetID
	// when the level is quantified in the current varset.
	quantset   []int32
	quantsetID int32
	quantlast  int32

	// node-keyed memos, invalidated by GC; the count and path memos also by
	// SetVarNum
	countcache   map[int]*big.Int
	pathcache    map[int]*big.Int
	supportcache map[int]int

	// installed pairings, deduplicated by entry set
	pairs   map[string]*Pairing
	pairnum int

	cachestat CacheStats
	gcstat    GCStats
	gchandler func(GCStats)
}

// Init returns a new factory with the given initial node table size and
// operator cache size. The pkg string selects the node-table implementation:
// "java" (also "j", "JFactory" or empty) is the default array-based table,
// "orig" (also "origJFactory") the legacy table kept in a Go map. Unknown
// names fall back to the default implementation with a log line. Typical
// values for nodenum range from 10 000 for small examples to 1 000 000 for
// large ones; the table grows on demand, so the initial size only affects
// how soon the first collections happen.
func Init(pkg string, nodenum, cachesize int, options ...Option) *Factory {
	c := makeconfigs(nodenum, cachesize)
	for _, o := range options {
		o(c)
	}
	f := &Factory{
		epoch:           1,
		minfree:         c.minfree,
		increase:        c.increase,
		maxnodesize:     c.maxnodesize,
		maxnodeincrease: c.maxnodeincrease,
		cacheratio:      c.cacheratio,
	}
	switch pkg {
	case "", "j", "java", "JFactory":
		f.tab = newtable(f, c.nodenum)
	case "orig", "origJFactory":
		f.tab = newhtable(f, c.nodenum)
	default:
		log.Printf("bdd: could not load BDD package %q, falling back to %q", pkg, _DEFAULTPKG)
		f.tab = newtable(f, c.nodenum)
	}
	f.cacheinit(c.cachesize)
	f.refstack = make([]int, 0, 64)
	f.pairs = make(map[string]*Pairing)
	f.countcache = make(map[int]*big.Int)
	f.pathcache = make(map[int]*big.Int)
	f.supportcache = make(map[int]int)
	f.gchandler = defaultGCHandler
	f.running = true
	return f
}

// IsInitialized reports whether the factory is usable, that is created by
// Init and not yet torn down by Done.
func (f *Factory) IsInitialized() bool {
	return f != nil && f.running
}

// Done tears the factory down. Handles that outlive the factory are invalid
// and detected by their epoch tag.
func (f *Factory) Done() {
	f.epoch++
	f.running = false
	f.cachereset()
	f.pairs = map[string]*Pairing{}
}

// checkptr panics when x cannot be used with f: freed handles and handles
// from a torn-down factory epoch wrap ErrUseAfterFree, foreign handles wrap
// ErrCrossFactory.
func (f *Factory) checkptr(x *BDD) {
	if x == nil || x.node < 0 {
		panic(fmt.Errorf("bdd: %w", ErrUseAfterFree))
	}
	if x.f != f {
		panic(fmt.Errorf("bdd: %w", ErrCrossFactory))
	}
	if x.epoch != f.epoch {
		panic(fmt.Errorf("bdd: handle outlived its factory: %w", ErrUseAfterFree))
	}
}

// retnode wraps a node index into an owning handle, incrementing the
// reference count of the root. It returns nil on a negative index, which is
// how internal errors (a table that cannot grow) surface to the caller.
func (f *Factory) retnode(n int) *BDD {
	if n < 0 {
		return nil
	}
	f.tab.retain(n)
	return &BDD{f: f, node: n, epoch: f.epoch}
}

// Zero returns the constant false BDD.
func (f *Factory) Zero() *BDD {
	return &BDD{f: f, node: 0, epoch: f.epoch}
}

// One returns the constant true BDD.
func (f *Factory) One() *BDD {
	return &BDD{f: f, node: 1, epoch: f.epoch}
}

// From returns a constant BDD from a boolean value.
func (f *Factory) From(v bool) *BDD {
	if v {
		return f.One()
	}
	return f.Zero()
}

// VarNum returns the number of defined variables.
func (f *Factory) VarNum() int {
	return int(f.varnum)
}

// SetVarNum sets the number of BDD variables. It may be called more than
// once, but only to increase the number of variables; shrinking the order
// is a configuration error. It returns the previous number of variables.
func (f *Factory) SetVarNum(num int) (int, error) {
	old := int(f.varnum)
	inum := int32(num)
	if inum < 1 || inum > _MAXVAR {
		return old, fmt.Errorf("bad number of variables (%d): %w", num, ErrConfiguration)
	}
	if inum < f.varnum {
		return old, fmt.Errorf("cannot decrease varnum from %d to %d: %w", f.varnum, num, ErrConfiguration)
	}
	if inum == f.varnum {
		return old, nil
	}
	// Constants always sit below every variable.
	f.tab.setconstlevel(inum)
	f.initref()
	for k := f.varnum; k < inum; k++ {
		f.varset = append(f.varset, [2]int{})
		v0 := f.tab.makenode(k, 0, 1)
		if v0 < 0 {
			return old, fmt.Errorf("cannot allocate variable %d: %w", k, ErrOutOfMemory)
		}
		f.pushref(v0)
		v1 := f.tab.makenode(k, 1, 0)
		if v1 < 0 {
			f.popref(1)
			return old, fmt.Errorf("cannot allocate variable %d: %w", k, ErrOutOfMemory)
		}
		f.popref(1)
		f.tab.pin(v0)
		f.tab.pin(v1)
		f.varset[k] = [2]int{v0, v1}
	}
	f.varnum = inum
	// The satcount weights depend on varnum, and the quantification set is
	// indexed by level.
	f.quantset = make([]int32, f.varnum)
	f.quantsetID = 0
	f.countcache = make(map[int]*big.Int)
	f.pathcache = make(map[int]*big.Int)
	log.Printf("bdd: set varnum to %d", f.varnum)
	return old, nil
}

// ExtVarNum extends the current variable order with num extra variables and
// returns the previous number of variables.
func (f *Factory) ExtVarNum(num int) (int, error) {
	if num < 0 || num > int(_MAXVAR) {
		return int(f.varnum), fmt.Errorf("bad number of extra variables (%d): %w", num, ErrConfiguration)
	}
	return f.SetVarNum(int(f.varnum) + num)
}

// IthVar returns a BDD representing the i'th variable. The requested
// variable must be in the range [0..VarNum). On error we return nil and
// record the cause on the factory.
func (f *Factory) IthVar(i int) *BDD {
	if i < 0 || int32(i) >= f.varnum {
		return f.seterror(ErrConfiguration, "unknown variable (%d) in call to IthVar", i)
	}
	// variables are pinned, no reference count needed
	return &BDD{f: f, node: f.varset[i][0], epoch: f.epoch}
}

// NIthVar returns a BDD representing the negation of the i'th variable. See
// IthVar for the error convention.
func (f *Factory) NIthVar(i int) *BDD {
	if i < 0 || int32(i) >= f.varnum {
		return f.seterror(ErrConfiguration, "unknown variable (%d) in call to NIthVar", i)
	}
	return &BDD{f: f, node: f.varset[i][1], epoch: f.epoch}
}

// Level2Var converts from a level to a variable index. The engine keeps a
// fixed variable order, so the mapping is the identity; the function exists
// as the hook surface for order-aware callers.
func (f *Factory) Level2Var(level int) int {
	if level < 0 || int32(level) >= f.varnum {
		return -1
	}
	return level
}

// Var2Level converts from a variable index to its level.
func (f *Factory) Var2Level(v int) int {
	if v < 0 || int32(v) >= f.varnum {
		return -1
	}
	return v
}

// GetVarOrder returns the current variable order.
func (f *Factory) GetVarOrder() []int {
	order := make([]int, f.varnum)
	for i := range order {
		order[i] = i
	}
	return order
}

// AllNodes applies fn over every active node of the table, including the
// two terminals, which always have ids 0 and 1. The parameters of fn are
// the id, level, and ids of the low and high branches of each node.
// Iteration stops on the first error returned by fn.
func (f *Factory) AllNodes(fn func(id int, level int32, low, high int) error) error {
	return f.tab.allnodes(fn)
}

// GC explicitly starts a garbage collection of unused nodes.
func (f *Factory) GC() {
	f.initref()
	f.tab.gbc()
}

// NodeTableSize returns the number of allocated slots in the node table,
// counting both live and free slots.
func (f *Factory) NodeTableSize() int {
	return f.tab.size()
}

// NodeNum returns the number of active nodes, counting nodes that died
// since the last collection.
func (f *Factory) NodeNum() int {
	return f.tab.live()
}

// CacheSize returns the current size of each operator cache, in entries.
func (f *Factory) CacheSize() int {
	return f.cachesize
}

// SetMinFreeNodes sets the fraction of the table, in [0,1], that must be
// free after a garbage collection; below it the table is grown. It returns
// the previous value. The default is 0.20.
func (f *Factory) SetMinFreeNodes(x float64) (float64, error) {
	old := f.minfree
	if x < 0 || x > 1 {
		return old, fmt.Errorf("min free nodes (%g) outside [0,1]: %w", x, ErrConfiguration)
	}
	f.minfree = x
	return old, nil
}

// SetIncreaseFactor sets the factor by which the node table grows when a
// collection does not reclaim enough space. It returns the previous value.
func (f *Factory) SetIncreaseFactor(x float64) (float64, error) {
	old := f.increase
	if x < 1 {
		return old, fmt.Errorf("increase factor (%g) below 1: %w", x, ErrConfiguration)
	}
	f.increase = x
	return old, nil
}

// SetMaxNodeSize sets a limit on the total number of nodes; 0 means no
// limit. An operation trying to grow the table above the limit fails with
// ErrOutOfMemory. It returns the previous value.
func (f *Factory) SetMaxNodeSize(size int) int {
	old := f.maxnodesize
	f.maxnodesize = size
	return old
}

// SetNodeTableSize grows the node table to at least size slots and returns
// the previous size. The table never shrinks.
func (f *Factory) SetNodeTableSize(size int) (int, error) {
	old := f.tab.size()
	if size <= old {
		return old, nil
	}
	if err := f.tab.setsize(size); err != nil {
		return old, err
	}
	return old, nil
}

// Stats returns a human readable description of the factory state.
func (f *Factory) Stats() string {
	res := fmt.Sprintf("Package:    %s\n", f.tab.name())
	res += fmt.Sprintf("Varnum:     %d\n", f.varnum)
	res += f.tab.stats()
	res += fmt.Sprintf("# of GC:    %d\n", f.gcstat.Num)
	return res
}
