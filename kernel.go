// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

// _MAXVAR is the maximal number of levels in a BDD. We use only the first 21
// bits of the level field for encoding levels (so also the max number of
// variables) and keep one of the remaining bits for markings during sweeps.
const _MAXVAR int32 = 0x1FFFFF

// _MARKON and _MARKHIDE give the mark bit used by the garbage collector and
// the mask that removes it.
const (
	_MARKON   int32 = 0x200000
	_MARKHIDE int32 = 0x1FFFFF
)

// _MAXREFCOUNT is the maximal value of the reference counter. The counter
// saturates there, which is also how constants and variables are pinned in
// the node table.
const _MAXREFCOUNT int32 = 0x3FF

// Default configuration values. _DEFMINFREE is the post-GC fraction of free
// nodes under which the table is grown; _DEFINCREASE the growth multiplier.
const (
	_DEFMINFREE    float64 = 0.20
	_DEFINCREASE   float64 = 2.0
	_DEFCACHESIZE  int     = 10000
	_DEFNODEINC    int     = 1 << 20
	_DEFAULTPKG    string  = "java"
	_LEGACYPKG     string  = "orig"
)

// tables is the storage interface shared by the two node-table
// implementations. Node 0 and 1 are the terminals False and True; every
// other index is an internal node (level, low, high). makenode applies the
// reduction rules, consults the unicity table and may trigger garbage
// collection or a resize; it returns -1 after setting the factory error when
// the table cannot grow any further.
type tables interface {
	makenode(level int32, low, high int) int
	level(n int) int32
	low(n int) int
	high(n int) int
	valid(n int) bool
	retain(n int)
	release(n int)
	pin(n int)
	setconstlevel(level int32)
	gbc()
	size() int
	live() int
	produced() int
	setsize(target int) error
	allnodes(f func(id int, level int32, low, high int) error) error
	stats() string
	name() string
}

// refstack helpers prevent nodes that are currently being built (transient
// results inside a recursive operation) from being reclaimed by the garbage
// collector.

func (f *Factory) initref() {
	f.refstack = f.refstack[:0]
}

func (f *Factory) pushref(n int) int {
	f.refstack = append(f.refstack, n)
	return n
}

func (f *Factory) popref(a int) {
	f.refstack = f.refstack[:len(f.refstack)-a]
}
