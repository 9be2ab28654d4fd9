// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"
	"time"
	"unsafe"
)

// tnode is a slot of the array-based node table. Free slots have low set to
// -1 and are threaded through the next field.
type tnode struct {
	refcou int32 // number of external references
	level  int32 // order of the variable, with the GC mark bit
	low    int   // false branch
	high   int   // true branch
	hash   int   // head of the bucket whose index is this slot
	next   int   // next slot in the bucket chain, 0 if last
}

// table is the default node-table implementation, a direct adaptation of
// the BuDDy unicity table: a dynamic array mixed with a hash table whose
// buckets are chained through the slots themselves.
type table struct {
	f        *Factory
	nodes    []tnode
	freepos  int // first free slot, 0 when the free list is empty
	freenum  int // number of free slots
	prodnum  int // total number of nodes ever produced
	reusenum int // slots recycled since the last collection
}

func newtable(f *Factory, nodenum int) *table {
	nodenum = primeGTE(nodenum)
	t := &table{f: f, nodes: make([]tnode, nodenum)}
	for k := range t.nodes {
		t.nodes[k] = tnode{low: -1, next: k + 1}
	}
	t.nodes[nodenum-1].next = 0
	t.nodes[0] = tnode{refcou: _MAXREFCOUNT, low: 0, high: 0}
	t.nodes[1] = tnode{refcou: _MAXREFCOUNT, low: 1, high: 1}
	t.freepos = 2
	t.freenum = nodenum - 2
	return t
}

func (t *table) name() string { return _DEFAULTPKG }

func (t *table) size() int { return len(t.nodes) }

func (t *table) live() int { return len(t.nodes) - t.freenum }

func (t *table) produced() int { return t.prodnum }

func (t *table) level(n int) int32 { return t.nodes[n].level & _MARKHIDE }

func (t *table) low(n int) int { return t.nodes[n].low }

func (t *table) high(n int) int { return t.nodes[n].high }

func (t *table) valid(n int) bool {
	return n >= 0 && n < len(t.nodes) && t.nodes[n].low != -1
}

func (t *table) ismarked(n int) bool {
	return t.nodes[n].level&_MARKON != 0
}

func (t *table) marknode(n int) {
	t.nodes[n].level |= _MARKON
}

func (t *table) unmarknode(n int) {
	t.nodes[n].level &= _MARKHIDE
}

func (t *table) retain(n int) {
	if n < 2 || !t.valid(n) {
		return
	}
	if t.nodes[n].refcou < _MAXREFCOUNT {
		t.nodes[n].refcou++
	}
}

func (t *table) release(n int) {
	if n < 2 || !t.valid(n) {
		return
	}
	if t.nodes[n].refcou > 0 && t.nodes[n].refcou < _MAXREFCOUNT {
		t.nodes[n].refcou--
	}
}

// pin sticks a node in the table by saturating its reference count. Used
// for the variables created by SetVarNum.
func (t *table) pin(n int) {
	t.nodes[n].refcou = _MAXREFCOUNT
}

func (t *table) setconstlevel(level int32) {
	t.nodes[0].level = level
	t.nodes[1].level = level
}

func (t *table) ptrhash(n int) int {
	return _TRIPLE(int(t.level(n)), t.nodes[n].low, t.nodes[n].high, len(t.nodes))
}

func (t *table) nodehash(level int32, low, high int) int {
	return _TRIPLE(int(level), low, high, len(t.nodes))
}

// makenode returns the node (level, low, high), reusing an existing node
// when possible (reduction rules) and allocating a slot otherwise. When the
// free list is empty it garbage collects, and grows the table when the
// collection leaves less than the configured free fraction. It returns -1
// after recording ErrOutOfMemory on the factory when the table is stuck at
// its maximum size.
func (t *table) makenode(level int32, low, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	t.f.cachestat.UniqueAccess++
	if low == high {
		t.f.cachestat.UniqueTrivial++
		return low
	}
	hash := t.nodehash(level, low, high)
	res := t.nodes[hash].hash
	for res != 0 {
		if t.level(res) == level && t.nodes[res].low == low && t.nodes[res].high == high {
			t.f.cachestat.UniqueHit++
			return res
		}
		res = t.nodes[res].next
		t.f.cachestat.UniqueChain++
	}
	t.f.cachestat.UniqueMiss++
	if t.freepos == 0 {
		t.gbc()
		if float64(t.freenum) < t.f.minfree*float64(len(t.nodes)) {
			if err := t.resize(); err != nil && t.freepos == 0 {
				t.f.seterror(ErrOutOfMemory, "node table stuck at %d slots", len(t.nodes))
				return -1
			}
		}
		if t.freepos == 0 {
			t.f.seterror(ErrOutOfMemory, "node table stuck at %d slots", len(t.nodes))
			return -1
		}
		// collection and resizing rebuild the bucket chains
		hash = t.nodehash(level, low, high)
	}
	res = t.freepos
	t.freepos = t.nodes[res].next
	t.freenum--
	t.prodnum++
	t.reusenum++
	t.nodes[res].level = level
	t.nodes[res].low = low
	t.nodes[res].high = high
	t.nodes[res].next = t.nodes[hash].hash
	t.nodes[hash].hash = res
	return res
}

func (t *table) markrec(n int) {
	if n < 2 || t.ismarked(n) || t.nodes[n].low == -1 {
		return
	}
	t.marknode(n)
	t.markrec(t.nodes[n].low)
	t.markrec(t.nodes[n].high)
}

// gbc reclaims every node that is not reachable from a live handle or from
// the internal reference stack. Allocated nodes never move, so node indices
// held by an operation in flight stay valid across a collection.
func (t *table) gbc() {
	start := time.Now()
	for _, r := range t.f.refstack {
		t.markrec(r)
	}
	for k := range t.nodes {
		if t.nodes[k].refcou > 0 {
			t.markrec(k)
		}
		t.nodes[k].hash = 0
	}
	t.freepos = 0
	t.freenum = 0
	// one pass to rebuild the bucket chains and thread the free list;
	// afterwards freepos is the first free slot, or 0 if there is none.
	for n := len(t.nodes) - 1; n > 1; n-- {
		if t.ismarked(n) && t.nodes[n].low != -1 {
			t.unmarknode(n)
			hash := t.ptrhash(n)
			t.nodes[n].next = t.nodes[hash].hash
			t.nodes[hash].hash = n
		} else {
			t.nodes[n].low = -1
			t.nodes[n].next = t.freepos
			t.freepos = n
			t.freenum++
		}
	}
	// entries in the operator caches reference node indices that may now be
	// recycled
	t.f.cachereset()
	t.f.recordGC(len(t.nodes), t.freenum, t.reusenum, time.Since(start))
	t.reusenum = 0
}

// resize grows the table by the configured increase factor, within the
// maxnodesize and maxnodeincrease limits, and rehashes every live node.
func (t *table) resize() error {
	oldsize := len(t.nodes)
	if t.f.maxnodesize > 0 && oldsize >= t.f.maxnodesize {
		return fmt.Errorf("node table at max capacity (%d): %w", t.f.maxnodesize, ErrOutOfMemory)
	}
	nodesize := int(float64(oldsize) * t.f.increase)
	if t.f.maxnodeincrease > 0 && nodesize > oldsize+t.f.maxnodeincrease {
		nodesize = oldsize + t.f.maxnodeincrease
	}
	if t.f.maxnodesize > 0 && nodesize > t.f.maxnodesize {
		nodesize = t.f.maxnodesize
	}
	nodesize = primeLTE(nodesize)
	if nodesize <= oldsize {
		return fmt.Errorf("cannot grow node table above %d slots: %w", oldsize, ErrOutOfMemory)
	}
	t.rehash(nodesize)
	return nil
}

// setsize grows the table to at least target slots.
func (t *table) setsize(target int) error {
	target = primeGTE(target)
	if target <= len(t.nodes) {
		return nil
	}
	if t.f.maxnodesize > 0 && target > t.f.maxnodesize {
		return fmt.Errorf("requested size (%d) above max capacity (%d): %w", target, t.f.maxnodesize, ErrOutOfMemory)
	}
	t.rehash(target)
	return nil
}

func (t *table) rehash(nodesize int) {
	oldsize := len(t.nodes)
	tmp := t.nodes
	t.nodes = make([]tnode, nodesize)
	copy(t.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		t.nodes[n] = tnode{low: -1, next: n + 1}
	}
	t.nodes[nodesize-1].next = 0
	// recompute every hash since the bucket count changed
	for n := range t.nodes {
		t.nodes[n].hash = 0
	}
	t.freepos = 0
	t.freenum = 0
	for n := nodesize - 1; n > 1; n-- {
		if t.nodes[n].low != -1 {
			hash := t.ptrhash(n)
			t.nodes[n].next = t.nodes[hash].hash
			t.nodes[hash].hash = n
		} else {
			t.nodes[n].next = t.freepos
			t.freepos = n
			t.freenum++
		}
	}
	t.f.cacheresize(nodesize)
}

func (t *table) allnodes(fn func(id int, level int32, low, high int) error) error {
	if err := fn(0, t.level(0), 0, 0); err != nil {
		return err
	}
	if err := fn(1, t.level(1), 1, 1); err != nil {
		return err
	}
	for k := 2; k < len(t.nodes); k++ {
		if t.nodes[k].low != -1 {
			if err := fn(k, t.level(k), t.nodes[k].low, t.nodes[k].high); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *table) stats() string {
	res := fmt.Sprintf("Allocated:  %d\n", len(t.nodes))
	res += fmt.Sprintf("Produced:   %d\n", t.prodnum)
	r := float64(t.freenum) / float64(len(t.nodes)) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", t.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(t.nodes)-t.freenum, 100.0-r)
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(t.nodes), unsafe.Sizeof(tnode{})))
	return res
}
