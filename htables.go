// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"
	"time"
	"unsafe"
)

// hnode is a slot of the legacy node table. Free slots have low set to -1
// and are threaded through the high field.
type hnode struct {
	level  int32 // order of the variable
	low    int   // false branch
	high   int   // true branch
	refcou int32 // number of external references, with the GC mark bit
}

// hkey identifies a node triplet in the unicity map.
type hkey struct {
	level int32
	low   int
	high  int
}

// htable is the legacy node-table implementation. It keeps the unicity
// table in a standard Go map instead of chaining buckets through the node
// array. It trades space for simplicity and serves as a reference for the
// default implementation.
type htable struct {
	f        *Factory
	nodes    []hnode
	unique   map[hkey]int
	freepos  int
	freenum  int
	prodnum  int
	reusenum int
}

func newhtable(f *Factory, nodenum int) *htable {
	if nodenum < 4 {
		nodenum = 4
	}
	t := &htable{f: f, nodes: make([]hnode, nodenum)}
	for k := range t.nodes {
		t.nodes[k] = hnode{low: -1, high: k + 1}
	}
	t.nodes[nodenum-1].high = 0
	t.nodes[0] = hnode{refcou: _MAXREFCOUNT, low: 0, high: 0}
	t.nodes[1] = hnode{refcou: _MAXREFCOUNT, low: 1, high: 1}
	t.unique = make(map[hkey]int, nodenum)
	t.freepos = 2
	t.freenum = nodenum - 2
	return t
}

func (t *htable) name() string { return _LEGACYPKG }

func (t *htable) size() int { return len(t.nodes) }

func (t *htable) live() int { return len(t.nodes) - t.freenum }

func (t *htable) produced() int { return t.prodnum }

func (t *htable) level(n int) int32 { return t.nodes[n].level }

func (t *htable) low(n int) int { return t.nodes[n].low }

func (t *htable) high(n int) int { return t.nodes[n].high }

func (t *htable) valid(n int) bool {
	return n >= 0 && n < len(t.nodes) && t.nodes[n].low != -1
}

func (t *htable) ismarked(n int) bool {
	return t.nodes[n].refcou&_MARKON != 0
}

func (t *htable) marknode(n int) {
	t.nodes[n].refcou |= _MARKON
}

func (t *htable) unmarknode(n int) {
	t.nodes[n].refcou &= _MARKHIDE
}

func (t *htable) refcount(n int) int32 {
	return t.nodes[n].refcou & _MARKHIDE
}

func (t *htable) retain(n int) {
	if n < 2 || !t.valid(n) {
		return
	}
	if t.refcount(n) < _MAXREFCOUNT {
		t.nodes[n].refcou++
	}
}

func (t *htable) release(n int) {
	if n < 2 || !t.valid(n) {
		return
	}
	if c := t.refcount(n); c > 0 && c < _MAXREFCOUNT {
		t.nodes[n].refcou--
	}
}

func (t *htable) pin(n int) {
	t.nodes[n].refcou = t.nodes[n].refcou&_MARKON | _MAXREFCOUNT
}

func (t *htable) setconstlevel(level int32) {
	t.nodes[0].level = level
	t.nodes[1].level = level
}

func (t *htable) makenode(level int32, low, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	t.f.cachestat.UniqueAccess++
	if low == high {
		t.f.cachestat.UniqueTrivial++
		return low
	}
	if res, ok := t.unique[hkey{level, low, high}]; ok {
		t.f.cachestat.UniqueHit++
		return res
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
	}
	res := t.freepos
	t.freepos = t.nodes[res].high
	t.freenum--
	t.prodnum++
	t.reusenum++
	t.nodes[res] = hnode{level: level, low: low, high: high}
	t.unique[hkey{level, low, high}] = res
	return res
}

func (t *htable) markrec(n int) {
	if n < 2 || t.ismarked(n) || t.nodes[n].low == -1 {
		return
	}
	t.marknode(n)
	t.markrec(t.nodes[n].low)
	t.markrec(t.nodes[n].high)
}

func (t *htable) gbc() {
	start := time.Now()
	for _, r := range t.f.refstack {
		t.markrec(r)
	}
	for k := range t.nodes {
		if t.refcount(k) > 0 {
			t.markrec(k)
		}
	}
	t.freepos = 0
	t.freenum = 0
	for n := len(t.nodes) - 1; n > 1; n-- {
		if t.ismarked(n) && t.nodes[n].low != -1 {
			t.unmarknode(n)
		} else {
			if t.nodes[n].low != -1 {
				delete(t.unique, hkey{t.nodes[n].level, t.nodes[n].low, t.nodes[n].high})
			}
			t.nodes[n].low = -1
			t.nodes[n].high = t.freepos
			t.freepos = n
			t.freenum++
		}
	}
	t.f.cachereset()
	t.f.recordGC(len(t.nodes), t.freenum, t.reusenum, time.Since(start))
	t.reusenum = 0
}

func (t *htable) resize() error {
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
	if nodesize <= oldsize {
		return fmt.Errorf("cannot grow node table above %d slots: %w", oldsize, ErrOutOfMemory)
	}
	t.grow(nodesize)
	return nil
}

func (t *htable) setsize(target int) error {
	if target <= len(t.nodes) {
		return nil
	}
	if t.f.maxnodesize > 0 && target > t.f.maxnodesize {
		return fmt.Errorf("requested size (%d) above max capacity (%d): %w", target, t.f.maxnodesize, ErrOutOfMemory)
	}
	t.grow(target)
	return nil
}

// grow extends the node array; the unicity map is untouched since node
// indices are stable.
func (t *htable) grow(nodesize int) {
	oldsize := len(t.nodes)
	tmp := t.nodes
	t.nodes = make([]hnode, nodesize)
	copy(t.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		t.nodes[n] = hnode{low: -1, high: n + 1}
	}
	t.nodes[nodesize-1].high = t.freepos
	t.freepos = oldsize
	t.freenum += nodesize - oldsize
	t.f.cacheresize(nodesize)
}

func (t *htable) allnodes(fn func(id int, level int32, low, high int) error) error {
	if err := fn(0, t.nodes[0].level, 0, 0); err != nil {
		return err
	}
	if err := fn(1, t.nodes[1].level, 1, 1); err != nil {
		return err
	}
	for k := 2; k < len(t.nodes); k++ {
		if t.nodes[k].low != -1 {
			if err := fn(k, t.nodes[k].level, t.nodes[k].low, t.nodes[k].high); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *htable) stats() string {
	res := fmt.Sprintf("Allocated:  %d\n", len(t.nodes))
	res += fmt.Sprintf("Produced:   %d\n", t.prodnum)
	r := float64(t.freenum) / float64(len(t.nodes)) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", t.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(t.nodes)-t.freenum, 100.0-r)
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(t.nodes), unsafe.Sizeof(hnode{})))
	return res
}
