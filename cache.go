// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import "math/big"

// cacheData is one entry of a direct-mapped operator cache. An entry with a
// negative a field is empty.
type cacheData struct {
	a   int
	b   int
	c   int
	res int
}

// cache is a direct-mapped memoization table. Insertion on a colliding
// index overwrites the previous entry unconditionally; replacement policies
// give no measurable benefit here.
type cache struct {
	table []cacheData
}

func (bc *cache) init(size int) {
	size = primeGTE(size)
	bc.table = make([]cacheData, size)
	bc.reset()
}

func (bc *cache) reset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// cacheinit sets up every operator cache at the given size.
func (f *Factory) cacheinit(cachesize int) {
	if cachesize <= 0 {
		cachesize = _DEFCACHESIZE
	}
	f.cachesize = primeGTE(cachesize)
	f.applycache.init(f.cachesize)
	f.itecache.init(f.cachesize)
	f.quantcache.init(f.cachesize)
	f.appexcache.init(f.cachesize)
	f.replacecache.init(f.cachesize)
	f.composecache.init(f.cachesize)
	f.misccache.init(f.cachesize)
}

// cachereset clears every operator cache and the node-keyed memos. Called
// after each garbage collection, since entries reference node indices that
// may be recycled.
func (f *Factory) cachereset() {
	f.applycache.reset()
	f.itecache.reset()
	f.quantcache.reset()
	f.appexcache.reset()
	f.replacecache.reset()
	f.composecache.reset()
	f.misccache.reset()
	f.countcache = make(map[int]*big.Int)
	f.pathcache = make(map[int]*big.Int)
	f.supportcache = make(map[int]int)
}

// cacheresize adjusts the caches after the node table grew to nodesize
// slots. With a cache ratio of r there is one cache entry for every r table
// slots; without a ratio the caches keep their size but are still cleared,
// as growing rebuilt the bucket chains.
func (f *Factory) cacheresize(nodesize int) {
	if f.cacheratio > 0 {
		f.cacheinit(nodesize / f.cacheratio)
		f.countcache = make(map[int]*big.Int)
		f.pathcache = make(map[int]*big.Int)
		f.supportcache = make(map[int]int)
		return
	}
	f.cachereset()
}

// SetCacheRatio sets the cache ratio for the operator caches: one cache
// entry for every r slots in the node table. The caches are resized
// instantly to fit the new ratio. The default is a fixed cache size chosen
// at initialization time. It returns the previous ratio.
func (f *Factory) SetCacheRatio(r int) (int, error) {
	old := f.cacheratio
	if r <= 0 {
		return old, errConfigf("bad cache ratio (%d)", r)
	}
	f.cacheratio = r
	f.cacheinit(f.tab.size() / r)
	return old, nil
}

// SetCacheSize resizes the operator caches to size entries and returns the
// previous size.
func (f *Factory) SetCacheSize(size int) (int, error) {
	old := f.cachesize
	if size <= 0 {
		return old, errConfigf("bad cache size (%d)", size)
	}
	f.cacheinit(size)
	return old, nil
}

// quantset2cache takes a variable cube, such as the ones built with
// MakeSet, and loads its variables in the quantification set.
func (f *Factory) quantset2cache(n int) error {
	if n < 2 {
		return errConfigf("illegal variable cube (%d)", n)
	}
	f.quantsetID++
	if f.quantsetID == _MAXVAR {
		f.quantset = make([]int32, f.varnum)
		f.quantsetID = 1
	}
	f.quantlast = -1
	for i := n; i > 1; i = f.tab.high(i) {
		f.quantset[f.tab.level(i)] = f.quantsetID
		if f.tab.level(i) > f.quantlast {
			f.quantlast = f.tab.level(i)
		}
	}
	return nil
}
