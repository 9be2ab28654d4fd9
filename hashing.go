// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

// Hash functions for the unique table and the operator caches.

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR64(uint64(c), _PAIR(a, b, len), uint64(len)))
}

// _PAIR maps (bijectively) a pair of integers into a unique integer, before
// reduction modulo the table length.
func _PAIR(a, b, len int) uint64 {
	return (((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(len)
}

func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// Cache id tags for entries sharing the misc cache.
const cacheid_RESTRICT = 0x1

// lookup and insert are the shared probe/store pair; insert overwrites
// whatever entry occupied the slot and counts the eviction.
func (f *Factory) cachelookup(bc *cache, idx int, a, b, c int) int {
	entry := bc.table[idx]
	if entry.a == a && entry.b == b && entry.c == c {
		f.cachestat.OpHit++
		return entry.res
	}
	f.cachestat.OpMiss++
	return -1
}

func (f *Factory) cacheinsert(bc *cache, idx int, a, b, c, res int) int {
	if res < 0 {
		return -1
	}
	if bc.table[idx].a >= 0 {
		f.cachestat.OpOverwrite++
	}
	bc.table[idx] = cacheData{a: a, b: b, c: c, res: res}
	return res
}

// The hash for operation not(n) is simply n.

func (f *Factory) matchnot(n int) int {
	return f.cachelookup(&f.applycache, n%len(f.applycache.table), n, -1, int(op_not))
}

func (f *Factory) setnot(n, res int) int {
	return f.cacheinsert(&f.applycache, n%len(f.applycache.table), n, -1, int(op_not), res)
}

// The hash for apply is #(left, right, op).

func (f *Factory) matchapply(left, right int) int {
	idx := _TRIPLE(left, right, int(f.applyop), len(f.applycache.table))
	return f.cachelookup(&f.applycache, idx, left, right, int(f.applyop))
}

func (f *Factory) setapply(left, right, res int) int {
	idx := _TRIPLE(left, right, int(f.applyop), len(f.applycache.table))
	return f.cacheinsert(&f.applycache, idx, left, right, int(f.applyop), res)
}

// The hash for ite is #(x, y, z).

func (f *Factory) matchite(x, y, z int) int {
	idx := _TRIPLE(x, y, z, len(f.itecache.table))
	return f.cachelookup(&f.itecache, idx, x, y, z)
}

func (f *Factory) setite(x, y, z, res int) int {
	idx := _TRIPLE(x, y, z, len(f.itecache.table))
	return f.cacheinsert(&f.itecache, idx, x, y, z, res)
}

// The hash for a quantification is #(n, varset, op), where op is the
// combining operator: or for an existential, and for a universal.

func (f *Factory) matchquant(n, varset int) int {
	idx := _TRIPLE(n, varset, int(f.applyop), len(f.quantcache.table))
	return f.cachelookup(&f.quantcache, idx, n, varset, int(f.applyop))
}

func (f *Factory) setquant(n, varset, res int) int {
	idx := _TRIPLE(n, varset, int(f.applyop), len(f.quantcache.table))
	return f.cacheinsert(&f.quantcache, idx, n, varset, int(f.applyop), res)
}

// The hash for appex is #(left, right, id) where the id folds the varset
// and the applied operator.

func (f *Factory) matchappex(left, right int) int {
	idx := _TRIPLE(left, right, f.appexid, len(f.appexcache.table))
	return f.cachelookup(&f.appexcache, idx, left, right, f.appexid)
}

func (f *Factory) setappex(left, right, res int) int {
	idx := _TRIPLE(left, right, f.appexid, len(f.appexcache.table))
	return f.cacheinsert(&f.appexcache, idx, left, right, f.appexid, res)
}

// The hash for replace(n) is simply n; the installed pairing identity sits
// in the tag.

func (f *Factory) matchreplace(n int) int {
	return f.cachelookup(&f.replacecache, n%len(f.replacecache.table), n, -1, f.replaceid)
}

func (f *Factory) setreplace(n, res int) int {
	return f.cacheinsert(&f.replacecache, n%len(f.replacecache.table), n, -1, f.replaceid, res)
}

// The hash for compose is #(f, g, var).

func (f *Factory) matchcompose(n, g int) int {
	idx := _TRIPLE(n, g, f.composeid, len(f.composecache.table))
	return f.cachelookup(&f.composecache, idx, n, g, f.composeid)
}

func (f *Factory) setcompose(n, g, res int) int {
	idx := _TRIPLE(n, g, f.composeid, len(f.composecache.table))
	return f.cacheinsert(&f.composecache, idx, n, g, f.composeid, res)
}

// The hash for restrict is #(n, cube, RESTRICT).

func (f *Factory) matchrestrict(n, cube int) int {
	idx := _TRIPLE(n, cube, cacheid_RESTRICT, len(f.misccache.table))
	return f.cachelookup(&f.misccache, idx, n, cube, cacheid_RESTRICT)
}

func (f *Factory) setrestrict(n, cube, res int) int {
	idx := _TRIPLE(n, cube, cacheid_RESTRICT, len(f.misccache.table))
	return f.cacheinsert(&f.misccache, idx, n, cube, cacheid_RESTRICT, res)
}
