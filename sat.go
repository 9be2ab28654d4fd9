// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"math/big"
	"sort"
)

// MakeSet returns the cube of all the variables in varset, in their
// positive form. It is such that Scanset(MakeSet(a)) == a (up to order and
// duplicates). It returns nil, recording the cause, if one of the variables
// is outside the scope of the factory.
func (f *Factory) MakeSet(varset []int) *BDD {
	vs := append([]int{}, varset...)
	sort.Sort(sort.Reverse(sort.IntSlice(vs)))
	f.initref()
	res := 1
	for k, v := range vs {
		if v < 0 || int32(v) >= f.varnum {
			return f.seterror(ErrConfiguration, "unknown variable (%d) in call to MakeSet", v)
		}
		if k > 0 && v == vs[k-1] {
			continue
		}
		res = f.pushref(f.tab.makenode(int32(v), 0, res))
		if res < 0 {
			return nil
		}
	}
	f.popref(len(f.refstack))
	return f.retnode(res)
}

// Scanset returns the variables found when following the high branch of a
// cube. This is the dual of MakeSet. The result is nil on a constant.
func (f *Factory) Scanset(n *BDD) []int {
	f.checkptr(n)
	if n.node < 2 {
		return nil
	}
	res := []int{}
	for i := n.node; i > 1; i = f.tab.high(i) {
		res = append(res, int(f.tab.level(i)))
	}
	return res
}

// SatOne returns a cube fixing one satisfying assignment of n, or the
// constant false when n is unsatisfiable. The tie-break is deterministic:
// the high branch is preferred whenever it does not lead to the false
// terminal; variables missing from n are left unconstrained.
func (f *Factory) SatOne(n *BDD) *BDD {
	f.checkptr(n)
	f.initref()
	f.pushref(n.node)
	res := f.satone(n.node)
	f.popref(1)
	return f.retnode(res)
}

func (f *Factory) satone(n int) int {
	if n < 2 {
		return n
	}
	var res int
	if f.tab.high(n) != 0 {
		r := f.pushref(f.satone(f.tab.high(n)))
		res = f.tab.makenode(f.tab.level(n), 0, r)
	} else {
		r := f.pushref(f.satone(f.tab.low(n)))
		res = f.tab.makenode(f.tab.level(n), r, 0)
	}
	f.popref(1)
	return res
}

// AllSat iterates through all legal variable assignments for n and calls fn
// on each of them. The slice passed to fn has one entry per variable, equal
// to 0 when the variable is false, 1 when it is true, and -1 when it is a
// don't care. Iteration stops on the first error returned by fn.
func (f *Factory) AllSat(n *BDD, fn func([]int) error) error {
	f.checkptr(n)
	prof := make([]int, f.varnum)
	for k := range prof {
		prof[k] = -1
	}
	// the iteration does not create new nodes, so there is no interaction
	// with the garbage collector
	return f.allsat(n.node, prof, fn)
}

func (f *Factory) allsat(n int, prof []int, fn func([]int) error) error {
	if n == 1 {
		return fn(prof)
	}
	if n == 0 {
		return nil
	}
	if low := f.tab.low(n); low != 0 {
		prof[f.tab.level(n)] = 0
		for v := f.tab.level(low) - 1; v > f.tab.level(n); v-- {
			prof[v] = -1
		}
		if err := f.allsat(low, prof, fn); err != nil {
			return err
		}
	}
	if high := f.tab.high(n); high != 0 {
		prof[f.tab.level(n)] = 1
		for v := f.tab.level(high) - 1; v > f.tab.level(n); v-- {
			prof[v] = -1
		}
		if err := f.allsat(high, prof, fn); err != nil {
			return err
		}
	}
	return nil
}

// SatCount computes the number of satisfying variable assignments of n over
// the varnum variables of the factory, using arbitrary-precision arithmetic
// to avoid overflows.
func (f *Factory) SatCount(n *BDD) *big.Int {
	f.checkptr(n)
	res := big.NewInt(0)
	// 2^level(n) assignments of the variables sitting above the root
	res.SetBit(res, int(f.tab.level(n.node)), 1)
	return res.Mul(res, f.satcount(n.node))
}

func (f *Factory) satcount(n int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := f.countcache[n]; ok {
		return res
	}
	level := f.tab.level(n)
	low := f.tab.low(n)
	high := f.tab.high(n)
	res := big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(f.tab.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, f.satcount(low)))
	two = big.NewInt(0)
	two.SetBit(two, int(f.tab.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, f.satcount(high)))
	f.countcache[n] = res
	return res
}

// PathCount computes the number of paths from the root of n to the true
// terminal.
func (f *Factory) PathCount(n *BDD) *big.Int {
	f.checkptr(n)
	return new(big.Int).Set(f.pathcount(n.node))
}

func (f *Factory) pathcount(n int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := f.pathcache[n]; ok {
		return res
	}
	res := new(big.Int).Add(f.pathcount(f.tab.low(n)), f.pathcount(f.tab.high(n)))
	f.pathcache[n] = res
	return res
}

// Support returns the cube of the variables appearing in n. The result is
// memoized per node.
func (f *Factory) Support(n *BDD) *BDD {
	f.checkptr(n)
	if n.node < 2 {
		return f.One()
	}
	if res, ok := f.supportcache[n.node]; ok {
		return f.retnode(res)
	}
	seen := make(map[int32]bool)
	f.supportrec(n.node, make(map[int]bool), seen)
	levels := make([]int32, 0, len(seen))
	for lvl := range seen {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] > levels[j] })
	f.initref()
	res := 1
	for _, lvl := range levels {
		res = f.pushref(f.tab.makenode(lvl, 0, res))
		if res < 0 {
			return nil
		}
	}
	f.popref(len(f.refstack))
	f.supportcache[n.node] = res
	return f.retnode(res)
}

func (f *Factory) supportrec(n int, visited map[int]bool, seen map[int32]bool) {
	if n < 2 || visited[n] {
		return
	}
	visited[n] = true
	seen[f.tab.level(n)] = true
	f.supportrec(f.tab.low(n), visited, seen)
	f.supportrec(f.tab.high(n), visited, seen)
}

// Restrict fixes in n the variables constrained by the cube to their
// values: each variable that appears positively in the cube is set to true,
// each variable that appears negatively is set to false.
func (f *Factory) Restrict(n, cube *BDD) *BDD {
	f.checkptr(n)
	f.checkptr(cube)
	f.initref()
	f.pushref(n.node)
	f.pushref(cube.node)
	res := f.restrict(n.node, cube.node)
	f.popref(2)
	return f.retnode(res)
}

func (f *Factory) restrict(n, c int) int {
	if c < 2 || n < 2 {
		return n
	}
	if f.tab.level(n) > f.tab.level(c) {
		// the cube fixes a variable that does not appear in n
		if f.tab.high(c) == 0 {
			return f.restrict(n, f.tab.low(c))
		}
		return f.restrict(n, f.tab.high(c))
	}
	if res := f.matchrestrict(n, c); res >= 0 {
		return res
	}
	var res int
	switch {
	case f.tab.level(n) < f.tab.level(c):
		low := f.pushref(f.restrict(f.tab.low(n), c))
		high := f.pushref(f.restrict(f.tab.high(n), c))
		res = f.tab.makenode(f.tab.level(n), low, high)
		f.popref(2)
	case f.tab.high(c) == 0:
		res = f.restrict(f.tab.low(n), f.tab.low(c))
	default:
		res = f.restrict(f.tab.high(n), f.tab.high(c))
	}
	return f.setrestrict(n, c, res)
}
