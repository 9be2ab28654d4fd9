// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import "sort"

// AndAll returns the conjunction of zero or more BDDs. None of the operands
// is consumed or mutated. This is more efficient than chaining And or
// AndWith, especially for large numbers of operands, because it creates
// fewer wide intermediate results: operands are grouped by root level and
// reduced pairwise, deepest roots first. AndAll() with no operand returns
// the constant true.
func (f *Factory) AndAll(operands ...*BDD) *BDD {
	return f.reduceall(operands, OPand, false)
}

// OrAll returns the disjunction of zero or more BDDs. See AndAll; OrAll()
// with no operand returns the constant false.
func (f *Factory) OrAll(operands ...*BDD) *BDD {
	return f.reduceall(operands, OPor, false)
}

// AndAllFree is AndAll taking ownership of the operands: every operand is
// freed once the result is computed.
func (f *Factory) AndAllFree(operands ...*BDD) *BDD {
	return f.reduceall(operands, OPand, true)
}

// OrAllFree is OrAll taking ownership of the operands.
func (f *Factory) OrAllFree(operands ...*BDD) *BDD {
	return f.reduceall(operands, OPor, true)
}

func (f *Factory) reduceall(operands []*BDD, op Operator, free bool) *BDD {
	for _, x := range operands {
		f.checkptr(x)
	}
	absorbing := 0
	neutral := 1
	if op == OPor {
		absorbing, neutral = 1, 0
	}
	f.initref()
	ns := make([]int, 0, len(operands))
	for _, x := range operands {
		if x.node == absorbing {
			f.popref(len(f.refstack))
			out := f.retnode(absorbing)
			f.freeall(operands, free)
			return out
		}
		if x.node == neutral {
			continue
		}
		ns = append(ns, f.pushref(x.node))
	}
	// deepest roots first, so the narrow combinations happen before the
	// wide ones and transient results stay small
	sort.Slice(ns, func(i, j int) bool { return f.tab.level(ns[i]) > f.tab.level(ns[j]) })
	f.applyop = op
	for len(ns) > 1 {
		next := make([]int, 0, (len(ns)+1)/2)
		for i := 0; i+1 < len(ns); i += 2 {
			r := f.apply(ns[i], ns[i+1])
			if r < 0 {
				f.popref(len(f.refstack))
				return nil
			}
			next = append(next, f.pushref(r))
		}
		if len(ns)%2 == 1 {
			next = append(next, ns[len(ns)-1])
		}
		ns = next
	}
	res := neutral
	if len(ns) == 1 {
		res = ns[0]
	}
	f.popref(len(f.refstack))
	out := f.retnode(res)
	f.freeall(operands, free)
	return out
}

func (f *Factory) freeall(operands []*BDD, free bool) {
	if !free {
		return
	}
	for _, x := range operands {
		if x.node >= 0 {
			x.Free()
		}
	}
}

// AndLiterals returns the conjunction of zero or more literals, that is
// constraints on exactly one variable each. The literals' variables must
// have strictly increasing levels, which lets the cube be built in a single
// bottom-up pass without recursion or caching.
func (f *Factory) AndLiterals(literals ...*BDD) *BDD {
	for _, x := range literals {
		f.checkptr(x)
	}
	f.initref()
	res := 1
	for i := len(literals) - 1; i >= 0; i-- {
		n := literals[i].node
		if n < 2 || f.tab.low(n) >= 2 || f.tab.high(n) >= 2 {
			return f.seterror(ErrConfiguration, "operand %d of AndLiterals is not a literal", i)
		}
		if i+1 < len(literals) && f.tab.level(n) >= f.tab.level(literals[i+1].node) {
			return f.seterror(ErrConfiguration, "literal levels must be strictly increasing in AndLiterals")
		}
		if f.tab.high(n) == 1 {
			res = f.tab.makenode(f.tab.level(n), 0, res)
		} else {
			res = f.tab.makenode(f.tab.level(n), res, 0)
		}
		if res < 0 {
			return nil
		}
		f.pushref(res)
	}
	f.popref(len(f.refstack))
	return f.retnode(res)
}

// BuildCube returns the cube over vars encoding the bits of value, the last
// variable of the slice carrying the least significant bit.
func (f *Factory) BuildCube(value int, vars []int) *BDD {
	f.initref()
	res := f.pushref(1)
	f.applyop = OPand
	for z := 0; z < len(vars); z, value = z+1, value>>1 {
		v := vars[len(vars)-z-1]
		if v < 0 || int32(v) >= f.varnum {
			return f.seterror(ErrConfiguration, "unknown variable (%d) in call to BuildCube", v)
		}
		var lit int
		if value&1 != 0 {
			lit = f.varset[v][0]
		} else {
			lit = f.varset[v][1]
		}
		r := f.apply(res, lit)
		if r < 0 {
			return nil
		}
		res = f.pushref(r)
	}
	f.popref(len(f.refstack))
	return f.retnode(res)
}
