// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

// Apply performs the basic binary operations on BDD nodes, such as AND, OR
// etc. The operator must be one of the following:
//
//	Identifier    Description            Truth table
//
//	OPand         logical and            [0,0,0,1]
//	OPxor         logical xor            [0,1,1,0]
//	OPor          logical or             [0,1,1,1]
//	OPnand        logical not-and        [1,1,1,0]
//	OPnor         logical not-or         [1,0,0,0]
//	OPimp         implication            [1,1,0,1]
//	OPbiimp       equivalence            [1,0,0,1]
//	OPdiff        set difference         [0,0,1,0]
//	OPless        less than              [0,1,0,0]
//	OPinvimp      reverse implication    [1,0,1,1]
func (f *Factory) Apply(left, right *BDD, op Operator) *BDD {
	f.checkptr(left)
	f.checkptr(right)
	if op < OPand || op > OPinvimp {
		return f.seterror(ErrConfiguration, "unauthorized operation (%s) in Apply", op)
	}
	f.applyop = op
	f.initref()
	f.pushref(left.node)
	f.pushref(right.node)
	res := f.apply(left.node, right.node)
	f.popref(2)
	return f.retnode(res)
}

func (f *Factory) apply(left, right int) int {
	switch f.applyop {
	case OPand:
		if left == right {
			return left
		}
		if left == 0 || right == 0 {
			return 0
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if left == 1 || right == 1 {
			return 1
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0
		}
	case OPimp:
		if left == 0 {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	case OPbiimp:
		if left == right {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPdiff:
		if left == right {
			return 0
		}
		if right == 1 {
			return 0
		}
		if left == 0 {
			return 0
		}
	case OPless:
		if left == right || left == 1 {
			return 0
		}
		if left == 0 {
			return right
		}
	case OPinvimp:
		if right == 0 {
			return 1
		}
		if right == 1 {
			return left
		}
		if left == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	}

	if left < 0 || right < 0 {
		return -1
	}
	if left < 2 && right < 2 {
		return opres[f.applyop][left][right]
	}
	// canonicalize the operand order of commutative operators so that
	// apply(op, f, g) and apply(op, g, f) share one cache entry
	if f.applyop.commutative() && left > right {
		left, right = right, left
	}
	if res := f.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := f.tab.level(left)
	rightlvl := f.tab.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := f.pushref(f.apply(f.tab.low(left), f.tab.low(right)))
		high := f.pushref(f.apply(f.tab.high(left), f.tab.high(right)))
		res = f.tab.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low := f.pushref(f.apply(f.tab.low(left), right))
		high := f.pushref(f.apply(f.tab.high(left), right))
		res = f.tab.makenode(leftlvl, low, high)
	default:
		low := f.pushref(f.apply(left, f.tab.low(right)))
		high := f.pushref(f.apply(left, f.tab.high(right)))
		res = f.tab.makenode(rightlvl, low, high)
	}
	f.popref(2)
	return f.setapply(left, right, res)
}

// Not returns the negation of the expression rooted at n. It exchanges all
// references to the zero terminal with references to the one terminal and
// vice versa, through a dedicated cache slot family.
func (f *Factory) Not(n *BDD) *BDD {
	f.checkptr(n)
	f.initref()
	f.pushref(n.node)
	res := f.not(n.node)
	f.popref(1)
	return f.retnode(res)
}

func (f *Factory) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if n < 0 {
		return -1
	}
	if res := f.matchnot(n); res >= 0 {
		return res
	}
	low := f.pushref(f.not(f.tab.low(n)))
	high := f.pushref(f.not(f.tab.high(n)))
	res := f.tab.makenode(f.tab.level(n), low, high)
	f.popref(2)
	return f.setnot(n, res)
}

// Ite, short for if-then-else, computes the BDD for the expression
// [(x & y) | (!x & z)] more efficiently than doing the three operations
// separately.
func (f *Factory) Ite(x, y, z *BDD) *BDD {
	f.checkptr(x)
	f.checkptr(y)
	f.checkptr(z)
	f.initref()
	f.pushref(x.node)
	f.pushref(y.node)
	f.pushref(z.node)
	res := f.ite(x.node, y.node, z.node)
	f.popref(3)
	return f.retnode(res)
}

// ite_low returns n when p sits strictly below q or r, otherwise the low
// branch of n: the recursion always follows the topmost variable(s).
func (f *Factory) ite_low(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return f.tab.low(n)
}

func (f *Factory) ite_high(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return f.tab.high(n)
}

// min3 returns the smallest of three levels.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r {
			return p
		}
		return r
	}
	if q <= r {
		return q
	}
	return r
}

func (f *Factory) ite(x, y, z int) int {
	switch {
	case x == 1:
		return y
	case x == 0:
		return z
	case y == z:
		return y
	case y == 1 && z == 0:
		return x
	case y == 0 && z == 1:
		return f.not(x)
	}
	if x < 0 || y < 0 || z < 0 {
		return -1
	}
	if res := f.matchite(x, y, z); res >= 0 {
		return res
	}
	p := f.tab.level(x)
	q := f.tab.level(y)
	r := f.tab.level(z)
	low := f.pushref(f.ite(f.ite_low(p, q, r, x), f.ite_low(q, p, r, y), f.ite_low(r, p, q, z)))
	high := f.pushref(f.ite(f.ite_high(p, q, r, x), f.ite_high(q, p, r, y), f.ite_high(r, p, q, z)))
	res := f.tab.makenode(min3(p, q, r), low, high)
	f.popref(2)
	return f.setite(x, y, z, res)
}
