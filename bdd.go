// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import "math/big"

// BDD is an owning reference to a node of a factory. While alive it
// protects its root from garbage collection; call Free to release it, or
// use the consuming *With variants which release their operands. A freed
// handle must not be reused: operations on it panic with ErrUseAfterFree.
// Handles from different factories must not be mixed.
type BDD struct {
	f     *Factory
	node  int
	epoch uint32
}

// Free releases the handle. Freeing a handle on a constant or on a variable
// is a no-op, since those nodes are pinned in the table.
func (b *BDD) Free() {
	b.f.checkptr(b)
	b.f.tab.release(b.node)
	b.node = -1
}

// ID returns a clone of the handle, protecting the node once more.
func (b *BDD) ID() *BDD {
	b.f.checkptr(b)
	return b.f.retnode(b.node)
}

// IsZero reports whether the handle references the constant false.
func (b *BDD) IsZero() bool {
	b.f.checkptr(b)
	return b.node == 0
}

// IsOne reports whether the handle references the constant true.
func (b *BDD) IsOne() bool {
	b.f.checkptr(b)
	return b.node == 1
}

// Equals tests equivalence between handles. Since the representation is
// canonical, two handles denote the same Boolean function exactly when they
// reference the same node of the same factory.
func (b *BDD) Equals(other *BDD) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.f == other.f && b.node == other.node
}

// Var returns the variable labeling the root node. Accessing the variable
// of a constant is an error.
func (b *BDD) Var() (int, error) {
	b.f.checkptr(b)
	if b.node < 2 {
		return -1, errConfigf("no variable on a constant node")
	}
	return int(b.f.tab.level(b.node)), nil
}

// Level returns the level of the root node. Constants sit below every
// variable.
func (b *BDD) Level() int {
	b.f.checkptr(b)
	return int(b.f.tab.level(b.node))
}

// Low returns the false branch of the root node.
func (b *BDD) Low() *BDD {
	b.f.checkptr(b)
	if b.node < 2 {
		return b.f.seterror(ErrConfiguration, "no low branch on a constant node")
	}
	return b.f.retnode(b.f.tab.low(b.node))
}

// High returns the true branch of the root node.
func (b *BDD) High() *BDD {
	b.f.checkptr(b)
	if b.node < 2 {
		return b.f.seterror(ErrConfiguration, "no high branch on a constant node")
	}
	return b.f.retnode(b.f.tab.high(b.node))
}

// Apply combines the handle with g through op, without consuming either
// operand.
func (b *BDD) Apply(g *BDD, op Operator) *BDD {
	return b.f.Apply(b, g, op)
}

// ApplyWith combines the handle with g through op, consuming both: the
// receiver and g are freed and must not be used afterwards.
func (b *BDD) ApplyWith(g *BDD, op Operator) *BDD {
	res := b.f.Apply(b, g, op)
	if g != b {
		g.Free()
	}
	b.Free()
	return res
}

// And returns the conjunction of b and g.
func (b *BDD) And(g *BDD) *BDD { return b.f.Apply(b, g, OPand) }

// Or returns the disjunction of b and g.
func (b *BDD) Or(g *BDD) *BDD { return b.f.Apply(b, g, OPor) }

// Xor returns the exclusive or of b and g.
func (b *BDD) Xor(g *BDD) *BDD { return b.f.Apply(b, g, OPxor) }

// Nand returns the negated conjunction of b and g.
func (b *BDD) Nand(g *BDD) *BDD { return b.f.Apply(b, g, OPnand) }

// Nor returns the negated disjunction of b and g.
func (b *BDD) Nor(g *BDD) *BDD { return b.f.Apply(b, g, OPnor) }

// Imp returns the implication b => g.
func (b *BDD) Imp(g *BDD) *BDD { return b.f.Apply(b, g, OPimp) }

// Biimp returns the equivalence b <=> g.
func (b *BDD) Biimp(g *BDD) *BDD { return b.f.Apply(b, g, OPbiimp) }

// Diff returns the difference b \ g.
func (b *BDD) Diff(g *BDD) *BDD { return b.f.Apply(b, g, OPdiff) }

// Less returns the strict difference g \ b.
func (b *BDD) Less(g *BDD) *BDD { return b.f.Apply(b, g, OPless) }

// InvImp returns the reverse implication g => b.
func (b *BDD) InvImp(g *BDD) *BDD { return b.f.Apply(b, g, OPinvimp) }

// Not returns the negation of b.
func (b *BDD) Not() *BDD { return b.f.Not(b) }

// AndWith returns the conjunction of b and g, consuming both operands.
func (b *BDD) AndWith(g *BDD) *BDD { return b.ApplyWith(g, OPand) }

// OrWith returns the disjunction of b and g, consuming both operands.
func (b *BDD) OrWith(g *BDD) *BDD { return b.ApplyWith(g, OPor) }

// XorWith returns the exclusive or of b and g, consuming both operands.
func (b *BDD) XorWith(g *BDD) *BDD { return b.ApplyWith(g, OPxor) }

// ImpWith returns the implication b => g, consuming both operands.
func (b *BDD) ImpWith(g *BDD) *BDD { return b.ApplyWith(g, OPimp) }

// BiimpWith returns the equivalence b <=> g, consuming both operands.
func (b *BDD) BiimpWith(g *BDD) *BDD { return b.ApplyWith(g, OPbiimp) }

// DiffWith returns the difference b \ g, consuming both operands.
func (b *BDD) DiffWith(g *BDD) *BDD { return b.ApplyWith(g, OPdiff) }

// NotWith returns the negation of b, consuming it.
func (b *BDD) NotWith() *BDD {
	res := b.f.Not(b)
	b.Free()
	return res
}

// Ite computes if-b-then-g-else-h.
func (b *BDD) Ite(g, h *BDD) *BDD { return b.f.Ite(b, g, h) }

// Exist quantifies the variables of cube existentially out of b.
func (b *BDD) Exist(cube *BDD) *BDD { return b.f.Exist(b, cube) }

// Forall quantifies the variables of cube universally out of b.
func (b *BDD) Forall(cube *BDD) *BDD { return b.f.Forall(b, cube) }

// RelProd returns the relational product of b and g with respect to cube,
// that is Exist(cube, b & g) computed in one bottom-up pass.
func (b *BDD) RelProd(g, cube *BDD) *BDD { return b.f.AppEx(b, g, OPand, cube) }

// Restrict fixes in b the variables constrained by the cube to their
// values.
func (b *BDD) Restrict(cube *BDD) *BDD { return b.f.Restrict(b, cube) }

// Replace renames the variables of b according to an installed pairing.
func (b *BDD) Replace(p *Pairing) *BDD { return b.f.Replace(b, p) }

// ReplaceWith renames the variables of b according to an installed pairing,
// consuming b.
func (b *BDD) ReplaceWith(p *Pairing) *BDD {
	res := b.f.Replace(b, p)
	b.Free()
	return res
}

// Compose substitutes the function g for variable v in b.
func (b *BDD) Compose(v int, g *BDD) *BDD { return b.f.Compose(b, v, g) }

// Support returns the cube of the variables appearing in b.
func (b *BDD) Support() *BDD { return b.f.Support(b) }

// SatOne returns a cube fixing one satisfying assignment of b, or the
// constant false when b is unsatisfiable. The choice is deterministic: the
// high branch is preferred whenever both branches are satisfiable.
func (b *BDD) SatOne() *BDD { return b.f.SatOne(b) }

// SatCount returns the number of satisfying assignments of b over the
// variables of the factory.
func (b *BDD) SatCount() *big.Int { return b.f.SatCount(b) }

// PathCount returns the number of paths from the root of b to the true
// terminal.
func (b *BDD) PathCount() *big.Int { return b.f.PathCount(b) }

// AllSat iterates over all satisfying assignments of b. See Factory.AllSat.
func (b *BDD) AllSat(fn func([]int) error) error { return b.f.AllSat(b, fn) }
