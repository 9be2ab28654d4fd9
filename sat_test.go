// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"testing"
)

func TestSatCount(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 3)
			x := f.And(f.IthVar(0), f.Or(f.IthVar(1), f.IthVar(2)))
			// the satisfying assignments are 101, 110 and 111
			if c := x.SatCount(); c.Int64() != 3 {
				t.Errorf("SatCount: expected 3, actual %s", c)
			}
			if c := f.One().SatCount(); c.Int64() != 8 {
				t.Errorf("SatCount(true): expected 8, actual %s", c)
			}
			if c := f.Zero().SatCount(); c.Int64() != 0 {
				t.Errorf("SatCount(false): expected 0, actual %s", c)
			}
			if c := f.IthVar(1).SatCount(); c.Int64() != 4 {
				t.Errorf("SatCount(x1): expected 4, actual %s", c)
			}
		})
	}
}

func TestSatOne(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	x := f.And(f.IthVar(0), f.Or(f.IthVar(1), f.IthVar(2)))
	one := x.SatOne()
	// the tie-break prefers the high branch: x0=1, x1=1, x2 unconstrained
	if !one.Equals(f.And(f.IthVar(0), f.IthVar(1))) {
		t.Errorf("SatOne is not the expected assignment")
	}
	// the cube satisfies the function
	if !one.Imp(x).IsOne() {
		t.Errorf("SatOne does not imply the function")
	}
	if !f.Zero().SatOne().IsZero() {
		t.Errorf("SatOne(false) is not false")
	}
	if !f.One().SatOne().IsOne() {
		t.Errorf("SatOne(true) is not true")
	}
	// a full cube is its own satisfying assignment
	cube := f.AndLiterals(f.NIthVar(0), f.IthVar(1), f.NIthVar(2))
	if !cube.SatOne().Equals(cube) {
		t.Errorf("SatOne of a cube is not the cube")
	}
}

func TestPathCount(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	x := f.Or(f.IthVar(0), f.IthVar(1))
	if c := x.PathCount(); c.Int64() != 2 {
		t.Errorf("PathCount: expected 2, actual %s", c)
	}
	if c := f.One().PathCount(); c.Int64() != 1 {
		t.Errorf("PathCount(true): expected 1, actual %s", c)
	}
	if c := f.Zero().PathCount(); c.Int64() != 0 {
		t.Errorf("PathCount(false): expected 0, actual %s", c)
	}
	parity := f.Xor(f.IthVar(0), f.Xor(f.IthVar(1), f.IthVar(2)))
	if c := parity.PathCount(); c.Int64() != 4 {
		t.Errorf("PathCount(parity): expected 4, actual %s", c)
	}
}

func TestSupport(t *testing.T) {
	f := newTestFactory(t, "java", 5)
	x := f.And(f.IthVar(0), f.Xor(f.IthVar(2), f.IthVar(4)))
	sup := x.Support()
	if !sup.Equals(f.MakeSet([]int{0, 2, 4})) {
		t.Errorf("Support differs from the variable cube")
	}
	// memoized per node
	if !x.Support().Equals(sup) {
		t.Errorf("Support is not stable")
	}
	if !f.One().Support().IsOne() {
		t.Errorf("Support of a constant is not the empty cube")
	}
}

func TestRestrict(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 4)
			x := f.Xor(f.IthVar(0), f.IthVar(1))
			if !f.Restrict(x, f.IthVar(0)).Equals(f.NIthVar(1)) {
				t.Errorf("restrict x0=1 of x0 xor x1 is not !x1")
			}
			if !f.Restrict(x, f.NIthVar(0)).Equals(f.IthVar(1)) {
				t.Errorf("restrict x0=0 of x0 xor x1 is not x1")
			}
			// restricting by a multi-variable cube fixes each literal
			y := f.Or(f.And(f.IthVar(0), f.IthVar(2)), f.And(f.IthVar(1), f.IthVar(3)))
			cube := f.AndLiterals(f.IthVar(0), f.NIthVar(3))
			if !f.Restrict(y, cube).Equals(f.IthVar(2)) {
				t.Errorf("restrict x0=1, x3=0 is not x2")
			}
			// restricting by the empty cube is the identity
			if !f.Restrict(y, f.One()).Equals(y) {
				t.Errorf("restrict by the empty cube changed the function")
			}
			// restricting a variable absent from the function
			if !f.Restrict(f.IthVar(1), f.IthVar(0)).Equals(f.IthVar(1)) {
				t.Errorf("restrict of an absent variable changed the function")
			}
		})
	}
}

func TestQuantification(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 4)
			x := f.And(f.IthVar(0), f.IthVar(1))
			if !f.Exist(x, f.MakeSet([]int{0})).Equals(f.IthVar(1)) {
				t.Errorf("exist x0 . x0 & x1 is not x1")
			}
			if !f.Forall(x, f.MakeSet([]int{0})).IsZero() {
				t.Errorf("forall x0 . x0 & x1 is not false")
			}
			y := f.Or(f.IthVar(0), f.IthVar(1))
			if !f.Forall(y, f.MakeSet([]int{0})).Equals(f.IthVar(1)) {
				t.Errorf("forall x0 . x0 | x1 is not x1")
			}
			// quantifying over the empty cube is the identity
			if !f.Exist(x, f.One()).Equals(x) {
				t.Errorf("exist over the empty cube changed the function")
			}
			// exist and forall are dual
			z := f.Xor(f.IthVar(0), f.And(f.IthVar(1), f.IthVar(2)))
			cube := f.MakeSet([]int{1, 2})
			dual := f.Not(f.Exist(f.Not(z), cube))
			if !f.Forall(z, cube).Equals(dual) {
				t.Errorf("forall is not the dual of exist")
			}
		})
	}
}

func TestRelProd(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 6)
			// a toy transition relation: x' variables are 3..5, state
			// variables 0..2
			rel := f.And(
				f.Biimp(f.IthVar(3), f.NIthVar(0)),
				f.Biimp(f.IthVar(4), f.IthVar(1)),
			)
			state := f.And(f.IthVar(0), f.IthVar(1), f.NIthVar(2))
			cube := f.MakeSet([]int{0, 1, 2})
			got := state.RelProd(rel, cube)
			expected := f.Exist(f.And(state, rel), cube)
			if !got.Equals(expected) {
				t.Errorf("relprod differs from exist of the conjunction")
			}
			if !got.Equals(f.And(f.NIthVar(3), f.IthVar(4))) {
				t.Errorf("relprod image is wrong")
			}
		})
	}
}
