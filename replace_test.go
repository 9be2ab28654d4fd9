// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"errors"
	"testing"
)

func TestReplaceSwap(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 4)
			p := f.MakePair()
			if err := p.SetPairs([]int{0, 1}, []int{1, 0}); err != nil {
				t.Fatal(err)
			}
			p = p.FreezeAndInstall()
			x := f.And(f.IthVar(0), f.NIthVar(1))
			swapped := f.Replace(x, p)
			expected := f.And(f.NIthVar(0), f.IthVar(1))
			if !swapped.Equals(expected) {
				t.Errorf("replace with {0->1, 1->0} did not swap the variables")
			}
			// swapping twice is the identity
			if !f.Replace(swapped, p).Equals(x) {
				t.Errorf("double swap is not the identity")
			}
		})
	}
}

func TestReplaceIdentity(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	p := f.MakePair().FreezeAndInstall()
	x := f.Or(f.And(f.IthVar(0), f.IthVar(2)), f.NIthVar(3))
	if !f.Replace(x, p).Equals(x) {
		t.Errorf("replace with the identity pairing changed the function")
	}
}

func TestReplaceDownOrder(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	p, err := f.GetPair(VarPair{Old: 0, New: 2})
	if err != nil {
		t.Fatal(err)
	}
	// renaming 0 to 2 moves the variable below 1, which exercises the
	// structural correction
	x := f.And(f.IthVar(0), f.NIthVar(1))
	expected := f.And(f.IthVar(2), f.NIthVar(1))
	if !f.Replace(x, p).Equals(expected) {
		t.Errorf("order-violating renaming was not corrected")
	}
}

func TestPairingDedup(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	p1, err := f.GetPair(VarPair{Old: 0, New: 1}, VarPair{Old: 1, New: 0})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := f.GetPair(VarPair{Old: 1, New: 0}, VarPair{Old: 0, New: 1})
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("equal pairings do not resolve to the same canonical object")
	}
	// an equal pairing built by hand adopts the canonical identity
	q := f.MakePair()
	if err := q.Set(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := q.Set(1, 0); err != nil {
		t.Fatal(err)
	}
	if q.FreezeAndInstall() != p1 {
		t.Errorf("FreezeAndInstall on an equal pairing does not return the canonical object")
	}
	// installation is idempotent
	if p1.FreezeAndInstall() != p1 {
		t.Errorf("FreezeAndInstall is not idempotent")
	}
}

func TestFrozenPairing(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	p := f.MakePair()
	if err := p.Set(0, 1); err != nil {
		t.Fatal(err)
	}
	p.FreezeAndInstall()
	if err := p.Set(2, 3); !errors.Is(err, ErrFrozenPairing) {
		t.Errorf("Set on an installed pairing: expected ErrFrozenPairing, actual %v", err)
	}
	if err := p.SetBDD(2, f.IthVar(3)); !errors.Is(err, ErrFrozenPairing) {
		t.Errorf("SetBDD on an installed pairing: expected ErrFrozenPairing, actual %v", err)
	}
}

func TestPairingErrors(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	p := f.MakePair()
	if err := p.SetPairs([]int{0, 1}, []int{1}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("mismatched lengths: expected ErrConfiguration, actual %v", err)
	}
	if err := p.Set(0, 7); !errors.Is(err, ErrConfiguration) {
		t.Errorf("out-of-range variable: expected ErrConfiguration, actual %v", err)
	}
	if _, err := f.GetPair(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty GetPair: expected ErrConfiguration, actual %v", err)
	}
	q := f.MakePair()
	if x := f.Replace(f.IthVar(0), q); x != nil || !f.Errored() {
		t.Errorf("replace with an uninstalled pairing: expected nil and an error")
	}
}

func TestCompose(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := newTestFactory(t, pkg, 4)
			// substituting g for v in x equals ite(g, x|v=1, x|v=0)
			x := f.Xor(f.IthVar(1), f.And(f.IthVar(0), f.IthVar(2)))
			g := f.Or(f.IthVar(0), f.IthVar(3))
			composed := f.Compose(x, 2, g)
			hi := f.Restrict(x, f.IthVar(2))
			lo := f.Restrict(x, f.NIthVar(2))
			expected := f.Ite(g, hi, lo)
			if !composed.Equals(expected) {
				t.Errorf("compose differs from ite on the cofactors")
			}
			// composing with the variable itself is the identity
			if !f.Compose(x, 2, f.IthVar(2)).Equals(x) {
				t.Errorf("compose with the variable itself changed the function")
			}
		})
	}
}

func TestReplaceWithBDD(t *testing.T) {
	f := newTestFactory(t, "java", 4)
	x := f.Xor(f.IthVar(1), f.And(f.IthVar(0), f.IthVar(2)))
	g := f.Or(f.IthVar(0), f.IthVar(3))
	p := f.MakePair()
	if err := p.SetBDD(2, g); err != nil {
		t.Fatal(err)
	}
	p = p.FreezeAndInstall()
	if !f.Replace(x, p).Equals(f.Compose(x, 2, g)) {
		t.Errorf("replace with a BDD-valued pair differs from compose")
	}
}
