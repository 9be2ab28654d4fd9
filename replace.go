// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"
	"sort"
	"strings"
)

// VarPair is one entry of a variable substitution, mapping the variable Old
// to the variable New.
type VarPair struct {
	Old, New int
}

// Pairing is a substitution map used by Replace and Compose. A pairing is
// built by Set calls and must be frozen with FreezeAndInstall before use;
// once installed it is immutable and owns a stable identity used as an
// operator-cache key. Semantically equal pairings installed on the same
// factory resolve to the same canonical object, so that independent
// constructions share their cached replace results.
type Pairing struct {
	f      *Factory
	id     int           // cache identity, assigned at install time
	frozen bool          // set by FreezeAndInstall
	image  []int32       // replacement variable per level, identity by default
	nodes  map[int32]int // replacement function per level, for BDD-valued entries
	last   int32         // deepest level touched by the pairing
}

// MakePair returns a new mutable pairing.
func (f *Factory) MakePair() *Pairing {
	p := &Pairing{f: f, image: make([]int32, f.varnum), last: -1}
	for k := range p.image {
		p.image[k] = int32(k)
	}
	return p
}

// Set adds the pair (oldvar, newvar) to the pairing, so that oldvar is
// substituted with newvar in a call to Replace.
func (p *Pairing) Set(oldvar, newvar int) error {
	if p.frozen {
		return fmt.Errorf("set(%d, %d): %w", oldvar, newvar, ErrFrozenPairing)
	}
	if oldvar < 0 || int32(oldvar) >= p.f.varnum || newvar < 0 || int32(newvar) >= p.f.varnum {
		return errConfigf("invalid variable in pair (%d, %d)", oldvar, newvar)
	}
	// the variable order may have grown since the pairing was created
	for len(p.image) <= oldvar {
		p.image = append(p.image, int32(len(p.image)))
	}
	p.image[oldvar] = int32(newvar)
	delete(p.nodes, int32(oldvar))
	if int32(oldvar) > p.last {
		p.last = int32(oldvar)
	}
	return nil
}

// SetPairs adds a whole list of pairs, mapping oldvars[k] to newvars[k].
func (p *Pairing) SetPairs(oldvars, newvars []int) error {
	if len(oldvars) != len(newvars) {
		return errConfigf("unmatched slice lengths (%d and %d) in SetPairs", len(oldvars), len(newvars))
	}
	for k := range oldvars {
		if err := p.Set(oldvars[k], newvars[k]); err != nil {
			return err
		}
	}
	return nil
}

// SetBDD adds the pair (oldvar, g), so that oldvar is substituted with the
// arbitrary function g. Replace falls back to a compose recursion for such
// entries.
func (p *Pairing) SetBDD(oldvar int, g *BDD) error {
	if p.frozen {
		return fmt.Errorf("set(%d, <bdd>): %w", oldvar, ErrFrozenPairing)
	}
	p.f.checkptr(g)
	if oldvar < 0 || int32(oldvar) >= p.f.varnum {
		return errConfigf("invalid variable (%d) in pair", oldvar)
	}
	if p.nodes == nil {
		p.nodes = make(map[int32]int)
	}
	// pin the replacement function for the lifetime of the pairing
	p.f.tab.retain(g.node)
	p.nodes[int32(oldvar)] = g.node
	if int32(oldvar) > p.last {
		p.last = int32(oldvar)
	}
	return nil
}

// key canonicalizes the entry set of the pairing.
func (p *Pairing) key() string {
	entries := make([]string, 0, len(p.image)+len(p.nodes))
	for k, v := range p.image {
		if _, ok := p.nodes[int32(k)]; ok {
			continue
		}
		if int(v) != k {
			entries = append(entries, fmt.Sprintf("%d>%d", k, v))
		}
	}
	for k, g := range p.nodes {
		entries = append(entries, fmt.Sprintf("%d>#%d", k, g))
	}
	sort.Strings(entries)
	return strings.Join(entries, ";")
}

// FreezeAndInstall finalizes the pairing and registers it with the factory
// so it can be used in Replace. Installation is idempotent; installing a
// pairing equal to an already installed one returns the canonical object.
// After installation the pairing can no longer be mutated with Set.
func (p *Pairing) FreezeAndInstall() *Pairing {
	if p.frozen {
		return p
	}
	key := p.key()
	if q, ok := p.f.pairs[key]; ok {
		p.frozen = true
		p.id = q.id
		return q
	}
	p.frozen = true
	p.f.pairnum++
	p.id = p.f.pairnum << 2
	p.f.pairs[key] = p
	// entries keyed on a previously installed pairing are stale now
	p.f.replacecache.reset()
	return p
}

// GetPair returns the canonical installed pairing for an entry set. The
// result must not be mutated.
func (f *Factory) GetPair(pairs ...VarPair) (*Pairing, error) {
	if len(pairs) == 0 {
		return nil, errConfigf("need at least one pair")
	}
	p := f.MakePair()
	for _, vp := range pairs {
		if err := p.Set(vp.Old, vp.New); err != nil {
			return nil, err
		}
	}
	return p.FreezeAndInstall(), nil
}

func (p *Pairing) mapsTo(level int32) int32 {
	if int(level) >= len(p.image) {
		return level
	}
	return p.image[level]
}

// Replace computes the result of n after replacing old variables with new
// ones, following an installed pairing. Renamings that would violate the
// variable order are corrected structurally; BDD-valued entries are
// substituted with an if-then-else on the cofactors.
func (f *Factory) Replace(n *BDD, p *Pairing) *BDD {
	f.checkptr(n)
	if p == nil || p.f != f {
		panic(fmt.Errorf("bdd: pairing: %w", ErrCrossFactory))
	}
	if !p.frozen {
		return f.seterror(ErrConfiguration, "pairing used in Replace before FreezeAndInstall")
	}
	f.initref()
	f.pushref(n.node)
	f.replaceid = p.id
	res := f.replace(n.node, p)
	f.popref(1)
	return f.retnode(res)
}

func (f *Factory) replace(n int, p *Pairing) int {
	if n < 2 || f.tab.level(n) > p.last {
		return n
	}
	if res := f.matchreplace(n); res >= 0 {
		return res
	}
	low := f.pushref(f.replace(f.tab.low(n), p))
	high := f.pushref(f.replace(f.tab.high(n), p))
	lvl := f.tab.level(n)
	var res int
	if g, ok := p.nodes[lvl]; ok {
		res = f.ite(g, high, low)
	} else if len(p.nodes) > 0 {
		// substituted functions may bring variables above lvl into low and
		// high, which correctify cannot reorder
		res = f.ite(f.varset[p.mapsTo(lvl)][0], high, low)
	} else {
		res = f.correctify(p.mapsTo(lvl), low, high)
	}
	f.popref(2)
	return f.setreplace(n, res)
}

// correctify builds the function (level ? high : low) when level may sit
// below the root of low or high, pushing the new variable down to a
// position where the order is respected again.
func (f *Factory) correctify(level int32, low, high int) int {
	if low < 0 || high < 0 {
		return -1
	}
	if level < f.tab.level(low) && level < f.tab.level(high) {
		return f.tab.makenode(level, low, high)
	}
	if level == f.tab.level(low) || level == f.tab.level(high) {
		f.seterror(ErrConfiguration, "replace: variable %d would appear twice on a path", level)
		return -1
	}
	lowlvl := f.tab.level(low)
	highlvl := f.tab.level(high)
	var lvl int32
	var left, right int
	switch {
	case lowlvl == highlvl:
		lvl = lowlvl
		left = f.pushref(f.correctify(level, f.tab.low(low), f.tab.low(high)))
		right = f.pushref(f.correctify(level, f.tab.high(low), f.tab.high(high)))
	case lowlvl < highlvl:
		lvl = lowlvl
		left = f.pushref(f.correctify(level, f.tab.low(low), high))
		right = f.pushref(f.correctify(level, f.tab.high(low), high))
	default:
		lvl = highlvl
		left = f.pushref(f.correctify(level, low, f.tab.low(high)))
		right = f.pushref(f.correctify(level, low, f.tab.high(high)))
	}
	res := f.tab.makenode(lvl, left, right)
	f.popref(2)
	return res
}

// Compose substitutes the function g for variable v in n, through an
// if-then-else on the cofactors at v.
func (f *Factory) Compose(n *BDD, v int, g *BDD) *BDD {
	f.checkptr(n)
	f.checkptr(g)
	if v < 0 || int32(v) >= f.varnum {
		return f.seterror(ErrConfiguration, "unknown variable (%d) in call to Compose", v)
	}
	f.composeid = (v << 2) | 0x1
	f.composelevel = int32(v)
	f.initref()
	f.pushref(n.node)
	f.pushref(g.node)
	res := f.compose(n.node, g.node)
	f.popref(2)
	return f.retnode(res)
}

func (f *Factory) compose(n, g int) int {
	if n < 0 || g < 0 {
		return -1
	}
	if f.tab.level(n) > f.composelevel {
		return n
	}
	if res := f.matchcompose(n, g); res >= 0 {
		return res
	}
	var res int
	if f.tab.level(n) < f.composelevel {
		low := f.pushref(f.compose(f.tab.low(n), g))
		high := f.pushref(f.compose(f.tab.high(n), g))
		// g may hold variables above n, so the node is rebuilt through ite
		res = f.ite(f.varset[f.tab.level(n)][0], high, low)
		f.popref(2)
	} else {
		res = f.ite(g, f.tab.high(n), f.tab.low(n))
	}
	return f.setcompose(n, g, res)
}
