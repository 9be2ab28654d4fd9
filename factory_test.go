// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"errors"
	"strings"
	"testing"
)

func TestInitPackages(t *testing.T) {
	var initTests = []struct {
		pkg      string
		expected string
	}{
		{"", "java"},
		{"j", "java"},
		{"java", "java"},
		{"JFactory", "java"},
		{"orig", "orig"},
		{"origJFactory", "orig"},
		{"cudd", "java"}, // unavailable, falls back to the default
		{"com.example.Factory", "java"},
	}
	for _, tt := range initTests {
		f := Init(tt.pkg, 1000, 100)
		if !f.IsInitialized() {
			t.Errorf("Init(%q) is not initialized", tt.pkg)
		}
		if !strings.Contains(f.Stats(), "Package:    "+tt.expected) {
			t.Errorf("Init(%q): expected package %q, stats: %s", tt.pkg, tt.expected, f.Stats())
		}
	}
}

func TestSetVarNum(t *testing.T) {
	f := Init("java", 1000, 100)
	f.SetGCHandler(nil)
	if old, err := f.SetVarNum(4); err != nil || old != 0 {
		t.Fatalf("SetVarNum(4): old %d, err %v", old, err)
	}
	if f.VarNum() != 4 {
		t.Fatalf("VarNum: expected 4, actual %d", f.VarNum())
	}
	// growing keeps existing functions intact
	x := f.And(f.IthVar(0), f.IthVar(3))
	if old, err := f.SetVarNum(8); err != nil || old != 4 {
		t.Fatalf("SetVarNum(8): old %d, err %v", old, err)
	}
	if !x.Equals(f.And(f.IthVar(0), f.IthVar(3))) {
		t.Errorf("growing the order changed an existing function")
	}
	if x.SatCount().Int64() != 64 {
		t.Errorf("SatCount after growth: expected 64, actual %s", x.SatCount())
	}
	// shrinking is rejected
	if _, err := f.SetVarNum(2); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetVarNum(2): expected ErrConfiguration, actual %v", err)
	}
	if _, err := f.SetVarNum(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetVarNum(0): expected ErrConfiguration, actual %v", err)
	}
	if old, err := f.ExtVarNum(2); err != nil || old != 8 {
		t.Errorf("ExtVarNum(2): old %d, err %v", old, err)
	}
}

func TestIthVarRange(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	if x := f.IthVar(3); x != nil || !f.Errored() {
		t.Errorf("IthVar(3) out of range: expected nil and an error")
	}
	if x := f.NIthVar(-1); x != nil {
		t.Errorf("NIthVar(-1): expected nil")
	}
}

func TestGCRetention(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := Init(pkg, 200, 100)
			f.SetGCHandler(nil)
			if _, err := f.SetVarNum(10); err != nil {
				t.Fatal(err)
			}
			kept := f.And(f.IthVar(0), f.IthVar(5), f.NIthVar(9))
			count := kept.SatCount()
			f.GC()
			live := f.NodeNum()

			// allocate well past the initial table size, then drop everything
			garbage := []*BDD{}
			for i := 0; i < 2000; i++ {
				b := f.And(f.IthVar((i+3)%10), f.NIthVar((i+7)%10))
				x := f.Xor(f.IthVar(i%10), b)
				b.Free()
				garbage = append(garbage, x)
			}
			for _, x := range garbage {
				x.Free()
			}
			f.GC()
			if got := f.NodeNum(); got != live {
				t.Errorf("NodeNum after GC: expected %d, actual %d", live, got)
			}
			if kept.SatCount().Cmp(count) != 0 {
				t.Errorf("a retained function changed across GC")
			}
			// GC with no dead nodes is idempotent
			num := f.GetGCStats().Num
			f.GC()
			if got := f.NodeNum(); got != live {
				t.Errorf("idempotent GC changed NodeNum: expected %d, actual %d", live, got)
			}
			if f.GetGCStats().Num != num+1 {
				t.Errorf("GC counter did not advance")
			}
		})
	}
}

func TestGCHandler(t *testing.T) {
	f := Init("java", 200, 100)
	reports := []GCStats{}
	f.SetGCHandler(func(s GCStats) { reports = append(reports, s) })
	if _, err := f.SetVarNum(4); err != nil {
		t.Fatal(err)
	}
	f.GC()
	f.GC()
	if len(reports) != 2 {
		t.Fatalf("expected 2 GC reports, actual %d", len(reports))
	}
	if reports[1].Num != 2 || reports[1].Sumtime < reports[1].Time {
		t.Errorf("inconsistent GC stats: %v", reports[1])
	}
}

func TestUseAfterFree(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	x := f.And(f.IthVar(0), f.IthVar(1))
	x.Free()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUseAfterFree) {
			t.Errorf("expected ErrUseAfterFree panic, actual %v", r)
		}
	}()
	x.And(f.IthVar(2))
}

func TestCrossFactory(t *testing.T) {
	f1 := newTestFactory(t, "java", 3)
	f2 := newTestFactory(t, "java", 3)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrCrossFactory) {
			t.Errorf("expected ErrCrossFactory panic, actual %v", r)
		}
	}()
	f1.IthVar(0).And(f2.IthVar(0))
}

func TestDone(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	x := f.IthVar(0)
	f.Done()
	if f.IsInitialized() {
		t.Errorf("factory still initialized after Done")
	}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUseAfterFree) {
			t.Errorf("expected ErrUseAfterFree panic, actual %v", r)
		}
	}()
	x.Not()
}

func TestSetters(t *testing.T) {
	f := newTestFactory(t, "java", 3)
	if old, err := f.SetMinFreeNodes(0.3); err != nil || old != _DEFMINFREE {
		t.Errorf("SetMinFreeNodes: old %g, err %v", old, err)
	}
	if _, err := f.SetMinFreeNodes(1.5); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetMinFreeNodes(1.5): expected ErrConfiguration, actual %v", err)
	}
	if _, err := f.SetIncreaseFactor(0.5); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetIncreaseFactor(0.5): expected ErrConfiguration, actual %v", err)
	}
	if old, err := f.SetIncreaseFactor(3); err != nil || old != _DEFINCREASE {
		t.Errorf("SetIncreaseFactor: old %g, err %v", old, err)
	}
	if _, err := f.SetCacheRatio(-1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetCacheRatio(-1): expected ErrConfiguration, actual %v", err)
	}
	if _, err := f.SetCacheSize(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetCacheSize(0): expected ErrConfiguration, actual %v", err)
	}
	old := f.NodeTableSize()
	prev, err := f.SetNodeTableSize(4 * old)
	if err != nil || prev != old {
		t.Fatalf("SetNodeTableSize: prev %d, err %v", prev, err)
	}
	if f.NodeTableSize() < 4*old {
		t.Errorf("node table did not grow: %d", f.NodeTableSize())
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte("package: orig\nnodenum: 5000\ncachesize: 500\nminfreenodes: 0.25\nincreasefactor: 2.5\ncacheratio: 4\nvarnum: 6\n")
	c, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	f, err := InitConfig(c)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if f.VarNum() != 6 {
		t.Errorf("VarNum: expected 6, actual %d", f.VarNum())
	}
	if !strings.Contains(f.Stats(), "Package:    orig") {
		t.Errorf("expected the orig package, stats: %s", f.Stats())
	}

	for _, bad := range []string{
		"minfreenodes: 1.5",
		"increasefactor: 0.2",
		"cacheratio: -2",
		"varnum: -1",
		"nodenum: [1,2]",
	} {
		if _, err := ParseConfig([]byte(bad)); !errors.Is(err, ErrConfiguration) {
			t.Errorf("ParseConfig(%q): expected ErrConfiguration, actual %v", bad, err)
		}
	}
}

func TestTableGrowth(t *testing.T) {
	for _, pkg := range packages {
		t.Run(pkg, func(t *testing.T) {
			f := Init(pkg, 64, 64)
			f.SetGCHandler(nil)
			initial := f.NodeTableSize()
			if _, err := f.SetVarNum(16); err != nil {
				t.Fatal(err)
			}
			// keep every intermediate alive so collections cannot reclaim
			// anything and the table has to grow
			kept := []*BDD{}
			acc := f.One()
			for i := 0; i < 15; i++ {
				acc = f.And(acc, f.Or(f.IthVar(i), f.IthVar(i+1)))
				kept = append(kept, acc)
			}
			if f.Errored() {
				t.Fatalf("error during growth: %s", f.Error())
			}
			if f.NodeTableSize() <= initial {
				t.Errorf("table did not grow: %d slots", f.NodeTableSize())
			}
			expected := f.And(kept[len(kept)-1], f.One())
			if !acc.Equals(expected) {
				t.Errorf("grown table changed a live function")
			}
		})
	}
}

func TestMaxNodeSize(t *testing.T) {
	f := Init("java", 64, 64)
	f.SetGCHandler(nil)
	f.SetMaxNodeSize(101)
	if _, err := f.SetVarNum(8); err != nil {
		t.Fatal(err)
	}
	vars := []int{0, 1, 2, 3, 4, 5, 6, 7}
	kept := []*BDD{}
	filled := false
	for i := 0; i < 256; i++ {
		c := f.BuildCube(i, vars)
		if c == nil {
			filled = true
			break
		}
		kept = append(kept, c)
	}
	if !filled {
		t.Fatalf("table never filled up")
	}
	if !errors.Is(f.err, ErrOutOfMemory) {
		t.Fatalf("expected ErrOutOfMemory, actual %s", f.Error())
	}
	// the factory remains usable after the failed operation: this negation
	// resolves to the pinned variable nodes without any allocation
	if y := f.Not(f.IthVar(0)); y == nil || !y.Equals(f.NIthVar(0)) {
		t.Errorf("factory unusable after out-of-memory")
	}
	if len(kept) == 0 || kept[0].SatCount().Int64() != 1 {
		t.Errorf("retained cube damaged after out-of-memory")
	}
}
