// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd_test

import (
	"fmt"

	"github.com/netsmith/bdd"
)

// This example shows the basic usage of the package: create a factory,
// combine some variables and count the satisfying assignments.
func Example_basic() {
	f := bdd.Init("java", 10000, 3000)
	f.SetVarNum(6)
	// n is the expression x0 & (x1 | x2)
	n := f.And(f.IthVar(0), f.Or(f.IthVar(1), f.IthVar(2)))
	fmt.Printf("Number of sat. assignments: %s\n", f.SatCount(n))
	// Output:
	// Number of sat. assignments: 24
}

// This example encodes a 16-bit packet field as an integer and builds an
// inequality predicate over it.
func Example_integer() {
	f := bdd.Init("java", 10000, 1000)
	f.SetVarNum(16)
	port, _ := f.NewInteger(16, 0)
	ephemeral := port.Geq(32768)
	fmt.Printf("ephemeral ports: %s\n", ephemeral.SatCount())
	// Output:
	// ephemeral ports: 32768
}
