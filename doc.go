// Copyright (c) 2024 The netsmith authors
//
// MIT License

/*
Package bdd implements Reduced Ordered Binary Decision Diagrams (BDD), a
data structure used to represent and manipulate Boolean functions over a
fixed, ordered set of variables. It is the symbolic core used by our
network-analysis tools to reason about sets of packet headers: packet
fields become bit-vector variables and large constraint conjunctions are
composed with the usual Boolean operators.

Basics

A Factory owns a node table, the operator caches and the garbage
collector. Variables are integer indices in [0..VarNum); the number of
variables can only grow (SetVarNum). Every operation returns a *BDD, an
owning handle that protects its root node from garbage collection until
Free is called. The consuming variants (AndWith, OrWith, ...) release
both operands and return a fresh handle, which is the natural shape for
long chains of conjunctions.

Two node-table implementations are available and share the whole engine:
the default ("java") uses a BuDDy-style dynamic array mixed with a hash
table, while "orig" keeps the unicity table in a standard Go map. The
implementation is selected by the package string passed to Init; unknown
names fall back to the default.

Memory management

Nodes are reference counted through handles only; edges between nodes
are traced. When the table runs out of free slots a mark-and-sweep
collection reclaims every node not reachable from a live handle, and the
table grows when too little space is recovered. Nodes never move, so an
operation in flight survives a collection as long as its transient
results sit on the internal reference stack.
*/
package bdd
