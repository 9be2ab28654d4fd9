// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import "fmt"

// Operator describes the binary operations available in Apply. The numeric
// codes are stable and part of the public surface: and=0, xor=1, or=2,
// nand=3, nor=4, imp=5, biimp=6, diff=7, less=8, invimp=9. Only OPand to
// OPnor can be used in AppEx.
type Operator int

const (
	OPand    Operator = iota // Conjunction
	OPxor                    // Exclusive or
	OPor                     // Disjunction
	OPnand                   // Negation of and
	OPnor                    // Negation of or
	OPimp                    // Implication
	OPbiimp                  // Equivalence
	OPdiff                   // Set difference
	OPless                   // Less than (strict difference)
	OPinvimp                 // Reverse implication
	op_not                   // Negation. Not valid in Apply, used as a cache tag
)

var opnames = [11]string{
	OPand:    "and",
	OPxor:    "xor",
	OPor:     "or",
	OPnand:   "nand",
	OPnor:    "nor",
	OPimp:    "imp",
	OPbiimp:  "biimp",
	OPdiff:   "diff",
	OPless:   "less",
	OPinvimp: "invimp",
	op_not:   "not",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(opnames) {
		return "unknown"
	}
	return opnames[op]
}

// commutative reports whether operands of op can be swapped. Canonicalizing
// the operand order for these operators halves the number of distinct apply
// cache entries.
func (op Operator) commutative() bool {
	switch op {
	case OPand, OPxor, OPor, OPnand, OPnor, OPbiimp:
		return true
	}
	return false
}

var opres = [10][2][2]int{
	//                      00    01               10    11
	OPand:    {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 0, 1: 1}}, // 0001
	OPxor:    {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 0}}, // 0110
	OPor:     {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 1}}, // 0111
	OPnand:   {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 1, 1: 0}}, // 1110
	OPnor:    {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 0}}, // 1000
	OPimp:    {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 0, 1: 1}}, // 1101
	OPbiimp:  {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 1}}, // 1001
	OPdiff:   {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 1, 1: 0}}, // 0010
	OPless:   {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 0, 1: 0}}, // 0100
	OPinvimp: {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 1, 1: 1}}, // 1011
}

// GetOp returns the operator for a stable integer code.
func GetOp(op int) (Operator, error) {
	if op < 0 || op > int(OPinvimp) {
		return 0, fmt.Errorf("unknown operator code (%d): %w", op, ErrConfiguration)
	}
	return Operator(op), nil
}
