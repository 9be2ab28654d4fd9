// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import "math/big"

// Prime number calculations used when sizing the node table and the
// operator caches. Prime sizes keep the distribution of the triple hash
// even.

func hasFactor(src, n int) bool {
	return src != n && src%n == 0
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

// primeGTE returns the first prime greater than or equal to src.
func primeGTE(src int) int {
	if src <= 2 {
		return 2
	}
	if src%2 == 0 {
		src++
	}
	for {
		if !hasEasyFactors(src) {
			// ProbablyPrime is 100% accurate for inputs less than 2^64.
			if big.NewInt(int64(src)).ProbablyPrime(0) {
				return src
			}
		}
		src += 2
	}
}

// primeLTE returns the last prime less than or equal to src.
func primeLTE(src int) int {
	if src < 3 {
		return 2
	}
	if src%2 == 0 {
		src--
	}
	for {
		if !hasEasyFactors(src) {
			if big.NewInt(int64(src)).ProbablyPrime(0) {
				return src
			}
		}
		src -= 2
	}
}
