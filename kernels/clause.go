// Package kernels provides the scalar compute kernels shared by every
// Tsetlin Machine engine variant: clause evaluation, vote summation, the
// opcode-dispatched output-activation strategies, and the feedback class
// selection for each label interpretation. Kernels operate in-place on
// caller-owned slices and perform no allocation of their own.
package kernels

import "github.com/notEloiir/tsetlin-go/core"

// DenseClauseOutputs evaluates every clause against row x, writing 1/0
// into out. taState is flat (numClauses, numLiterals, 2). skipEmpty
// selects training (0) vs inference (1) semantics for empty clauses.
func DenseClauseOutputs(taState []int8, numLiterals uint32, midState int8, x []uint8, skipEmpty bool, out []uint8) {
	numClauses := uint32(len(out))
	for c := uint32(0); c < numClauses; c++ {
		base := c * numLiterals * 2
		output := uint8(1)
		empty := true
		for l := uint32(0); l < numLiterals; l++ {
			for parity := uint32(0); parity < 2; parity++ {
				state := taState[base+l*2+parity]
				if state < midState {
					continue // automaton excluded
				}
				empty = false
				if (parity == 1) == (x[l] == 1) {
					// (i&1) != x[l] is the "votes correctly" condition;
					// this branch is its negation.
					output = 0
					break
				}
			}
			if output == 0 {
				break
			}
		}
		if empty && skipEmpty {
			output = 0
		}
		out[c] = output
	}
}

// SparseClauseOutputs evaluates every clause's sparse automaton list
// against row x. clauses[c] must be sorted by TAID ascending. Every entry
// passed in is treated as included; its TAState is not checked.
func SparseClauseOutputs(clauses [][]SparseEntry, x []uint8, skipEmpty bool, out []uint8) {
	for c, entries := range clauses {
		output := uint8(1)
		for _, e := range entries {
			l := e.TAID >> 1
			parity := e.TAID & 1
			if (parity == 1) == (x[l] == 1) {
				output = 0
				break
			}
		}
		if len(entries) == 0 && skipEmpty {
			output = 0
		}
		out[c] = output
	}
}

// StatelessClauseOutputs evaluates every clause's literal-index list
// against row x. Every listed index is by definition included, so there
// is no counter to check.
func StatelessClauseOutputs(clauses [][]uint32, x []uint8, out []uint8) {
	for c, ids := range clauses {
		output := uint8(1)
		for _, id := range ids {
			l := id >> 1
			parity := id & 1
			if (parity == 1) == (x[l] == 1) {
				output = 0
				break
			}
		}
		if len(ids) == 0 {
			output = 0
		}
		out[c] = output
	}
}

// SumVotes zeroes votes, adds each active clause's weight row into it, then
// symmetrically clips every class's total to [-threshold, threshold].
// weights is flat (numClauses, numClasses).
func SumVotes(clauseOutput []uint8, weights []int16, numClasses uint32, threshold uint32, votes []int32) {
	for i := range votes {
		votes[i] = 0
	}
	for c, active := range clauseOutput {
		if active == 0 {
			continue
		}
		base := uint32(c) * numClasses
		for cls := uint32(0); cls < numClasses; cls++ {
			votes[cls] += int32(weights[base+cls])
		}
	}
	bound := int32(threshold)
	for i, v := range votes {
		votes[i] = core.Clip(v, bound)
	}
}

// SparseEntry is one (literal index, counter) pair held by a trainable
// sparse clause, kept sorted by TAID within its owning clause.
type SparseEntry struct {
	TAID    uint32
	TAState int8
}

// SparseEntryList is one clause's sorted entry list. Named so engine types
// can hold a slice of these without repeating the element type everywhere.
type SparseEntryList []SparseEntry
