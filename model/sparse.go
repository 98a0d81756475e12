package model

import (
	"fmt"

	"github.com/notEloiir/tsetlin-go/core"
	"github.com/notEloiir/tsetlin-go/kernels"
)

// Sparse is the trainable, per-clause-list Tsetlin Machine engine. Only
// automata whose counter is at or above SparseMinState are represented;
// everything else has an implicit counter of MinState.
type Sparse struct {
	Params core.Hyperparameters

	Clauses []kernels.SparseEntryList
	Weights []int16 // flat (numClauses, numClasses)

	ActiveLiterals [][]byte // one bitmap row per class, BitmapStride bytes each

	rng     *core.PRNG
	scratch *kernels.ScratchPool

	Activation kernels.OutputActivation
	LabelKind  kernels.LabelKind
	FeedbackFn func(e *Sparse, x []uint8, y []byte)
	EqualFn    func(a, b []byte) bool
}

// NewSparse constructs a Sparse engine with every clause empty and weights
// initialized to ±1 by fair coin.
func NewSparse(params core.Hyperparameters, seed uint32) (*Sparse, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("model: NewSparse: %w", err)
	}

	s := &Sparse{
		Params:     params,
		Clauses:    make([]kernels.SparseEntryList, params.NumClauses),
		Weights:    make([]int16, params.NumClauses*params.NumClasses),
		rng:        core.NewPRNG(seed),
		scratch:    kernels.NewScratchPool(int(params.NumClasses), int(params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		LabelKind:  kernels.LabelClassIndex,
		EqualFn:    defaultEqual,
	}

	s.ActiveLiterals = make([][]byte, params.NumClasses)
	for c := range s.ActiveLiterals {
		s.ActiveLiterals[c] = make([]byte, params.BitmapStride)
	}

	for i := range s.Weights {
		if s.rng.NextFloat32() < 0.5 {
			s.Weights[i] = 1
		} else {
			s.Weights[i] = -1
		}
	}

	return s, nil
}

func (s *Sparse) SetOutputActivation(a kernels.OutputActivation) { s.Activation = a }

func (s *Sparse) SetCalculateFeedback(fn func(e *Sparse, x []uint8, y []byte)) {
	s.FeedbackFn = fn
}

func (s *Sparse) isActive(class, l uint32) bool {
	row := s.ActiveLiterals[class]
	return row[l/8]&(1<<(l%8)) != 0
}

func (s *Sparse) setActive(class, l uint32) {
	row := s.ActiveLiterals[class]
	row[l/8] |= 1 << (l % 8)
}

// clauseOutputs evaluates every clause against row x into out. Only
// included entries (counter >= MidState) take part in the evaluation.
func (s *Sparse) clauseOutputs(x []uint8, skipEmpty bool, out []uint8) {
	entries := make([][]kernels.SparseEntry, len(s.Clauses))
	for c := range s.Clauses {
		for _, e := range s.Clauses[c] {
			if e.TAState >= s.Params.MidState {
				entries[c] = append(entries[c], e)
			}
		}
	}
	kernels.SparseClauseOutputs(entries, x, skipEmpty, out)
}

func (s *Sparse) sumVotes(clauseOutput []uint8, votes []int32) {
	kernels.SumVotes(clauseOutput, s.Weights, s.Params.NumClasses, s.Params.Threshold, votes)
}

// Predict runs inference over rows rows of X.
func (s *Sparse) Predict(X []uint8, yPred []byte, rows uint32) error {
	if err := s.Activation.ValidateShape(s.Params.NumClasses, s.Params.YSize, s.Params.YElementSize); err != nil {
		return err
	}

	L := s.Params.NumLiterals
	yStride := int(s.Params.YSize * s.Params.YElementSize)

	votes := s.scratch.GetVotes()
	clauseOutput := s.scratch.GetClauseOutputs()
	defer s.scratch.PutVotes(votes)
	defer s.scratch.PutClauseOutputs(clauseOutput)

	for row := uint32(0); row < rows; row++ {
		x := X[row*L : (row+1)*L]
		s.clauseOutputs(x, true, clauseOutput)
		s.sumVotes(clauseOutput, votes)
		s.Activation.Apply(votes, s.Params.MidState, yPred[int(row)*yStride:int(row+1)*yStride])
	}
	return nil
}

// Evaluate runs Predict then counts matching rows.
func (s *Sparse) Evaluate(X []uint8, y []byte, rows uint32) (int, int, error) {
	yStride := int(s.Params.YSize * s.Params.YElementSize)
	yPred := make([]byte, int(rows)*yStride)
	if err := s.Predict(X, yPred, rows); err != nil {
		return 0, 0, err
	}

	correct := 0
	for row := 0; row < int(rows); row++ {
		a := y[row*yStride : (row+1)*yStride]
		b := yPred[row*yStride : (row+1)*yStride]
		if s.EqualFn(a, b) {
			correct++
		}
	}
	return correct, int(rows), nil
}

// Train runs epochs passes over rows rows of (X, y).
func (s *Sparse) Train(X []uint8, y []byte, rows uint32, epochs uint32) error {
	if err := s.Activation.ValidateShape(s.Params.NumClasses, s.Params.YSize, s.Params.YElementSize); err != nil {
		return err
	}

	L := s.Params.NumLiterals
	yStride := int(s.Params.YSize * s.Params.YElementSize)

	for epoch := uint32(0); epoch < epochs; epoch++ {
		for row := uint32(0); row < rows; row++ {
			x := X[row*L : (row+1)*L]
			yRow := y[int(row)*yStride : int(row+1)*yStride]
			s.trainRow(x, yRow)
		}
	}
	return nil
}

func (s *Sparse) trainRow(x []uint8, y []byte) {
	if s.FeedbackFn != nil {
		s.FeedbackFn(s, x, y)
		return
	}
	defaultSparseFeedback(s, x, y)
}

func defaultSparseFeedback(s *Sparse, x []uint8, y []byte) {
	clauseOutput := s.scratch.GetClauseOutputs()
	votes := s.scratch.GetVotes()
	defer s.scratch.PutClauseOutputs(clauseOutput)
	defer s.scratch.PutVotes(votes)

	s.clauseOutputs(x, false, clauseOutput)
	s.sumVotes(clauseOutput, votes)

	sel := kernels.SelectClasses(s.LabelKind, y, votes, s.Params.Threshold, s.rng)

	if sel.HasPositive {
		for c := uint32(0); c < s.Params.NumClauses; c++ {
			if s.rng.NextFloat32() <= sel.PPos {
				s.applyFeedback(c, sel.Positive, true, clauseOutput[c], x)
			}
		}
	}
	if sel.HasNegative {
		for c := uint32(0); c < s.Params.NumClauses; c++ {
			if s.rng.NextFloat32() <= sel.PNeg {
				s.applyFeedback(c, sel.Negative, false, clauseOutput[c], x)
			}
		}
	}
}

func (s *Sparse) applyFeedback(clause, class uint32, isClassPositive bool, clauseOutput uint8, x []uint8) {
	weightIdx := clause*s.Params.NumClasses + class
	isVotePositive := s.Weights[weightIdx] >= 0

	if isVotePositive == isClassPositive {
		if clauseOutput == 1 {
			s.typeOneA(clause, weightIdx, class, x)
		} else {
			s.typeOneB(clause, weightIdx)
		}
	} else if clauseOutput == 1 {
		s.typeTwo(clause, weightIdx, class, x)
	}
}

// typeOneA walks the clause's sorted entry list in lockstep with the dense
// index space, rewarding or punishing present automata and marking newly
// observed positive literals active for absent ones. §4.4 Sparse-specific
// rules: no automaton is created here.
func (s *Sparse) typeOneA(clause, weightIdx, class uint32, x []uint8) {
	s.Weights[weightIdx] = core.SatIncI16(s.Weights[weightIdx])

	entries := s.Clauses[clause]
	out := make(kernels.SparseEntryList, 0, len(entries))
	mn, mx := s.Params.MinState, s.Params.MaxState
	ei := 0
	for i := uint32(0); i < s.Params.NumLiteralIndices(); i++ {
		l := i >> 1
		parity := i & 1

		if ei < len(entries) && entries[ei].TAID == i {
			e := entries[ei]
			ei++
			votesCorrectly := (parity == 1) != (x[l] == 1)
			state := e.TAState
			if votesCorrectly {
				if s.Params.BoostTruePositiveFeedback || s.rng.NextFloat32() <= s.Params.SM1Inv {
					state = core.SatAddI8(state, 1, mn, mx)
				}
			} else {
				if s.rng.NextFloat32() <= s.Params.SInv {
					state = core.SatSubI8(state, 1, mn, mx)
				}
			}
			if int32(state) >= int32(s.Params.SparseMinState) {
				out = append(out, kernels.SparseEntry{TAID: i, TAState: state})
			}
			continue
		}

		if parity == 0 && x[l] == 1 && !s.isActive(class, l) {
			s.setActive(class, l)
		}
	}
	s.Clauses[clause] = out
}

// typeOneB weakens present automata unconditionally of vote correctness,
// removing any that fall below SparseMinState. Absent automata are
// untouched.
func (s *Sparse) typeOneB(clause, weightIdx uint32) {
	entries := s.Clauses[clause]
	out := make(kernels.SparseEntryList, 0, len(entries))
	mn, mx := s.Params.MinState, s.Params.MaxState
	for _, e := range entries {
		state := e.TAState
		if s.rng.NextFloat32() <= s.Params.SInv {
			state = core.SatSubI8(state, 1, mn, mx)
		}
		if int32(state) >= int32(s.Params.SparseMinState) {
			out = append(out, kernels.SparseEntry{TAID: e.TAID, TAState: state})
		}
	}
	s.Clauses[clause] = out
}

// typeTwo raises present excluded automata that would deactivate the
// clause, and inserts new entries for absent literals marked active for
// this class: every positive literal index, and a negated literal index
// only when x[l] is 1.
func (s *Sparse) typeTwo(clause, weightIdx, class uint32, x []uint8) {
	s.Weights[weightIdx] = core.StepTowardZero(s.Weights[weightIdx])

	entries := s.Clauses[clause]
	out := make(kernels.SparseEntryList, 0, len(entries)+4)
	mx := s.Params.MaxState
	ei := 0
	for i := uint32(0); i < s.Params.NumLiteralIndices(); i++ {
		l := i >> 1
		parity := i & 1

		if ei < len(entries) && entries[ei].TAID == i {
			e := entries[ei]
			ei++
			included := e.TAState >= s.Params.MidState
			wouldDeactivate := (parity == 1) == (x[l] == 1)
			if !included && wouldDeactivate {
				e.TAState = core.SatAddI8(e.TAState, 1, s.Params.MinState, mx)
			}
			out = append(out, e)
			continue
		}

		if s.isActive(class, l) && (parity == 0 || (parity == 1 && x[l] == 1)) {
			out = append(out, kernels.SparseEntry{TAID: i, TAState: s.Params.SparseInitState})
		}
	}
	s.Clauses[clause] = out
}
