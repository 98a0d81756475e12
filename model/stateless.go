package model

import (
	"github.com/notEloiir/tsetlin-go/core"
	"github.com/notEloiir/tsetlin-go/kernels"
)

// Stateless is the inference-only, per-clause-list engine. It carries no
// automaton counters, only the set of literal indices each clause
// includes, and is constructed exclusively by loading a Dense model.
type Stateless struct {
	Params core.Hyperparameters

	Clauses [][]uint32 // one sorted literal-index list per clause
	Weights []int16    // flat (numClauses, numClasses)

	scratch *kernels.ScratchPool

	Activation kernels.OutputActivation
	EqualFn    func(a, b []byte) bool
}

func newStateless(params core.Hyperparameters) *Stateless {
	return &Stateless{
		Params:     params,
		Clauses:    make([][]uint32, params.NumClauses),
		Weights:    make([]int16, params.NumClauses*params.NumClasses),
		scratch:    kernels.NewScratchPool(int(params.NumClasses), int(params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		EqualFn:    defaultEqual,
	}
}

func (s *Stateless) SetOutputActivation(a kernels.OutputActivation) { s.Activation = a }

func (s *Stateless) clauseOutputs(x []uint8, out []uint8) {
	kernels.StatelessClauseOutputs(s.Clauses, x, out)
}

func (s *Stateless) sumVotes(clauseOutput []uint8, votes []int32) {
	kernels.SumVotes(clauseOutput, s.Weights, s.Params.NumClasses, s.Params.Threshold, votes)
}

// Predict runs inference over rows rows of X. Stateless has no training
// path; this is its only entry point besides Evaluate.
func (s *Stateless) Predict(X []uint8, yPred []byte, rows uint32) error {
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
		s.clauseOutputs(x, clauseOutput)
		s.sumVotes(clauseOutput, votes)
		s.Activation.Apply(votes, s.Params.MidState, yPred[int(row)*yStride:int(row+1)*yStride])
	}
	return nil
}

// Evaluate runs Predict then counts matching rows.
func (s *Stateless) Evaluate(X []uint8, y []byte, rows uint32) (int, int, error) {
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
