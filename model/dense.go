// Package model implements the three Tsetlin Machine engine variants —
// Dense, Sparse, and Stateless — and their shared binary codec.
package model

import (
	"fmt"

	"github.com/notEloiir/tsetlin-go/core"
	"github.com/notEloiir/tsetlin-go/kernels"
	"github.com/notEloiir/tsetlin-go/runtime"
)

// Dense is the fully trainable, flat-array Tsetlin Machine engine. Its
// ta_state and weights buffers are allocated once as a single arena sized
// from the hyperparameters and never resized thereafter.
type Dense struct {
	Params core.Hyperparameters

	TAState []int8  // flat (numClauses, numLiterals, 2)
	Weights []int16 // flat (numClauses, numClasses)

	arena   *runtime.Arena
	rng     *core.PRNG
	scratch *kernels.ScratchPool

	Activation   kernels.OutputActivation
	LabelKind    kernels.LabelKind
	FeedbackFn   func(e *Dense, x []uint8, y []byte) // optional override of the default orchestration
	EqualFn      func(a, b []byte) bool
}

// NewDense constructs a randomly initialized Dense engine.
func NewDense(params core.Hyperparameters, seed uint32) (*Dense, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("model: NewDense: %w", err)
	}

	arena, taState, weights, err := runtime.NewDenseArena(params.NumClauses, params.NumLiterals, params.NumClasses)
	if err != nil {
		return nil, fmt.Errorf("model: NewDense: %w", err)
	}

	d := &Dense{
		Params:     params,
		TAState:    taState,
		Weights:    weights,
		arena:      arena,
		rng:        core.NewPRNG(seed),
		scratch:    kernels.NewScratchPool(int(params.NumClasses), int(params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		LabelKind:  kernels.LabelClassIndex,
		EqualFn:    defaultEqual,
	}

	d.initialize()
	return d, nil
}

// initialize applies the fair-coin clause and weight initialization of
// §4.8: for each clause/literal, heads sets (positive, negated) counters
// to (mid-1, mid), tails the reverse; every weight starts at ±1.
func (d *Dense) initialize() {
	mid := d.Params.MidState
	for c := uint32(0); c < d.Params.NumClauses; c++ {
		base := c * d.Params.NumLiterals * 2
		for l := uint32(0); l < d.Params.NumLiterals; l++ {
			if d.rng.NextFloat32() < 0.5 {
				d.TAState[base+l*2] = mid - 1
				d.TAState[base+l*2+1] = mid
			} else {
				d.TAState[base+l*2] = mid
				d.TAState[base+l*2+1] = mid - 1
			}
		}
	}
	for i := range d.Weights {
		if d.rng.NextFloat32() < 0.5 {
			d.Weights[i] = 1
		} else {
			d.Weights[i] = -1
		}
	}
}

func defaultEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetOutputActivation installs a new output-activation strategy.
func (d *Dense) SetOutputActivation(a kernels.OutputActivation) {
	d.Activation = a
}

// SetCalculateFeedback installs a caller-supplied per-row feedback
// orchestration function, overriding the default class-index/binary-vector
// dispatch selected by LabelKind.
func (d *Dense) SetCalculateFeedback(fn func(e *Dense, x []uint8, y []byte)) {
	d.FeedbackFn = fn
}

// clauseOutputs evaluates every clause against row x into out.
func (d *Dense) clauseOutputs(x []uint8, skipEmpty bool, out []uint8) {
	kernels.DenseClauseOutputs(d.TAState, d.Params.NumLiterals, d.Params.MidState, x, skipEmpty, out)
}

func (d *Dense) sumVotes(clauseOutput []uint8, votes []int32) {
	kernels.SumVotes(clauseOutput, d.Weights, d.Params.NumClasses, d.Params.Threshold, votes)
}

// Predict runs inference over rows rows of X, writing activated
// predictions into yPred.
func (d *Dense) Predict(X []uint8, yPred []byte, rows uint32) error {
	if err := d.Activation.ValidateShape(d.Params.NumClasses, d.Params.YSize, d.Params.YElementSize); err != nil {
		return err
	}

	L := d.Params.NumLiterals
	yStride := int(d.Params.YSize * d.Params.YElementSize)

	votes := d.scratch.GetVotes()
	clauseOutput := d.scratch.GetClauseOutputs()
	defer d.scratch.PutVotes(votes)
	defer d.scratch.PutClauseOutputs(clauseOutput)

	for row := uint32(0); row < rows; row++ {
		x := X[row*L : (row+1)*L]
		d.clauseOutputs(x, true, clauseOutput)
		d.sumVotes(clauseOutput, votes)
		d.Activation.Apply(votes, d.Params.MidState, yPred[int(row)*yStride:int(row+1)*yStride])
	}
	return nil
}

// Evaluate runs Predict then counts rows where the prediction matches y
// under EqualFn, returning (correct, total).
func (d *Dense) Evaluate(X []uint8, y []byte, rows uint32) (int, int, error) {
	yStride := int(d.Params.YSize * d.Params.YElementSize)
	yPred := make([]byte, int(rows)*yStride)
	if err := d.Predict(X, yPred, rows); err != nil {
		return 0, 0, err
	}

	correct := 0
	for row := 0; row < int(rows); row++ {
		a := y[row*yStride : (row+1)*yStride]
		b := yPred[row*yStride : (row+1)*yStride]
		if d.EqualFn(a, b) {
			correct++
		}
	}
	return correct, int(rows), nil
}

// Train runs epochs passes over rows rows of (X, y), applying the
// configured feedback orchestration once per row.
func (d *Dense) Train(X []uint8, y []byte, rows uint32, epochs uint32) error {
	if err := d.Activation.ValidateShape(d.Params.NumClasses, d.Params.YSize, d.Params.YElementSize); err != nil {
		return err
	}

	L := d.Params.NumLiterals
	yStride := int(d.Params.YSize * d.Params.YElementSize)

	for epoch := uint32(0); epoch < epochs; epoch++ {
		for row := uint32(0); row < rows; row++ {
			x := X[row*L : (row+1)*L]
			yRow := y[int(row)*yStride : int(row+1)*yStride]
			d.trainRow(x, yRow)
		}
	}
	return nil
}

func (d *Dense) trainRow(x []uint8, y []byte) {
	if d.FeedbackFn != nil {
		d.FeedbackFn(d, x, y)
		return
	}
	defaultDenseFeedback(d, x, y)
}

// defaultDenseFeedback implements §4.5 for the Dense engine: compute
// outputs, sum votes, select classes, then probabilistically apply
// feedback to every clause against the chosen positive and negative
// classes.
func defaultDenseFeedback(d *Dense, x []uint8, y []byte) {
	clauseOutput := d.scratch.GetClauseOutputs()
	votes := d.scratch.GetVotes()
	defer d.scratch.PutClauseOutputs(clauseOutput)
	defer d.scratch.PutVotes(votes)

	d.clauseOutputs(x, false, clauseOutput)
	d.sumVotes(clauseOutput, votes)

	sel := kernels.SelectClasses(d.LabelKind, y, votes, d.Params.Threshold, d.rng)

	if sel.HasPositive {
		for c := uint32(0); c < d.Params.NumClauses; c++ {
			if d.rng.NextFloat32() <= sel.PPos {
				d.applyFeedback(c, sel.Positive, true, clauseOutput[c], x)
			}
		}
	}
	if sel.HasNegative {
		for c := uint32(0); c < d.Params.NumClauses; c++ {
			if d.rng.NextFloat32() <= sel.PNeg {
				d.applyFeedback(c, sel.Negative, false, clauseOutput[c], x)
			}
		}
	}
}

// applyFeedback dispatches to Type I-a/I-b/II per §4.5 step 6.
func (d *Dense) applyFeedback(clause, class uint32, isClassPositive bool, clauseOutput uint8, x []uint8) {
	idx := clause*d.Params.NumClasses + class
	isVotePositive := d.Weights[idx] >= 0

	if isVotePositive == isClassPositive {
		if clauseOutput == 1 {
			d.typeOneA(clause, idx, x)
		} else {
			d.typeOneB(clause, idx)
		}
	} else if clauseOutput == 1 {
		d.typeTwo(clause, idx, x)
	}
}

func (d *Dense) typeOneA(clause, weightIdx uint32, x []uint8) {
	d.Weights[weightIdx] = core.SatIncI16(d.Weights[weightIdx])

	base := clause * d.Params.NumLiterals * 2
	mn, mx := d.Params.MinState, d.Params.MaxState
	for i := uint32(0); i < d.Params.NumLiteralIndices(); i++ {
		l := i >> 1
		parity := i & 1
		idx := base + i
		votesCorrectly := (parity == 1) != (x[l] == 1)
		if votesCorrectly {
			if d.Params.BoostTruePositiveFeedback || d.rng.NextFloat32() <= d.Params.SM1Inv {
				d.TAState[idx] = core.SatAddI8(d.TAState[idx], 1, mn, mx)
			}
		} else {
			if d.rng.NextFloat32() <= d.Params.SInv {
				d.TAState[idx] = core.SatSubI8(d.TAState[idx], 1, mn, mx)
			}
		}
	}
}

func (d *Dense) typeOneB(clause, weightIdx uint32) {
	base := clause * d.Params.NumLiterals * 2
	mn, mx := d.Params.MinState, d.Params.MaxState
	for i := uint32(0); i < d.Params.NumLiteralIndices(); i++ {
		idx := base + i
		if d.rng.NextFloat32() <= d.Params.SInv {
			d.TAState[idx] = core.SatSubI8(d.TAState[idx], 1, mn, mx)
		}
	}
}

func (d *Dense) typeTwo(clause, weightIdx uint32, x []uint8) {
	d.Weights[weightIdx] = core.StepTowardZero(d.Weights[weightIdx])

	base := clause * d.Params.NumLiterals * 2
	mx := d.Params.MaxState
	mid := d.Params.MidState
	for i := uint32(0); i < d.Params.NumLiteralIndices(); i++ {
		l := i >> 1
		parity := i & 1
		idx := base + i
		included := d.TAState[idx] >= mid
		if included {
			continue
		}
		wouldDeactivate := (parity == 1) == (x[l] == 1)
		if wouldDeactivate {
			d.TAState[idx] = core.SatAddI8(d.TAState[idx], 1, d.Params.MinState, mx)
		}
	}
}
