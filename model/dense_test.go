package model

import (
	"testing"

	"github.com/notEloiir/tsetlin-go/core"
	"github.com/notEloiir/tsetlin-go/kernels"
)

func smallParams() core.Hyperparameters {
	p := core.Hyperparameters{
		NumClasses: 1, Threshold: 10, NumLiterals: 3, NumClauses: 1,
		MaxState: 127, MinState: -127, S: 10, YSize: 1, YElementSize: 1,
	}
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}

// TestDenseSmallInference reproduces scenario 1: a single hand-set clause
// matching the bit pattern "10*" (positive literal 0, negated literal 1,
// literal 2 unconstrained) with weight 1 and a binary-vector readout.
func TestDenseSmallInference(t *testing.T) {
	t.Parallel()
	p := smallParams()
	d, err := NewDense(p, 1)
	if err != nil {
		t.Fatalf("NewDense() error = %v", err)
	}
	d.SetOutputActivation(kernels.NewBinaryVectorActivation())

	// ta_state layout: (literal, parity) -> [+1, -1, -1, +1, -1, -1]
	copy(d.TAState, []int8{1, -1, -1, 1, -1, -1})
	d.Weights[0] = 1

	tests := []struct {
		name string
		x    []uint8
		want byte
	}{
		{"matches 10*", []uint8{1, 0, 0}, 1},
		{"literal 1 wrong", []uint8{1, 1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yPred := make([]byte, 1)
			if err := d.Predict(tt.x, yPred, 1); err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if yPred[0] != tt.want {
				t.Errorf("yPred[0] = %d, want %d", yPred[0], tt.want)
			}
		})
	}
}

// TestDenseTrainingConvergesOnOneRow reproduces scenario 2.
func TestDenseTrainingConvergesOnOneRow(t *testing.T) {
	t.Parallel()
	p := smallParams()
	d, err := NewDense(p, 7)
	if err != nil {
		t.Fatalf("NewDense() error = %v", err)
	}
	d.SetOutputActivation(kernels.NewBinaryVectorActivation())
	d.LabelKind = kernels.LabelBinaryVector

	x := []uint8{1, 0, 1}
	y := []byte{0}
	if err := d.Train(x, y, 1, 10); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	yPred := make([]byte, 1)
	if err := d.Predict(x, yPred, 1); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if yPred[0] != 0 {
		t.Errorf("yPred[0] = %d, want 0 after convergence", yPred[0])
	}
}

// TestDenseFeedbackDeterministic reproduces scenario 3: two engines with
// the same seed and the same input stream end with identical state.
func TestDenseFeedbackDeterministic(t *testing.T) {
	t.Parallel()
	p := core.Hyperparameters{
		NumClasses: 2, Threshold: 15, NumLiterals: 4, NumClauses: 6,
		MaxState: 127, MinState: -127, S: 3.0, YSize: 1, YElementSize: 4,
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}

	rows := uint32(200)
	X := make([]uint8, rows*p.NumLiterals)
	y := make([]byte, rows*4)
	seedRNG := core.NewPRNG(99)
	for r := uint32(0); r < rows; r++ {
		parity := byte(0)
		for l := uint32(0); l < p.NumLiterals; l++ {
			bit := uint8(0)
			if seedRNG.NextFloat32() < 0.5 {
				bit = 1
			}
			X[r*p.NumLiterals+l] = bit
			parity ^= bit
		}
		y[r*4] = parity
	}

	d1, err := NewDense(p, 42)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := NewDense(p, 42)
	if err != nil {
		t.Fatal(err)
	}

	if err := d1.Train(X, y, rows, 10); err != nil {
		t.Fatal(err)
	}
	if err := d2.Train(X, y, rows, 10); err != nil {
		t.Fatal(err)
	}

	for i := range d1.TAState {
		if d1.TAState[i] != d2.TAState[i] {
			t.Fatalf("ta_state[%d] diverged: %d vs %d", i, d1.TAState[i], d2.TAState[i])
		}
	}
	for i := range d1.Weights {
		if d1.Weights[i] != d2.Weights[i] {
			t.Fatalf("weights[%d] diverged: %d vs %d", i, d1.Weights[i], d2.Weights[i])
		}
	}
}

// TestDenseVoteClipping reproduces scenario 6.
func TestDenseVoteClipping(t *testing.T) {
	t.Parallel()
	clauseOutput := []uint8{1, 1, 1, 1}
	weights := []int16{5, -5, 5, -5, 5, -5, 5, -5}
	votes := make([]int32, 2)
	kernels.SumVotes(clauseOutput, weights, 2, 2, votes)

	if votes[0] != 2 || votes[1] != -2 {
		t.Errorf("votes = %v, want [2 -2]", votes)
	}
}

// TestDenseTAStateStaysInBounds checks the saturating-counter invariant
// holds after training.
func TestDenseTAStateStaysInBounds(t *testing.T) {
	t.Parallel()
	p := core.Hyperparameters{
		NumClasses: 2, Threshold: 5, NumLiterals: 3, NumClauses: 4,
		MaxState: 5, MinState: -5, S: 2.0, YSize: 1, YElementSize: 4,
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	d, err := NewDense(p, 3)
	if err != nil {
		t.Fatal(err)
	}

	rows := uint32(50)
	X := make([]uint8, rows*p.NumLiterals)
	y := make([]byte, rows*4)
	rng := core.NewPRNG(5)
	for i := range X {
		if rng.NextFloat32() < 0.5 {
			X[i] = 1
		}
	}
	if err := d.Train(X, y, rows, 5); err != nil {
		t.Fatal(err)
	}

	for i, v := range d.TAState {
		if v < p.MinState || v > p.MaxState {
			t.Fatalf("ta_state[%d] = %d out of bounds [%d, %d]", i, v, p.MinState, p.MaxState)
		}
	}
}
