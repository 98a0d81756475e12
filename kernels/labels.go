package kernels

import "github.com/notEloiir/tsetlin-go/core"

// LabelKind tags the closed set of ground-truth interpretations.
type LabelKind uint8

const (
	LabelClassIndex LabelKind = iota
	LabelBinaryVector
)

// ClassSelection is the outcome of one row's positive/negative class
// pick, used to drive per-clause feedback (§4.5).
type ClassSelection struct {
	Positive    uint32
	Negative    uint32
	HasPositive bool
	HasNegative bool
	PPos        float32
	PNeg        float32
}

// SelectClasses picks a positive and negative class for one training row
// and computes their update probabilities, per the configured label
// interpretation. votes must already be summed and clipped to
// [-threshold, threshold].
func SelectClasses(kind LabelKind, y []byte, votes []int32, threshold uint32, rng *core.PRNG) ClassSelection {
	switch kind {
	case LabelBinaryVector:
		return selectClassesBinaryVector(y, votes, threshold, rng)
	default:
		return selectClassesClassIndex(y, votes, threshold, rng)
	}
}

func selectClassesClassIndex(y []byte, votes []int32, threshold uint32, rng *core.PRNG) ClassSelection {
	positive := uint32(y[0]) | uint32(y[1])<<8 | uint32(y[2])<<16 | uint32(y[3])<<24
	sel := ClassSelection{Positive: positive, HasPositive: true}
	sel.PPos = updateProbabilityPositive(votes[positive], threshold)

	sum := int64(0)
	for c := uint32(0); c < uint32(len(votes)); c++ {
		if c == positive {
			continue
		}
		sum += int64(core.Clip(votes[c], int32(threshold))) + int64(threshold)
	}
	if sum == 0 {
		return sel
	}
	target := int64(rng.NextUint32() % uint32(sum))
	acc := int64(0)
	for c := uint32(0); c < uint32(len(votes)); c++ {
		if c == positive {
			continue
		}
		acc += int64(core.Clip(votes[c], int32(threshold))) + int64(threshold)
		if acc >= target {
			sel.Negative = c
			sel.HasNegative = true
			break
		}
	}
	if sel.HasNegative {
		sel.PNeg = updateProbabilityNegative(votes[sel.Negative], threshold)
	}
	return sel
}

func selectClassesBinaryVector(y []byte, votes []int32, threshold uint32, rng *core.PRNG) ClassSelection {
	var sel ClassSelection

	if c, ok := weightedPick(votes, threshold, rng, func(cls uint32) bool { return y[cls] != 0 }); ok {
		sel.Positive = c
		sel.HasPositive = true
		sel.PPos = updateProbabilityPositive(votes[c], threshold)
	}

	if c, ok := weightedPick(votes, threshold, rng, func(cls uint32) bool { return y[cls] == 0 }); ok {
		sel.Negative = c
		sel.HasNegative = true
		sel.PNeg = updateProbabilityNegative(votes[c], threshold)
	}

	return sel
}

// weightedPick draws a class from the subset selected by include,
// weighted by clip(votes[c], T) + T. Returns ok=false if the pool's total
// weight is zero.
func weightedPick(votes []int32, threshold uint32, rng *core.PRNG, include func(uint32) bool) (uint32, bool) {
	sum := int64(0)
	for c := uint32(0); c < uint32(len(votes)); c++ {
		if !include(c) {
			continue
		}
		sum += int64(core.Clip(votes[c], int32(threshold))) + int64(threshold)
	}
	if sum == 0 {
		return 0, false
	}
	target := int64(rng.NextUint32() % uint32(sum))
	acc := int64(0)
	for c := uint32(0); c < uint32(len(votes)); c++ {
		if !include(c) {
			continue
		}
		acc += int64(core.Clip(votes[c], int32(threshold))) + int64(threshold)
		if acc >= target {
			return c, true
		}
	}
	return 0, false
}

// updateProbabilityPositive is inversely proportional to the positive
// class's votes: p_pos = (T - clip(votes[positive], T)) / (2T). This
// formula is used uniformly for both label interpretations (§9: the
// source computes it from the negative class's votes in the binary-vector
// path, which is not reproduced here).
func updateProbabilityPositive(votesPositive int32, threshold uint32) float32 {
	clipped := core.Clip(votesPositive, int32(threshold))
	return (float32(threshold) - float32(clipped)) / float32(2*threshold)
}

// updateProbabilityNegative is proportional to the negative class's
// votes: p_neg = (clip(votes[negative], T) + T) / (2T).
func updateProbabilityNegative(votesNegative int32, threshold uint32) float32 {
	clipped := core.Clip(votesNegative, int32(threshold))
	return (float32(clipped) + float32(threshold)) / float32(2*threshold)
}
