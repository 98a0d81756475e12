package kernels

import "github.com/notEloiir/tsetlin-go/core"

// ActivationKind tags the closed set of built-in output activations, plus
// an escape hatch for a caller-supplied one. Using a small integer tag
// rather than a raw function pointer lets the dispatcher live in a fixed
// opcode-indexed table (activationCatalog).
type ActivationKind uint8

const (
	ActivationClassIndex ActivationKind = iota
	ActivationBinaryVector
	ActivationCustom
)

// ActivationFn writes the activated prediction for one row into yPred,
// given the row's clipped votes.
type ActivationFn func(votes []int32, midState int8, yPred []byte)

// activationCatalog dispatches the two built-in activation kinds. Custom
// activations bypass the catalog entirely (see OutputActivation.Apply).
var activationCatalog = [256]ActivationFn{
	ActivationClassIndex:   classIndexActivation,
	ActivationBinaryVector: binaryVectorActivation,
}

// OutputActivation is the strategy object an engine carries to turn votes
// into a caller-facing prediction.
type OutputActivation struct {
	Kind CustomOrBuiltin
	Fn   ActivationFn // only consulted when Kind.Custom is set
}

// CustomOrBuiltin pairs a built-in tag with a flag saying whether to
// bypass it in favor of Fn.
type CustomOrBuiltin struct {
	Builtin ActivationKind
	Custom  bool
}

// NewClassIndexActivation returns the argmax-over-votes strategy. Requires
// the engine's y_size == 1.
func NewClassIndexActivation() OutputActivation {
	return OutputActivation{Kind: CustomOrBuiltin{Builtin: ActivationClassIndex}}
}

// NewBinaryVectorActivation returns the per-class threshold strategy.
// Requires the engine's y_size == num_classes.
func NewBinaryVectorActivation() OutputActivation {
	return OutputActivation{Kind: CustomOrBuiltin{Builtin: ActivationBinaryVector}}
}

// NewCustomActivation wraps a caller-supplied activation function.
func NewCustomActivation(fn ActivationFn) OutputActivation {
	return OutputActivation{Kind: CustomOrBuiltin{Custom: true}, Fn: fn}
}

// Apply runs the selected activation.
func (a OutputActivation) Apply(votes []int32, midState int8, yPred []byte) {
	if a.Kind.Custom {
		a.Fn(votes, midState, yPred)
		return
	}
	activationCatalog[a.Kind.Builtin](votes, midState, yPred)
}

// ValidateShape reports whether ySize/yElementSize match what the selected
// built-in activation writes per row, given numClasses. Custom activations
// are the caller's responsibility and are never rejected here.
func (a OutputActivation) ValidateShape(numClasses, ySize, yElementSize uint32) error {
	if a.Kind.Custom {
		return nil
	}
	switch a.Kind.Builtin {
	case ActivationClassIndex:
		if ySize != 1 || yElementSize != 4 {
			return &core.ConfigError{
				Field:  "y_size/y_element_size",
				Reason: "class-index activation requires y_size=1, y_element_size=4",
			}
		}
	case ActivationBinaryVector:
		if ySize != numClasses || yElementSize != 1 {
			return &core.ConfigError{
				Field:  "y_size/y_element_size",
				Reason: "binary-vector activation requires y_size=num_classes, y_element_size=1",
			}
		}
	}
	return nil
}

// classIndexActivation writes the argmax class index as a little-endian
// uint32 into yPred. Ties are broken in favor of the lowest index.
func classIndexActivation(votes []int32, midState int8, yPred []byte) {
	best := uint32(0)
	bestScore := votes[0]
	for c := 1; c < len(votes); c++ {
		if votes[c] > bestScore {
			bestScore = votes[c]
			best = uint32(c)
		}
	}
	yPred[0] = byte(best)
	yPred[1] = byte(best >> 8)
	yPred[2] = byte(best >> 16)
	yPred[3] = byte(best >> 24)
}

// binaryVectorActivation writes one threshold byte per class into yPred.
func binaryVectorActivation(votes []int32, midState int8, yPred []byte) {
	for c, v := range votes {
		if v > int32(midState) {
			yPred[c] = 1
		} else {
			yPred[c] = 0
		}
	}
}
