package core

// Hyperparameters are the construction-time parameters shared by every
// engine variant, together with the constants derived from them once at
// construction. Dense, Sparse and Stateless engines each embed one.
type Hyperparameters struct {
	NumClasses  uint32
	Threshold   uint32
	NumLiterals uint32
	NumClauses  uint32

	MaxState int8
	MinState int8

	BoostTruePositiveFeedback bool
	S                         float64

	YSize        uint32
	YElementSize uint32

	// Derived, computed once by Validate.
	MidState       int8
	SInv           float32
	SM1Inv         float32
	SparseMinState int8
	SparseInitState int8
	BitmapStride   uint32
}

// Validate checks the hyperparameters for internal consistency and fills in
// the derived fields. It never panics; out-of-range input is reported as a
// *ConfigError.
func (h *Hyperparameters) Validate() error {
	if h.NumClasses == 0 {
		return &ConfigError{Field: "NumClasses", Reason: "must be > 0"}
	}
	if h.NumLiterals == 0 {
		return &ConfigError{Field: "NumLiterals", Reason: "must be > 0"}
	}
	if h.NumClauses == 0 {
		return &ConfigError{Field: "NumClauses", Reason: "must be > 0"}
	}
	if h.MinState >= h.MaxState {
		return &ConfigError{Field: "MinState/MaxState", Reason: "MinState must be < MaxState"}
	}
	if h.S <= 1.0 {
		return &ConfigError{Field: "S", Reason: "must be > 1.0"}
	}
	if h.YSize == 0 || h.YElementSize == 0 {
		return &ConfigError{Field: "YSize/YElementSize", Reason: "must be > 0"}
	}

	h.MidState = int8((int32(h.MaxState) + int32(h.MinState)) / 2)
	h.SInv = float32(1.0 / h.S)
	h.SM1Inv = float32((h.S - 1.0) / h.S)

	sparseMin := int32(h.MidState) - 40
	if sparseMin < int32(h.MinState) {
		sparseMin = int32(h.MinState)
	}
	h.SparseMinState = int8(sparseMin)
	sparseInit := sparseMin + 5
	if sparseInit > int32(h.MaxState) {
		sparseInit = int32(h.MaxState)
	}
	h.SparseInitState = int8(sparseInit)

	h.BitmapStride = BitmapRowStride(h.NumLiterals)

	return nil
}

// NumLiteralIndices returns 2*NumLiterals, the size of the literal index
// space [0, 2L) that every clause's automata range over.
func (h *Hyperparameters) NumLiteralIndices() uint32 {
	return 2 * h.NumLiterals
}
