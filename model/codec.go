package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/notEloiir/tsetlin-go/core"
	"github.com/notEloiir/tsetlin-go/kernels"
	"github.com/notEloiir/tsetlin-go/runtime"
)

const sparseSentinel = uint32(0xFFFFFFFF)

// header is the fixed, no-magic, no-checksum preamble shared by every
// variant's wire format (§4.7).
type header struct {
	Threshold   uint32
	NumLiterals uint32
	NumClauses  uint32
	NumClasses  uint32
	MaxState    int8
	MinState    int8
	Boost       bool
	S           float64
}

func writeHeader(w io.Writer, h header) error {
	fields := []any{h.Threshold, h.NumLiterals, h.NumClauses, h.NumClasses, h.MaxState, h.MinState}
	for _, f := range fields {
		if err := writeField(w, f); err != nil {
			return fmt.Errorf("model: write header: %w", err)
		}
	}
	boost := byte(0)
	if h.Boost {
		boost = 1
	}
	if err := writeField(w, boost); err != nil {
		return fmt.Errorf("model: write header: %w", err)
	}
	if err := writeField(w, h.S); err != nil {
		return fmt.Errorf("model: write header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (header, error) {
	var h header
	var boost byte

	for _, dst := range []any{&h.Threshold, &h.NumLiterals, &h.NumClauses, &h.NumClasses, &h.MaxState, &h.MinState} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return header{}, shortReadErr(err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &boost); err != nil {
		return header{}, shortReadErr(err)
	}
	h.Boost = boost != 0
	if err := binary.Read(r, binary.LittleEndian, &h.S); err != nil {
		return header{}, shortReadErr(err)
	}

	if h.NumClasses == 0 || h.NumLiterals == 0 || h.NumClauses == 0 {
		return header{}, &core.ConfigError{Field: "header", Reason: "num_classes/num_literals/num_clauses must be > 0"}
	}
	if h.MinState >= h.MaxState {
		return header{}, &core.ConfigError{Field: "header", Reason: "min_state must be < max_state"}
	}
	if h.S <= 1.0 {
		return header{}, &core.ConfigError{Field: "header", Reason: "s must be > 1.0"}
	}
	return h, nil
}

func shortReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", core.ErrShortRead, err)
	}
	return fmt.Errorf("model: %w", err)
}

// writeField encodes v to its wire bytes, then writes those bytes to w
// itself (rather than handing w to binary.Write directly) so a writer that
// accepts fewer bytes than it was given, without itself erroring, is still
// caught and reported as ErrShortWrite instead of silently truncating the
// file.
func writeField(w io.Writer, v any) error {
	var encoded bytes.Buffer
	if err := binary.Write(&encoded, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("model: encode: %w", err)
	}
	n, err := w.Write(encoded.Bytes())
	if err != nil {
		return fmt.Errorf("model: write: %w", err)
	}
	if n < encoded.Len() {
		return fmt.Errorf("%w: wrote %d of %d bytes", core.ErrShortWrite, n, encoded.Len())
	}
	return nil
}

func (h header) toParams(ySize, yElementSize uint32) (core.Hyperparameters, error) {
	params := core.Hyperparameters{
		NumClasses:                h.NumClasses,
		Threshold:                 h.Threshold,
		NumLiterals:               h.NumLiterals,
		NumClauses:                h.NumClauses,
		MaxState:                  h.MaxState,
		MinState:                  h.MinState,
		BoostTruePositiveFeedback: h.Boost,
		S:                         h.S,
		YSize:                     ySize,
		YElementSize:              yElementSize,
	}
	if err := params.Validate(); err != nil {
		return core.Hyperparameters{}, err
	}
	return params, nil
}

func writeWeights(w io.Writer, weights []int16) error {
	if err := writeField(w, weights); err != nil {
		return fmt.Errorf("model: write weights: %w", err)
	}
	return nil
}

func readWeights(r io.Reader, n uint32) ([]int16, error) {
	weights := make([]int16, n)
	if err := binary.Read(r, binary.LittleEndian, weights); err != nil {
		return nil, shortReadErr(err)
	}
	return weights, nil
}

// SaveDense writes d's dense wire format: header, weights, flat ta_state.
func SaveDense(d *Dense, w io.Writer) error {
	h := header{
		Threshold:   d.Params.Threshold,
		NumLiterals: d.Params.NumLiterals,
		NumClauses:  d.Params.NumClauses,
		NumClasses:  d.Params.NumClasses,
		MaxState:    d.Params.MaxState,
		MinState:    d.Params.MinState,
		Boost:       d.Params.BoostTruePositiveFeedback,
		S:           d.Params.S,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	if err := writeWeights(w, d.Weights); err != nil {
		return err
	}
	if err := writeField(w, d.TAState); err != nil {
		return fmt.Errorf("model: write ta_state: %w", err)
	}
	return nil
}

// LoadDense reads a dense wire format file into a new Dense engine.
func LoadDense(r io.Reader, ySize, yElementSize uint32) (*Dense, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("model: LoadDense: %w", err)
	}
	params, err := h.toParams(ySize, yElementSize)
	if err != nil {
		return nil, fmt.Errorf("model: LoadDense: %w", err)
	}

	arena, taState, weights, err := runtime.NewDenseArena(h.NumClauses, h.NumLiterals, h.NumClasses)
	if err != nil {
		return nil, fmt.Errorf("model: LoadDense: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, weights); err != nil {
		return nil, fmt.Errorf("model: LoadDense: %w", shortReadErr(err))
	}
	if err := binary.Read(r, binary.LittleEndian, taState); err != nil {
		return nil, fmt.Errorf("model: LoadDense: %w", shortReadErr(err))
	}

	d := &Dense{
		Params:     params,
		TAState:    taState,
		Weights:    weights,
		arena:      arena,
		rng:        core.NewPRNG(42),
		scratch:    kernels.NewScratchPool(int(params.NumClasses), int(params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		LabelKind:  kernels.LabelClassIndex,
		EqualFn:    defaultEqual,
	}
	return d, nil
}

// SaveSparse writes s's sparse wire format: header, weights, then one
// delimited (ta_id, ta_state) segment per clause.
func SaveSparse(s *Sparse, w io.Writer) error {
	h := header{
		Threshold:   s.Params.Threshold,
		NumLiterals: s.Params.NumLiterals,
		NumClauses:  s.Params.NumClauses,
		NumClasses:  s.Params.NumClasses,
		MaxState:    s.Params.MaxState,
		MinState:    s.Params.MinState,
		Boost:       s.Params.BoostTruePositiveFeedback,
		S:           s.Params.S,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	if err := writeWeights(w, s.Weights); err != nil {
		return err
	}
	for _, entries := range s.Clauses {
		for _, e := range entries {
			if err := writeField(w, e.TAID); err != nil {
				return fmt.Errorf("model: write ta_id: %w", err)
			}
			if err := writeField(w, e.TAState); err != nil {
				return fmt.Errorf("model: write ta_state: %w", err)
			}
		}
		if err := writeField(w, sparseSentinel); err != nil {
			return fmt.Errorf("model: write sentinel: %w", err)
		}
	}
	return nil
}

// LoadSparse reads a native sparse wire format file into a new Sparse
// engine.
func LoadSparse(r io.Reader, ySize, yElementSize uint32) (*Sparse, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("model: LoadSparse: %w", err)
	}
	params, err := h.toParams(ySize, yElementSize)
	if err != nil {
		return nil, fmt.Errorf("model: LoadSparse: %w", err)
	}

	weights, err := readWeights(r, h.NumClauses*h.NumClasses)
	if err != nil {
		return nil, fmt.Errorf("model: LoadSparse: %w", err)
	}

	s := &Sparse{
		Params:     params,
		Clauses:    make([]kernels.SparseEntryList, h.NumClauses),
		Weights:    weights,
		rng:        core.NewPRNG(42),
		scratch:    kernels.NewScratchPool(int(params.NumClasses), int(params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		LabelKind:  kernels.LabelClassIndex,
		EqualFn:    defaultEqual,
	}
	s.ActiveLiterals = make([][]byte, params.NumClasses)
	for c := range s.ActiveLiterals {
		s.ActiveLiterals[c] = make([]byte, params.BitmapStride)
	}

	for c := uint32(0); c < h.NumClauses; c++ {
		entries, err := readSparseSegment(r)
		if err != nil {
			return nil, fmt.Errorf("model: LoadSparse: clause %d: %w", c, err)
		}
		s.Clauses[c] = entries
	}
	return s, nil
}

func readSparseSegment(r io.Reader) (kernels.SparseEntryList, error) {
	var entries kernels.SparseEntryList
	lastID := int64(-1)
	for {
		var id uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: %w", core.ErrBadSentinel, shortReadErr(err))
			}
			return nil, shortReadErr(err)
		}
		if id == sparseSentinel {
			return entries, nil
		}
		if int64(id) <= lastID {
			return nil, core.ErrNonIncreasingTAID
		}
		lastID = int64(id)

		var state int8
		if err := binary.Read(r, binary.LittleEndian, &state); err != nil {
			return nil, shortReadErr(err)
		}
		entries = append(entries, kernels.SparseEntry{TAID: id, TAState: state})
	}
}

// SaveStateless writes s's stateless wire format: header, weights, then one
// delimited bare-ta_id segment per clause.
func SaveStateless(s *Stateless, w io.Writer) error {
	h := header{
		Threshold:   s.Params.Threshold,
		NumLiterals: s.Params.NumLiterals,
		NumClauses:  s.Params.NumClauses,
		NumClasses:  s.Params.NumClasses,
		MaxState:    s.Params.MaxState,
		MinState:    s.Params.MinState,
		Boost:       s.Params.BoostTruePositiveFeedback,
		S:           s.Params.S,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	if err := writeWeights(w, s.Weights); err != nil {
		return err
	}
	for _, ids := range s.Clauses {
		for _, id := range ids {
			if err := writeField(w, id); err != nil {
				return fmt.Errorf("model: write ta_id: %w", err)
			}
		}
		if err := writeField(w, sparseSentinel); err != nil {
			return fmt.Errorf("model: write sentinel: %w", err)
		}
	}
	return nil
}

// LoadDenseIntoSparse reads a dense wire format file and converts it into a
// Sparse engine, emitting an entry for every position whose dense counter
// is at or above the engine's own mid_state, preserving the counter value.
func LoadDenseIntoSparse(r io.Reader, ySize, yElementSize uint32) (*Sparse, error) {
	d, err := LoadDense(r, ySize, yElementSize)
	if err != nil {
		return nil, fmt.Errorf("model: LoadDenseIntoSparse: %w", err)
	}

	s := &Sparse{
		Params:     d.Params,
		Clauses:    make([]kernels.SparseEntryList, d.Params.NumClauses),
		Weights:    d.Weights,
		rng:        core.NewPRNG(42),
		scratch:    kernels.NewScratchPool(int(d.Params.NumClasses), int(d.Params.NumClauses)),
		Activation: kernels.NewClassIndexActivation(),
		LabelKind:  kernels.LabelClassIndex,
		EqualFn:    defaultEqual,
	}
	s.ActiveLiterals = make([][]byte, d.Params.NumClasses)
	for c := range s.ActiveLiterals {
		s.ActiveLiterals[c] = make([]byte, d.Params.BitmapStride)
	}

	mid := d.Params.MidState
	L2 := d.Params.NumLiteralIndices()
	for c := uint32(0); c < d.Params.NumClauses; c++ {
		base := c * L2
		var entries kernels.SparseEntryList
		for i := uint32(0); i < L2; i++ {
			state := d.TAState[base+i]
			if state >= mid {
				entries = append(entries, kernels.SparseEntry{TAID: i, TAState: state})
			}
		}
		s.Clauses[c] = entries
	}
	return s, nil
}

// LoadDenseIntoStateless reads a dense wire format file and converts it
// into a Stateless engine, discarding the counter value and keeping only
// the literal indices whose dense counter is at or above mid_state.
func LoadDenseIntoStateless(r io.Reader, ySize, yElementSize uint32) (*Stateless, error) {
	d, err := LoadDense(r, ySize, yElementSize)
	if err != nil {
		return nil, fmt.Errorf("model: LoadDenseIntoStateless: %w", err)
	}

	s := newStateless(d.Params)
	s.Weights = d.Weights

	mid := d.Params.MidState
	L2 := d.Params.NumLiteralIndices()
	for c := uint32(0); c < d.Params.NumClauses; c++ {
		base := c * L2
		var ids []uint32
		for i := uint32(0); i < L2; i++ {
			if d.TAState[base+i] >= mid {
				ids = append(ids, i)
			}
		}
		s.Clauses[c] = ids
	}
	return s, nil
}
