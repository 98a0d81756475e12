// Package tsetlin implements an on-device Tsetlin Machine execution engine:
// training and inference over binary feature matrices using clauses of
// bounded-integer automata that vote for classes.
//
// # Architecture Overview
//
// The engine is organized as:
//
//   - core: PRNG, saturating arithmetic, hyperparameters, sentinel errors.
//   - kernels: clause evaluation, vote summation, output activation and
//     class-selection strategies, scratch-buffer pooling.
//   - runtime: the flat-array arena backing a Dense engine's counters and
//     weights.
//   - model: the three engine variants (Dense, Sparse, Stateless) and
//     their binary codec.
//
// # Variants
//
// Dense is the fully trainable engine: every automaton is represented,
// whether included or not. Sparse represents only automata whose counter
// has risen above a floor, trading a small accuracy cost for a much
// smaller in-memory and on-disk footprint, and remains trainable. Stateless
// drops counters entirely and keeps only the set of included literal
// indices per clause; it supports inference only and is constructed by
// loading a Dense model file.
//
// # Basic Usage
//
//	engine, err := model.NewDense(params, seed)
//	if err != nil {
//		return err
//	}
//	if err := engine.Train(X, y, rows, epochs); err != nil {
//		return err
//	}
//	yPred := make([]byte, rows*params.YSize*params.YElementSize)
//	err = engine.Predict(X, yPred, rows)
//
// No command-line tool, network surface, or external configuration file is
// part of this module; callers drive training and inference directly
// against in-memory buffers.
package tsetlin
