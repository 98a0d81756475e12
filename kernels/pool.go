package kernels

import "sync"

// ScratchPool hands out reusable int32 vote buffers and uint8 clause-output
// buffers so repeated Predict/Train calls on one engine don't allocate a
// fresh scratch buffer per row. Each engine owns one pool whose buffers all
// have a single fixed length, since an engine's votes/clause-output shape
// never changes after construction.
type ScratchPool struct {
	votes   sync.Pool
	clauses sync.Pool
}

// NewScratchPool creates a pool sized for the given number of classes and
// clauses.
func NewScratchPool(numClasses, numClauses int) *ScratchPool {
	return &ScratchPool{
		votes: sync.Pool{
			New: func() interface{} { return make([]int32, numClasses) },
		},
		clauses: sync.Pool{
			New: func() interface{} { return make([]uint8, numClauses) },
		},
	}
}

// GetVotes retrieves a zero-length-safe votes buffer from the pool.
func (p *ScratchPool) GetVotes() []int32 {
	return p.votes.Get().([]int32)
}

// PutVotes returns a votes buffer to the pool.
func (p *ScratchPool) PutVotes(buf []int32) {
	p.votes.Put(buf)
}

// GetClauseOutputs retrieves a clause-output buffer from the pool.
func (p *ScratchPool) GetClauseOutputs() []uint8 {
	return p.clauses.Get().([]uint8)
}

// PutClauseOutputs returns a clause-output buffer to the pool.
func (p *ScratchPool) PutClauseOutputs(buf []uint8) {
	p.clauses.Put(buf)
}
