// Package runtime provides the flat-array backing store for Dense engines.
//
// A Dense engine's ta_state and weights buffers are both fixed in size for
// the lifetime of the engine (construction parameters never change), so
// this package allocates them once, as two named regions of one
// cache-line-aligned arena, rather than as two independently-GC'd slices.
package runtime

import (
	"fmt"
	"unsafe"

	"github.com/notEloiir/tsetlin-go/core"
)

// ArenaRegion is a named, offset-addressed span within an Arena's backing
// buffer.
type ArenaRegion struct {
	Offset int
	Size   int
	Name   string
}

// Arena is a single pre-sized byte buffer partitioned into named regions.
// Unlike a general-purpose bump allocator, a DenseArena's regions are fixed
// at construction time: there is no room for growth because a Dense
// engine's shape never changes after Create/Load.
type Arena struct {
	buffer  []byte
	regions map[string]ArenaRegion
}

// NewDenseArena allocates a cache-line-aligned buffer sized to hold exactly
// one ta_state region (numClauses*numLiterals*2 bytes) and one weights
// region (numClauses*numClasses*2 bytes), and returns typed views over
// each.
func NewDenseArena(numClauses, numLiterals, numClasses uint32) (arena *Arena, taState []int8, weights []int16, err error) {
	taStateSize := int(numClauses) * int(numLiterals) * 2
	weightsSize := int(numClauses) * int(numClasses) * 2

	if taStateSize == 0 && weightsSize == 0 {
		return nil, nil, nil, fmt.Errorf("runtime: cannot create a zero-size dense arena")
	}

	taStateAligned := core.AlignCacheLine(taStateSize)
	weightsAligned := core.AlignCacheLine(weightsSize)
	total := taStateAligned + weightsAligned

	buf := core.AlignedBytes(total)
	if buf == nil && total > 0 {
		return nil, nil, nil, fmt.Errorf("runtime: failed to allocate dense arena of size %d", total)
	}

	a := &Arena{
		buffer: buf,
		regions: map[string]ArenaRegion{
			"TAState": {Offset: 0, Size: taStateSize, Name: "TAState"},
			"Weights": {Offset: taStateAligned, Size: weightsSize, Name: "Weights"},
		},
	}

	taState = int8View(buf[0:taStateSize])
	weights = int16View(buf[taStateAligned : taStateAligned+weightsSize])
	return a, taState, weights, nil
}

// Region returns the named region's offset/size within the arena.
func (a *Arena) Region(name string) (ArenaRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// TotalSize returns the arena's total allocated capacity, including
// alignment padding between regions.
func (a *Arena) TotalSize() int {
	return len(a.buffer)
}

// int8View reinterprets a byte slice as an int8 slice in place; int8 and
// byte have identical size and representation, so this is a zero-copy view
// rather than a conversion.
func int8View(b []byte) []int8 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&b[0])), len(b))
}

// int16View reinterprets a byte slice as a little-endian int16 slice in
// place. The arena buffer is freshly allocated and never read back from a
// foreign byte order, so this relies on the host being little-endian,
// which every architecture this module targets is.
func int16View(b []byte) []int16 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&b[0])), len(b)/2)
}
