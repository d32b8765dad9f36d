package meshing

import (
	"voxtrace/internal/volume"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeAllocation marks a failed staging buffer allocation.
const ErrTypeAllocation = "meshing_allocation_failed"

// StagingVertices is the vertex capacity of a staging buffer: the worst case
// quad count of a block, four vertices each.
const StagingVertices = volume.MaxQuadsPerBlock * 4

// AllocFunc allocates a quad vertex buffer of n entries.
type AllocFunc func(n int) ([]volume.Vertex, error)

// DefaultAlloc allocates with make and turns a rejected size into an error.
func DefaultAlloc(n int) (buf []volume.Vertex, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("allocation panicked").WithTag("panic", r)
		}
	}()
	return make([]volume.Vertex, n), nil
}

// Staging is a temporary quad buffer sized for the worst-case block.
type Staging struct {
	Vertices []volume.Vertex
}

// NewStaging allocates a staging buffer with alloc, or DefaultAlloc when nil.
func NewStaging(alloc AllocFunc) (*Staging, error) {
	if alloc == nil {
		alloc = DefaultAlloc
	}
	buf, err := alloc(StagingVertices)
	if err == nil && len(buf) < StagingVertices {
		err = errors.New("short staging buffer").WithTag("got", len(buf))
	}
	if err != nil {
		return nil, errors.New("staging buffer allocation failed").
			WithType(ErrTypeAllocation).
			WithTag("vertices", StagingVertices).
			Wrap(err)
	}
	return &Staging{Vertices: buf}, nil
}
