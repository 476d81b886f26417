package capability

import (
	"context"
	"errors"

	"gprcli/internal/gather"
)

var (
	// ErrNotRegistered is returned when a step names a capability the set lacks
	ErrNotRegistered = errors.New("capability not registered")

	// ErrInvalidParam is returned by kernels that reject a parameter value
	ErrInvalidParam = errors.New("invalid capability parameter")
)

// Capability is a primitive operation that mutates a gather's data in place
type Capability interface {
	// Name returns the unique name recipes use to refer to this capability
	Name() string

	// Apply runs the primitive against g with resolved parameters
	Apply(ctx context.Context, g *gather.Gather, p gather.Params) error
}

// ApplyFunc is the signature of a capability body
type ApplyFunc func(ctx context.Context, g *gather.Gather, p gather.Params) error

type funcCapability struct {
	name string
	fn   ApplyFunc
}

// NewFunc adapts a plain function to the Capability interface
func NewFunc(name string, fn ApplyFunc) Capability {
	return &funcCapability{name: name, fn: fn}
}

func (f *funcCapability) Name() string {
	return f.name
}

func (f *funcCapability) Apply(ctx context.Context, g *gather.Gather, p gather.Params) error {
	return f.fn(ctx, g, p)
}
