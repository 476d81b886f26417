// Package capability defines the call contract between recipes and the
// primitive signal-processing kernels.
//
// A Capability is a named primitive that mutates a gather in place, for
// example "windowed-sinc" or "dewow". Capabilities are collected in a Set,
// keyed by name. Recipes never call kernels directly; they go through
// Set.Invoke, which resolves the name, runs the kernel and appends exactly one
// history record for each successful call.
//
// The kernels behind the names are opaque to the recipe engine. The
// internal/kernel package provides reference implementations; any other
// implementation can be registered under the same names.
package capability
