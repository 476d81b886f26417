// Package gather defines the mutable radar gather that recipes operate on.
//
// A Gather owns a trace x sample amplitude array and an append-only history of
// the primitive operations applied to it. Gathers are created and owned by the
// caller; the recipe engine only mutates sample values and appends history.
//
// # Layout
//
// Data is indexed Data[trace][sample]. Every trace in a gather has the same
// number of samples, and recipe steps never change the array shape unless a
// capability explicitly documents resampling (for example line projection).
//
// # History
//
// One Record is appended per capability invocation, in call order. Composite
// recipes that loop append one record per inner call, so the history always
// reflects the calls that were actually made.
//
// # Documents
//
// Load and Save read and write the JSON gather document used by the gprfilter
// command:
//
//	{"line":"L12","sample_interval":4e-9,"trace_spacing":1.0,
//	 "data":[[...],[...]],"history":[{"name":"dewow"}]}
package gather
