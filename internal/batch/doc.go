// Package batch applies a recipe command list to many gathers using a
// bounded pool of workers. Every gather is processed by exactly one worker,
// recipes on a gather run strictly in order, and failures stay local to the
// gather they happened on.
package batch
