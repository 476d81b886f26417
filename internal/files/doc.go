// Package files locates gather documents and writes processed ones.
//
// Discovery finds *.json gather documents in an input directory, or accepts
// a single document path. Manager writes processed gathers into the output
// directory under the same base name, replacing files atomically.
//
//	discovery := files.NewDiscovery("")
//	inputs, err := discovery.Resolve("data/line12")
package files
