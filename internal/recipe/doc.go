// Package recipe turns named processing recipes into ordered capability
// calls on a gather.
//
// A Command such as "mult 3.5" names a recipe and carries positional
// parameters. The Dispatcher looks the name up in an immutable Registry and
// runs the recipe's Definition:
//
//   - fixed recipes are a list of Steps, each a capability call with a
//     parameter template plus Slots that let command parameters override
//     template keys, or a core elementwise Transform;
//   - composite recipes (engd, engc) run a Procedure built from
//     ResidualRound, which isolates, dewows and rescales the part of the
//     signal a band-limiting pass removes.
//
// # Failure isolation
//
// Apply never panics and never returns an error. Unknown names and
// unimplemented recipes leave the gather untouched and produce a diagnostic.
// Parameter parse failures are detected before any step runs. A capability
// error or panic stops the recipe, leaves any earlier mutations in place and
// is reported once through the Reporter; the next Apply is unaffected.
//
// # Usage
//
//	caps, _ := kernel.NewSet()
//	d := recipe.NewDispatcher(recipe.DefaultCatalog(), caps)
//	res := d.Apply(ctx, g, recipe.ParseCommandString("mult 3.5"))
//	if res.Failed() {
//		// res.Diagnostic describes what went wrong
//	}
package recipe
