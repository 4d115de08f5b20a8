// Package registry declares the object types a model can instantiate.
//
// Every type is described by a TypeSpec: a constructor for its state, a list
// of update methods and a table of named properties. Nothing is discovered at
// runtime; modules build their specs by hand and register them through
// Module.Register. Validate checks the whole registry once at startup and
// reports every problem it finds in a single error, so a mismatched method
// signature never reaches an update pass.
package registry
