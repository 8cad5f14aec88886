// Package rust provides the default per-type emitters for the generator.
//
// This package implements gen.FullDialect: Rust bindings for messages and
// enums and, for the cpp kernel, the C++ thunks those bindings call.
//
// Usage:
//
//	import (
//	    "github.com/syssam/rsproto/compiler/gen"
//	    "github.com/syssam/rsproto/compiler/gen/rust"
//	)
//
//	g := gen.NewGenerator(rust.NewDialect())
//	files, err := g.GenerateAll(ctx, unit, "kernel=cpp")
//
// Generated code structure, per message Foo:
//
//	pub struct Foo          # owned message
//	pub struct FooView<'_>  # read-only projection
//	pub struct FooMut<'_>   # mutable projection
//	pub mod foo { ... }     # nested messages and enums
//
// Accessors are generated for singular scalar and enum fields.
package rust
