// Package gen orchestrates the generation of Rust protobuf bindings.
//
// A compilation unit is an ordered list of .proto files compiled into one
// Rust crate; the first file is the primary one and the others are
// declared as private submodules of it. Each file of the unit is generated
// in its own pass, which produces the Rust bindings and, for the cpp
// kernel, a C++ thunks file the bindings link against.
//
// # Architecture
//
//	protoreflect.FileDescriptor (compiler/load)
//	        ↓
//	   Options + Crate (crate mapping, submodule names)
//	        ↓
//	   Generator pass per file
//	   ├── header, submodule declarations, public import re-exports
//	   └── Dialect per message and enum (bindings and thunks)
//	        ↓
//	   staged outputs, committed only when the pass succeeds
//
// # Key Types
//
//   - Options: kernel, crate mapping and feature stripping, parsed from the
//     protoc parameter string
//   - Crate: membership of the unit and the crates of imported files
//   - Context: emission state shared with dialects (printer, module stack)
//   - Printer: $var$ template substitution into an in-memory buffer
//   - Generator: runs passes, one per file or in parallel for a unit
//
// # Interface Hierarchy
//
//	Dialect
//	├── Name() string
//	└── TypeGenerator (GenMessage, GenEnum)
//
//	FullDialect (required by the cpp kernel)
//	├── Dialect
//	└── ThunkGenerator (GenMessageThunks, GenEnumThunks)
//
// The default dialect lives in compiler/gen/rust.
//
// # Error Handling
//
//   - ConfigError: invalid parameters or mapping files
//   - LookupError: an imported file has no crate
//   - CollisionError: two files of the unit share a submodule name
//   - GenerationError: dialect or output failures
//
// Example:
//
//	files, err := gen.NewGenerator(rust.NewDialect()).GenerateAll(ctx, unit, "kernel=upb")
//	if gen.IsLookupError(err) {
//	    // add the import to the crate mapping
//	}
package gen
