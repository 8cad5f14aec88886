package gen

import "google.golang.org/protobuf/reflect/protoreflect"

// TypeGenerator generates the Rust bindings of a single message or enum.
// Each method is called once per top-level type, in declaration order, with
// a context bound to the bindings printer. Nested types are the
// generator's own business.
type TypeGenerator interface {
	// GenMessage writes the bindings of msg.
	GenMessage(ctx *Context, msg protoreflect.MessageDescriptor) error
	// GenEnum writes the bindings of enum.
	GenEnum(ctx *Context, enum protoreflect.EnumDescriptor) error
}

// ThunkGenerator generates the C++ side of the cpp kernel: the extern "C"
// functions the Rust bindings call into. Called with a context bound to the
// thunks printer, right after the matching TypeGenerator call.
type ThunkGenerator interface {
	// GenMessageThunks writes the thunks of msg.
	GenMessageThunks(ctx *Context, msg protoreflect.MessageDescriptor) error
	// GenEnumThunks writes the thunks of enum.
	GenEnumThunks(ctx *Context, enum protoreflect.EnumDescriptor) error
}

// Dialect is a named TypeGenerator. The generator detects ThunkGenerator
// support with a type assertion; a dialect without it can only serve the
// upb kernel.
//
//	┌──────────────────────────────┐
//	│          Generator           │
//	│ (options, crate, outputs)    │
//	└──────────────┬───────────────┘
//	               │ per message / enum
//	       ┌───────┴────────┐
//	       ▼                ▼
//	 TypeGenerator    ThunkGenerator
//	   (.pb.rs)      (.pb.thunks.cc)
type Dialect interface {
	// Name returns the dialect name (e.g. "rust").
	Name() string
	TypeGenerator
}

// FullDialect is a dialect serving both kernels.
type FullDialect interface {
	Dialect
	ThunkGenerator
}
