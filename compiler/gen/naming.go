package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// StripProto removes the .protodevel or .proto extension from path.
func StripProto(path string) string {
	for _, ext := range []string{".protodevel", ".proto"} {
		if s, ok := strings.CutSuffix(path, ext); ok {
			return s
		}
	}
	return path
}

// RsFile returns the path of the generated Rust bindings for path.
func RsFile(o *Options, path string) string {
	if o.IsCPP() {
		return StripProto(path) + ".c.pb.rs"
	}
	return StripProto(path) + ".u.pb.rs"
}

// ThunksCcFile returns the path of the generated C++ thunks for path.
func ThunksCcFile(path string) string {
	return StripProto(path) + ".pb.thunks.cc"
}

// HeaderFile returns the C++ header generated by protoc for path.
func HeaderFile(path string) string {
	return StripProto(path) + ".pb.h"
}

// InternalModuleName returns the Rust module holding the code of a
// non-primary file. Distinct stripped paths map to distinct names.
func InternalModuleName(path string) string {
	var b strings.Builder
	b.WriteString("internal_do_not_use_")
	for _, r := range StripProto(path) {
		switch {
		case r == '_':
			b.WriteString("__")
		case r == '/':
			b.WriteString("_s")
		case r == '-':
			b.WriteString("_h")
		case r == '.':
			b.WriteString("_d")
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_x%x_", r)
		}
	}
	return b.String()
}

var (
	// rustKeywords can be used as raw identifiers (r#type).
	rustKeywords = names(
		"abstract", "as", "async", "await", "become", "box", "break", "const",
		"continue", "do", "dyn", "else", "enum", "extern", "false", "final",
		"fn", "for", "gen", "if", "impl", "in", "let", "loop", "macro", "match",
		"mod", "move", "mut", "override", "priv", "pub", "ref", "return",
		"static", "struct", "trait", "true", "try", "type", "typeof", "union",
		"unsafe", "unsized", "use", "virtual", "where", "while", "yield",
	)
	// rustReserved cannot be raw identifiers.
	rustReserved = names("crate", "self", "Self", "super")

	cppKeywords = names(
		"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor",
		"bool", "break", "case", "catch", "char", "char8_t", "char16_t",
		"char32_t", "class", "compl", "concept", "const", "consteval",
		"constexpr", "constinit", "const_cast", "continue", "co_await",
		"co_return", "co_yield", "decltype", "default", "delete", "do",
		"double", "dynamic_cast", "else", "enum", "explicit", "export",
		"extern", "false", "float", "for", "friend", "goto", "if", "inline",
		"int", "long", "mutable", "namespace", "new", "noexcept", "not",
		"not_eq", "nullptr", "operator", "or", "or_eq", "private", "protected",
		"public", "register", "reinterpret_cast", "requires", "return", "short",
		"signed", "sizeof", "static", "static_assert", "static_cast", "struct",
		"switch", "template", "this", "thread_local", "throw", "true", "try",
		"typedef", "typeid", "typename", "union", "unsigned", "using",
		"virtual", "void", "volatile", "wchar_t", "while", "xor", "xor_eq",
	)
)

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// CppSafeName appends an underscore to name if it is a C++ keyword, the
// way protoc names the C++ accessors of such fields.
func CppSafeName(name string) string {
	if _, ok := cppKeywords[name]; ok {
		return name + "_"
	}
	return name
}

// RsSafeName escapes name if it is a Rust keyword.
func RsSafeName(name string) string {
	if _, ok := rustReserved[name]; ok {
		return name + "_"
	}
	if _, ok := rustKeywords[name]; ok {
		return "r#" + name
	}
	return name
}

// ModuleName returns the snake_case module holding the types nested in a
// message.
func ModuleName(msg protoreflect.MessageDescriptor) string {
	return RsSafeName(inflect.Underscore(string(msg.Name())))
}

// parentModules returns the modules of the messages enclosing desc,
// outermost first.
func parentModules(desc protoreflect.Descriptor) []string {
	var mods []string
	for p := desc.Parent(); p != nil; p = p.Parent() {
		msg, ok := p.(protoreflect.MessageDescriptor)
		if !ok {
			break
		}
		mods = append(mods, ModuleName(msg))
	}
	slices.Reverse(mods)
	return mods
}

// crateModules returns the module path of desc relative to the root of the
// crate it is compiled into.
func crateModules(c *Crate, desc protoreflect.Descriptor) []string {
	var mods []string
	if sub := c.SubmoduleName(desc.ParentFile()); sub != "" {
		mods = append(mods, sub)
	}
	return append(mods, parentModules(desc)...)
}

// RsTypePath returns the path used to refer to a message or enum from the
// code currently being emitted by ctx. Types in the module being emitted
// are referred to by name alone.
func RsTypePath(ctx *Context, desc protoreflect.Descriptor) (string, error) {
	name := RsSafeName(string(desc.Name()))
	file := desc.ParentFile()
	crate, err := ctx.Crate().Name(file)
	if err != nil {
		return "", NewLookupError(ctx.File().Path(), file.Path())
	}
	if crate == currentCrate {
		mods := crateModules(ctx.Crate(), desc)
		if slices.Equal(mods, ctx.Modules()) {
			return name, nil
		}
		return strings.Join(append(append([]string{currentCrate}, mods...), name), "::"), nil
	}
	return "::" + strings.Join(append(append([]string{crate}, parentModules(desc)...), name), "::"), nil
}

// CppQualifiedName returns the C++ name of a message or enum, for example
// ::pkg::sub::Outer_Inner.
func CppQualifiedName(desc protoreflect.Descriptor) string {
	var b strings.Builder
	if pkg := desc.ParentFile().Package(); pkg != "" {
		b.WriteString("::")
		b.WriteString(strings.ReplaceAll(string(pkg), ".", "::"))
	}
	b.WriteString("::")
	b.WriteString(cppLocalName(desc))
	return b.String()
}

func cppLocalName(desc protoreflect.Descriptor) string {
	parts := []string{string(desc.Name())}
	for p := desc.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(protoreflect.MessageDescriptor); !ok {
			break
		}
		parts = append(parts, string(p.Name()))
	}
	slices.Reverse(parts)
	return strings.Join(parts, "_")
}

// ThunkName returns the extern "C" symbol implementing op for desc.
func ThunkName(desc protoreflect.Descriptor, op string) string {
	mangled := strings.NewReplacer("_", "__", ".", "_").Replace(string(desc.FullName()))
	return "__rust_proto_thunk__" + mangled + "_" + op
}
