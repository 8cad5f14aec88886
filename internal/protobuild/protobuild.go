// Package protobuild builds protobuf file descriptors from compact literals
// for tests.
package protobuild

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File describes one .proto file.
type File struct {
	Path     string
	Package  string
	Syntax   string   // defaults to proto3
	Deps     []string // all imports, in declaration order
	Public   []string // subset of Deps imported with `import public`
	Messages []*descriptorpb.DescriptorProto
	Enums    []*descriptorpb.EnumDescriptorProto
}

// Proto converts f into a FileDescriptorProto.
func (f File) Proto() *descriptorpb.FileDescriptorProto {
	syntax := f.Syntax
	if syntax == "" {
		syntax = "proto3"
	}
	fd := &descriptorpb.FileDescriptorProto{
		Name:        proto.String(f.Path),
		Syntax:      proto.String(syntax),
		Dependency:  f.Deps,
		MessageType: f.Messages,
		EnumType:    f.Enums,
	}
	if f.Package != "" {
		fd.Package = proto.String(f.Package)
	}
	for _, p := range f.Public {
		i := slices.Index(f.Deps, p)
		if i < 0 {
			panic("protobuild: public import " + p + " is not a dependency of " + f.Path)
		}
		fd.PublicDependency = append(fd.PublicDependency, int32(i))
	}
	return fd
}

// Set returns a FileDescriptorSet holding files in order.
func Set(files ...File) *descriptorpb.FileDescriptorSet {
	set := &descriptorpb.FileDescriptorSet{}
	for _, f := range files {
		set.File = append(set.File, f.Proto())
	}
	return set
}

// Registry resolves files into a registry, failing the test on error.
func Registry(t testing.TB, files ...File) *protoregistry.Files {
	t.Helper()
	reg, err := protodesc.NewFiles(Set(files...))
	require.NoError(t, err)
	return reg
}

// Lookup returns the descriptors for paths, in order.
func Lookup(t testing.TB, reg *protoregistry.Files, paths ...string) []protoreflect.FileDescriptor {
	t.Helper()
	out := make([]protoreflect.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		fd, err := reg.FindFileByPath(p)
		require.NoError(t, err)
		out = append(out, fd)
	}
	return out
}

// Message returns a message descriptor with the given fields.
func Message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

// Nested adds nested messages to m and returns it.
func Nested(m *descriptorpb.DescriptorProto, nested ...*descriptorpb.DescriptorProto) *descriptorpb.DescriptorProto {
	m.NestedType = append(m.NestedType, nested...)
	return m
}

// NestedEnums adds nested enums to m and returns it.
func NestedEnums(m *descriptorpb.DescriptorProto, enums ...*descriptorpb.EnumDescriptorProto) *descriptorpb.DescriptorProto {
	m.EnumType = append(m.EnumType, enums...)
	return m
}

// Enum returns an enum whose values are numbered from zero.
func Enum(name string, values ...string) *descriptorpb.EnumDescriptorProto {
	e := &descriptorpb.EnumDescriptorProto{Name: proto.String(name)}
	for i, v := range values {
		e.Value = append(e.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v),
			Number: proto.Int32(int32(i)),
		})
	}
	return e
}

// Field returns a singular scalar field.
func Field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
}

// Repeated returns a repeated scalar field.
func Repeated(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	f := Field(name, number, typ)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

// MessageField returns a singular field referencing a message by its fully
// qualified name (e.g. ".pkg.Msg").
func MessageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := Field(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

// EnumField returns a singular field referencing an enum by its fully
// qualified name.
func EnumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := Field(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	f.TypeName = proto.String(typeName)
	return f
}
