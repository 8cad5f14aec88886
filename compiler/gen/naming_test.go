package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/syssam/rsproto/internal/protobuild"
)

func TestOutputPaths(t *testing.T) {
	upb := &Options{Kernel: KernelUPB}
	cpp := &Options{Kernel: KernelCPP}

	assert.Equal(t, "foo/bar", StripProto("foo/bar.proto"))
	assert.Equal(t, "foo/bar", StripProto("foo/bar.protodevel"))
	assert.Equal(t, "foo/bar.txt", StripProto("foo/bar.txt"))

	assert.Equal(t, "foo/bar.u.pb.rs", RsFile(upb, "foo/bar.proto"))
	assert.Equal(t, "foo/bar.c.pb.rs", RsFile(cpp, "foo/bar.proto"))
	assert.Equal(t, "foo/bar.pb.thunks.cc", ThunksCcFile("foo/bar.proto"))
	assert.Equal(t, "foo/bar.pb.h", HeaderFile("foo/bar.proto"))
}

func TestInternalModuleName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"b.proto", "internal_do_not_use_b"},
		{"foo/bar.proto", "internal_do_not_use_foo_sbar"},
		{"foo_bar.proto", "internal_do_not_use_foo__bar"},
		{"foo-bar.proto", "internal_do_not_use_foo_hbar"},
		{"foo.bar.proto", "internal_do_not_use_foo_dbar"},
		{"é.proto", "internal_do_not_use__xe9_"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InternalModuleName(tt.path))
		})
	}

	t.Run("distinct paths", func(t *testing.T) {
		seen := make(map[string]string)
		for _, p := range []string{"a/b.proto", "a_sb.proto", "a_b.proto", "a-b.proto", "a.b.proto", "a__b.proto"} {
			name := InternalModuleName(p)
			prev, dup := seen[name]
			assert.False(t, dup, "%s and %s both map to %s", prev, p, name)
			seen[name] = p
		}
	})
}

func TestRsSafeName(t *testing.T) {
	assert.Equal(t, "foo", RsSafeName("foo"))
	assert.Equal(t, "r#type", RsSafeName("type"))
	assert.Equal(t, "r#async", RsSafeName("async"))
	assert.Equal(t, "self_", RsSafeName("self"))
	assert.Equal(t, "Self_", RsSafeName("Self"))
	assert.Equal(t, "crate_", RsSafeName("crate"))
}

func TestCppSafeName(t *testing.T) {
	assert.Equal(t, "id", CppSafeName("id"))
	assert.Equal(t, "class_", CppSafeName("class"))
	assert.Equal(t, "new_", CppSafeName("new"))
	assert.Equal(t, "co_await_", CppSafeName("co_await"))
	assert.Equal(t, "self", CppSafeName("self"))
}

func namingFixture(t *testing.T) (*protoregistry.Files, []protoreflect.FileDescriptor) {
	t.Helper()
	reg := protobuild.Registry(t,
		protobuild.File{Path: "x.proto", Package: "ext.v1", Messages: []*descriptorpb.DescriptorProto{
			protobuild.Nested(protobuild.Message("Outer"), protobuild.Message("Inner")),
		}},
		protobuild.File{Path: "y.proto", Package: "y", Messages: []*descriptorpb.DescriptorProto{protobuild.Message("Y")}},
		protobuild.File{Path: "a.proto", Package: "a", Messages: []*descriptorpb.DescriptorProto{
			protobuild.NestedEnums(
				protobuild.Nested(protobuild.Message("FooBar"), protobuild.Message("Baz")),
				protobuild.Enum("Kind", "KIND_UNSPECIFIED"),
			),
		}},
		protobuild.File{Path: "sub/b.proto", Package: "a", Messages: []*descriptorpb.DescriptorProto{protobuild.Message("B")}},
	)
	return reg, protobuild.Lookup(t, reg, "a.proto", "sub/b.proto", "x.proto", "y.proto")
}

func TestRsTypePath(t *testing.T) {
	_, files := namingFixture(t)
	a, b, x, y := files[0], files[1], files[2], files[3]
	crate, err := NewCrate(files[:2], CrateMapping{"x.proto": "ext"})
	require.NoError(t, err)
	opts := &Options{Kernel: KernelUPB}

	fooBar := a.Messages().Get(0)
	baz := fooBar.Messages().Get(0)
	kind := fooBar.Enums().Get(0)
	msgB := b.Messages().Get(0)
	inner := x.Messages().Get(0).Messages().Get(0)

	t.Run("from primary root", func(t *testing.T) {
		ctx := NewContext(opts, crate, a, nil)
		tests := []struct {
			desc protoreflect.Descriptor
			want string
		}{
			{fooBar, "FooBar"},
			{baz, "crate::foo_bar::Baz"},
			{kind, "crate::foo_bar::Kind"},
			{msgB, "crate::internal_do_not_use_sub_sb::B"},
			{inner, "::ext::outer::Inner"},
		}
		for _, tt := range tests {
			got, err := RsTypePath(ctx, tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		}
	})

	t.Run("inside nested module", func(t *testing.T) {
		ctx := NewContext(opts, crate, a, nil)
		ctx.PushModule("foo_bar")
		got, err := RsTypePath(ctx, baz)
		require.NoError(t, err)
		assert.Equal(t, "Baz", got)

		got, err = RsTypePath(ctx, fooBar)
		require.NoError(t, err)
		assert.Equal(t, "crate::FooBar", got)

		ctx.PopModule()
		got, err = RsTypePath(ctx, fooBar)
		require.NoError(t, err)
		assert.Equal(t, "FooBar", got)
	})

	t.Run("from non-primary file", func(t *testing.T) {
		ctx := NewContext(opts, crate, b, []string{crate.SubmoduleName(b)})
		got, err := RsTypePath(ctx, msgB)
		require.NoError(t, err)
		assert.Equal(t, "B", got)

		got, err = RsTypePath(ctx, fooBar)
		require.NoError(t, err)
		assert.Equal(t, "crate::FooBar", got)
	})

	t.Run("unmapped file", func(t *testing.T) {
		ctx := NewContext(opts, crate, a, nil)
		_, err := RsTypePath(ctx, y.Messages().Get(0))
		require.Error(t, err)
		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, "a.proto", lookupErr.File)
		assert.Equal(t, "y.proto", lookupErr.Import)
	})
}

func TestCppNames(t *testing.T) {
	_, files := namingFixture(t)
	a, x := files[0], files[2]
	fooBar := a.Messages().Get(0)
	inner := x.Messages().Get(0).Messages().Get(0)

	assert.Equal(t, "::a::FooBar", CppQualifiedName(fooBar))
	assert.Equal(t, "::a::FooBar_Kind", CppQualifiedName(fooBar.Enums().Get(0)))
	assert.Equal(t, "::ext::v1::Outer_Inner", CppQualifiedName(inner))

	assert.Equal(t, "__rust_proto_thunk__a_FooBar_new", ThunkName(fooBar, "new"))
	assert.Equal(t, "__rust_proto_thunk__ext_v1_Outer_Inner_get_x", ThunkName(inner, "get_x"))
	assert.Equal(t, "__rust_proto_thunk__a_FooBar_Baz_clear", ThunkName(fooBar.Messages().Get(0), "clear"))
}
