package rust

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/syssam/rsproto/compiler/gen"
	"github.com/syssam/rsproto/internal/protobuild"
)

// generate runs the generator with the rust dialect over the files of
// unit, resolved against deps, and returns the outputs by name.
func generate(t *testing.T, parameter string, unit []string, files ...protobuild.File) (map[string]string, error) {
	t.Helper()
	reg := protobuild.Registry(t, files...)
	out, err := gen.NewGenerator(NewDialect()).GenerateAll(context.Background(), protobuild.Lookup(t, reg, unit...), parameter)
	if err != nil {
		return nil, err
	}
	contents := make(map[string]string, len(out))
	for _, f := range out {
		contents[f.Name] = f.Content
	}
	return contents, nil
}

// mustGenerate is generate failing the test on error.
func mustGenerate(t *testing.T, parameter string, unit []string, files ...protobuild.File) map[string]string {
	t.Helper()
	out, err := generate(t, parameter, unit, files...)
	require.NoError(t, err)
	return out
}

// writeMapping writes a bazel crate mapping and returns its path.
func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// shop is a proto3 file with scalar, enum, repeated and message fields, a
// nested message, a nested enum and a top-level enum.
func shop() protobuild.File {
	order := protobuild.Message("Order",
		protobuild.Field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
		protobuild.Field("paid", 2, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
		protobuild.EnumField("status", 3, ".shop.Order.Status"),
		protobuild.Repeated("tags", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		protobuild.MessageField("item", 5, ".shop.Order.Item"),
	)
	protobuild.Nested(order, protobuild.Message("Item",
		protobuild.Field("qty", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
	))
	protobuild.NestedEnums(order, protobuild.Enum("Status", "STATUS_UNSPECIFIED", "STATUS_PAID"))
	return protobuild.File{
		Path:     "shop.proto",
		Package:  "shop",
		Messages: []*descriptorpb.DescriptorProto{order},
		Enums: []*descriptorpb.EnumDescriptorProto{
			protobuild.Enum("Color", "COLOR_UNSPECIFIED", "COLOR_RED", "DARK_BLUE"),
		},
	}
}
