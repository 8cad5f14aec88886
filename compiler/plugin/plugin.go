// Package plugin speaks the protoc plugin protocol: it decodes a
// CodeGeneratorRequest, runs the generator over the files to generate and
// encodes the CodeGeneratorResponse.
package plugin

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/syssam/rsproto/compiler/gen"
	"github.com/syssam/rsproto/compiler/load"
)

// Run reads a request from r, generates and writes the response to w.
// Generation failures are reported in the response; the returned error is
// limited to I/O and encoding failures.
func Run(ctx context.Context, r io.Reader, w io.Writer, g *gen.Generator) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("plugin: read request: %w", err)
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(input, req); err != nil {
		return fmt.Errorf("plugin: decode request: %w", err)
	}
	output, err := proto.Marshal(Generate(ctx, req, g))
	if err != nil {
		return fmt.Errorf("plugin: encode response: %w", err)
	}
	if _, err := w.Write(output); err != nil {
		return fmt.Errorf("plugin: write response: %w", err)
	}
	return nil
}

// Generate runs g over the files of req. On failure the response carries
// the error message and no file.
func Generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest, g *gen.Generator) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}
	lr, err := load.FromCodeGeneratorRequest(req)
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}
	files, err := g.GenerateAll(ctx, lr.Files, lr.Parameter)
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}
	for _, f := range files {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(f.Name),
			Content: proto.String(f.Content),
		})
	}
	return resp
}
