// Package load resolves protobuf descriptors handed to the generator, either
// by protoc through the plugin protocol or as a serialized descriptor set.
package load

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// Request holds the files of one compilation unit, resolved against all the
// descriptors they depend on.
type Request struct {
	// Files to generate, in request order. The first one is the primary
	// file of the crate.
	Files []protoreflect.FileDescriptor
	// Registry holds Files and every file they import.
	Registry *protoregistry.Files
	// Parameter is the generator parameter string.
	Parameter string
}

// FromCodeGeneratorRequest resolves the descriptors of a protoc plugin
// request.
func FromCodeGeneratorRequest(req *pluginpb.CodeGeneratorRequest) (*Request, error) {
	set := &descriptorpb.FileDescriptorSet{File: req.GetProtoFile()}
	files := req.GetFileToGenerate()
	if len(files) == 0 {
		return nil, fmt.Errorf("load: request has no file to generate")
	}
	return FromDescriptorSet(set, files, req.GetParameter())
}

// ReadDescriptorSet reads a FileDescriptorSet, as written by
// protoc --descriptor_set_out, from path.
func ReadDescriptorSet(path string) (*descriptorpb.FileDescriptorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read descriptor set: %w", err)
	}
	set := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("load: decode descriptor set %s: %w", path, err)
	}
	return set, nil
}

// FromDescriptorSet resolves set and selects files as the unit to generate.
// An empty files selects every file of the set, in set order. The set must
// hold the transitive imports of the selected files.
func FromDescriptorSet(set *descriptorpb.FileDescriptorSet, files []string, parameter string) (*Request, error) {
	reg, err := protodesc.NewFiles(set)
	if err != nil {
		return nil, fmt.Errorf("load: resolve descriptors: %w", err)
	}
	if len(files) == 0 {
		for _, f := range set.GetFile() {
			files = append(files, f.GetName())
		}
	}
	r := &Request{Registry: reg, Parameter: parameter}
	for _, path := range files {
		fd, err := reg.FindFileByPath(path)
		if err != nil {
			return nil, fmt.Errorf("load: file %q is not in the descriptor set: %w", path, err)
		}
		r.Files = append(r.Files, fd)
	}
	if len(r.Files) == 0 {
		return nil, fmt.Errorf("load: descriptor set is empty")
	}
	return r, nil
}

// Paths returns the paths of the files to generate.
func (r *Request) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path()
	}
	return paths
}
