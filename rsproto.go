// Package rsproto generates Rust bindings for protocol buffers.
//
// The generator lives in compiler/gen; protoc-gen-rsproto runs it as a
// protoc plugin and rsproto runs it on descriptor sets.
package rsproto

// Version is stamped into generated files unless nonfunctional codegen is
// stripped.
const Version = "0.3.0"
