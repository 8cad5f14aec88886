// protoc-gen-rsproto is the protoc plugin generating Rust bindings.
//
//	protoc --plugin=protoc-gen-rsproto --rsproto_out=kernel=cpp,bazel_crate_mapping=crates.txt:out foo.proto
//
// Set RSPROTO_LOG=debug to log progress to stderr.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/syssam/rsproto/compiler/gen"
	"github.com/syssam/rsproto/compiler/gen/rust"
	"github.com/syssam/rsproto/compiler/plugin"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "protoc-gen-rsproto"})
	if lvl, err := log.ParseLevel(os.Getenv("RSPROTO_LOG")); err == nil {
		logger.SetLevel(lvl)
	}
	g := gen.NewGenerator(rust.NewDialect()).WithLogger(logger)
	if err := plugin.Run(context.Background(), os.Stdin, os.Stdout, g); err != nil {
		logger.Error("plugin failed", "err", err)
		os.Exit(1)
	}
}
