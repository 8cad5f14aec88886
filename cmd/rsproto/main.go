// rsproto generates Rust bindings, and the C++ thunks backing them, from a
// protobuf descriptor set.
//
// Usage:
//
//	protoc --include_imports --descriptor_set_out=unit.binpb foo.proto bar.proto
//	rsproto generate --kernel=cpp --file=foo.proto --file=bar.proto -o out unit.binpb
//	rsproto watch --kernel=upb -o out unit.binpb
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes the command line args and logs a failure through the
// command's logger.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, logger := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("rsproto failed", "err", err)
		return err
	}
	return nil
}
