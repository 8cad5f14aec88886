package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/rsproto/compiler/gen"
	"github.com/syssam/rsproto/compiler/gen/rust"
	"github.com/syssam/rsproto/compiler/load"
)

func (a *app) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <descriptor-set>",
		Short: "Generate the outputs of one crate",
		Example: `  rsproto generate --kernel=upb -o gen unit.binpb
  rsproto generate --kernel=cpp --crate-mapping=crates.yaml --file=a.proto --file=b.proto unit.binpb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), cfg, args[0])
		},
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("kernel", "upb", "runtime the bindings target: upb or cpp")
	f.String("crate-mapping", "", "file mapping imported .proto files to their crates (bazel text or yaml)")
	f.Bool("strip-nonfunctional-codegen", false, "omit the version line and feature-only includes")
	f.StringP("out", "o", ".", "output directory")
	f.StringSlice("file", nil, "file of the crate, primary first (default: every file of the set)")
	f.Int("workers", 0, "files generated in parallel (default: number of CPUs)")
}

// parameter renders the generator parameter of cfg.
func parameter(cfg *config) (string, error) {
	opts := []gen.Option{
		gen.WithKernel(cfg.Kernel),
		gen.WithStripNonfunctionalCodegen(cfg.Strip),
	}
	if cfg.CrateMapping != "" {
		opts = append(opts, gen.WithCrateMappingPath(cfg.CrateMapping))
	}
	o, err := gen.NewOptions(opts...)
	if err != nil {
		return "", err
	}
	return o.String(), nil
}

// generate runs one generation of the descriptor set at path and writes the
// outputs under cfg.Out.
func (a *app) generate(ctx context.Context, cfg *config, path string) error {
	param, err := parameter(cfg)
	if err != nil {
		return err
	}
	set, err := load.ReadDescriptorSet(path)
	if err != nil {
		return err
	}
	req, err := load.FromDescriptorSet(set, cfg.Files, param)
	if err != nil {
		return err
	}
	g := gen.NewGenerator(rust.NewDialect()).WithLogger(a.logger).WithWorkers(cfg.Workers)
	files, err := g.GenerateAll(ctx, req.Files, req.Parameter)
	if err != nil {
		return err
	}
	if err := gen.WriteFiles(cfg.Out, files); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	a.logger.Info("generated", "crate", req.Files[0].Path(), "files", len(files), "out", cfg.Out)
	return nil
}
