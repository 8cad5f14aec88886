package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/rsproto/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <descriptor-set>",
		Short: "Regenerate whenever the descriptor set or crate mapping changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), cfg, args[0])
		},
	}
	addGenerateFlags(cmd)
	cmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before regenerating")
	return cmd
}

// watch generates once, then again after every change until ctx is done.
// Generation failures are logged and do not stop watching.
func (a *app) watch(ctx context.Context, cfg *config, path string) error {
	if err := a.generate(ctx, cfg, path); err != nil {
		a.logger.Error("generation failed", "err", err)
	}
	paths := []string{path}
	if cfg.CrateMapping != "" {
		paths = append(paths, cfg.CrateMapping)
	}
	w, err := watch.New(watch.Config{
		Paths:    paths,
		Debounce: cfg.Debounce,
		Logger:   a.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			a.logger.Debug("change detected", "files", changed)
			if err := a.generate(ctx, cfg, path); err != nil {
				a.logger.Error("generation failed", "err", err)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	a.logger.Info("watching", "files", paths)
	return w.Run(ctx)
}
