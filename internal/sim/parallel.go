package sim

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/scene"
)

// Sweep runs one headless simulation per config concurrently. Results keep
// the order of cfgs; the first failure cancels the rest.
func Sweep(ctx context.Context, cfgs []*config.Config, run Config, logger *log.Logger) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		g.Go(func() error {
			s, err := scene.New(cfg, logger)
			if err != nil {
				return err
			}
			defer s.Destroy()
			results[i], err = New(s).Run(ctx, run)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
