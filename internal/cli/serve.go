package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkboard/pkg/metrics"
	"github.com/matzehuels/linkboard/pkg/server"
	"github.com/matzehuels/linkboard/pkg/store"
)

// storeSweepInterval is how often expired records leave the memory store.
const storeSweepInterval = time.Minute

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Routes:
  POST /v1/decompose       planar layers of a graph document
  POST /v1/layout          orthogonal placement of a planar graph
  POST /v1/boards          analysis and layout of a .kicad_pcb body
  GET  /v1/analyses/{id}   a stored analysis
  GET  /metrics            Prometheus metrics
  GET  /healthz            liveness probe

The cache, analysis store and defaults come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.config().Server.Addr = addr
			}
			return c.runServe(cmd.Context(), !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, withMetrics bool) error {
	cfg := c.config()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.WithoutCancel(ctx))
	if ms, ok := st.(*store.MemoryStore); ok {
		go c.sweep(ctx, ms, storeSweepInterval)
	}

	srv := server.New(runner, st, c.Logger)
	srv.Defaults = cfg.PipelineOptions()
	if cfg.Store.TTL.Duration > 0 {
		srv.TTL = cfg.Store.TTL.Duration
	}
	if withMetrics {
		reg := metrics.DefaultRegistry()
		reg.Install()
		srv.Metrics = reg.Handler()
	}

	c.Logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"metrics", withMetrics)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration)
}

// sweep removes expired records from s until ctx is done.
func (c *CLI) sweep(ctx context.Context, s *store.MemoryStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(ctx); n > 0 {
				c.Logger.Debug("expired records removed", "count", n)
			}
		}
	}
}
