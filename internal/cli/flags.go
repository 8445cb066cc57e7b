package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkboard/pkg/layout/orthogonal"
	"github.com/matzehuels/linkboard/pkg/pipeline"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// pipelineFlags are the pipeline options settable on the command line.
// Flags the user did not set keep the configured value.
type pipelineFlags struct {
	policy     string
	layer      int
	separation float64
	padding    float64
	engine     string
	timeout    time.Duration
	noCache    bool
	refresh    bool
}

func (f *pipelineFlags) addDecompose(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.policy, "policy", pipeline.DefaultPolicy, "layer selection: "+strings.Join(planarity.Policies, ", "))
	flags.IntVar(&f.layer, "layer", 0, "select the layer by index instead of by policy")
	flags.DurationVar(&f.timeout, "timeout", 0, "abort after this duration (0: no limit)")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute cached results")
}

func (f *pipelineFlags) addLayout(cmd *cobra.Command) {
	f.addDecompose(cmd)
	flags := cmd.Flags()
	flags.Float64Var(&f.separation, "separation", pipeline.DefaultSeparation, "minimum distance between components (mm)")
	flags.Float64Var(&f.padding, "padding", pipeline.DefaultPadding, "padding around each footprint's pads (mm)")
	flags.StringVar(&f.engine, "engine", pipeline.DefaultEngine, "layout program: "+strings.Join(orthogonal.Programs, ", "))
}

// options applies the flags the user set on top of base.
func (f *pipelineFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	flags := cmd.Flags()
	if flags.Changed("policy") {
		base.Policy = f.policy
	}
	if flags.Changed("layer") {
		layer := f.layer
		base.Layer = &layer
	}
	if flags.Changed("timeout") {
		base.Timeout = f.timeout
	}
	if flags.Changed("separation") {
		base.Separation = f.separation
	}
	if flags.Changed("padding") {
		padding := f.padding
		base.Padding = &padding
	}
	if flags.Changed("engine") {
		base.Engine = f.engine
	}
	base.Refresh = f.refresh
	return base
}
