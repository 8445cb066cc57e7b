package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/pipeline"
)

// decomposeCommand creates the decompose command.
func (c *CLI) decomposeCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "decompose <board.kicad_pcb|graph.json>",
		Short: "Split a connectivity graph into planar layers",
		Long: `Split a connectivity graph into planar layers.

The graph is repeatedly reduced by a maximal planar subgraph until no edges
remain. The number of layers is the recommended number of routing layers.
For KiCad boards the components graph is decomposed.

Use -o to write the layers as a graph document list (.json or .yaml).
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config().PipelineOptions())
			return c.runDecompose(cmd.Context(), args[0], output, flags.noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layers to this file")
	flags.addDecompose(cmd)

	return cmd
}

func (c *CLI) runDecompose(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	in, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Decomposing graph...")
	spinner.Start()
	d, err := runner.Decompose(ctx, in.Graph, opts)
	if err != nil {
		spinner.StopWithError("Decomposition failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Recommended layers: %s", StyleNumber.Render(fmt.Sprint(d.Thickness)))
	printStats(in.Graph.VertexCount(), in.Graph.EdgeCount(), d.CacheHit)
	if d.Thickness > 0 {
		fmt.Println(layerTable(d.Layers, d.Selected))
	}

	if output != "" {
		if err := graphio.ExportLayers(output, d.Layers); err != nil {
			return fmt.Errorf("write layers %s: %w", output, err)
		}
		printFile(output)
	}

	if in.Board != nil && d.Thickness > 0 {
		printNewline()
		printNextStep("Lay out", "linkboard layout "+input)
	}
	return nil
}
