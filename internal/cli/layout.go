package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/errors"
	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/kicad"
	"github.com/matzehuels/linkboard/pkg/pipeline"
)

// layoutOutputs are the files written by the layout command. Empty paths
// get defaults next to the input.
type layoutOutputs struct {
	board     string
	svg       string
	embedding string
}

// layoutCommand creates the layout command, the full board flow.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		out         layoutOutputs
		interactive bool
		flags       pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <board.kicad_pcb>",
		Short: "Place the components of a board layer by layer",
		Long: `Place the components of a board layer by layer.

The components graph of the board is decomposed into planar layers. One layer
is chosen (by --policy, --layer or interactively with --interactive) and its
components are placed orthogonally with at least --separation millimetres
between them. The command writes:

  - the updated board with the new footprint positions (-o)
  - an SVG drawing of the placement (--svg)
  - optionally the placement as JSON (--embedding)

With the S3 artifact backend the board and drawing are uploaded instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config().PipelineOptions())
			return c.runLayout(cmd.Context(), args[0], out, interactive, flags.noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&out.board, "output", "o", "", "updated board file (default: updated-<name>.kicad_pcb)")
	cmd.Flags().StringVar(&out.svg, "svg", "", "drawing file (default: <name>.svg)")
	cmd.Flags().StringVar(&out.embedding, "embedding", "", "write component positions as JSON or YAML")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose the layer interactively")
	flags.addLayout(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, out layoutOutputs, interactive, noCache bool, opts pipeline.Options) error {
	if !strings.EqualFold(filepath.Ext(input), kicad.Extension) {
		return errors.New(errors.ErrCodeInvalidInput, "layout needs a %s board, got %q", kicad.Extension, filepath.Base(input))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	in, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}

	if interactive {
		d, err := runner.Decompose(ctx, in.Graph, opts)
		if err != nil {
			return err
		}
		layer, err := pickLayer(d.Layers, d.Selected)
		if err != nil {
			return fmt.Errorf("layer picker: %w", err)
		}
		if layer < 0 {
			printInfo("No layer selected")
			return nil
		}
		opts.Layer = &layer
	}

	mem := artifact.NewMemorySink()
	spinner := newSpinnerWithContext(ctx, "Placing components...")
	spinner.Start()
	res, err := runner.Build(ctx, in.Board, mem, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Placed %d components", len(res.Placement.Embedding)))

	dir := c.config().Artifacts.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	if out.board == "" {
		out.board = filepath.Join(dir, res.BoardName)
	}
	if out.svg == "" {
		out.svg = filepath.Join(dir, in.Name+".svg")
	}

	printSuccess("Recommended layers: %s", StyleNumber.Render(fmt.Sprint(res.Decomposition.Thickness)))
	printStats(in.Graph.VertexCount(), in.Graph.EdgeCount(), res.Decomposition.CacheHit)
	fmt.Println(layerTable(res.Decomposition.Layers, res.Decomposition.Selected))
	if l := res.Decomposition.Layer(); l != nil && l.EdgeCount() < in.Graph.EdgeCount() {
		printWarning("%d connections belong to other layers and are not placed", in.Graph.EdgeCount()-l.EdgeCount())
	}

	for _, a := range []struct{ name, path string }{
		{res.BoardName, out.board},
		{artifact.DrawingName, out.svg},
	} {
		data, _ := mem.Get(a.name)
		loc, err := c.publish(ctx, a.path, data)
		if err != nil {
			return err
		}
		printFile(loc)
	}

	if out.embedding != "" {
		if err := graphio.ExportEmbedding(out.embedding, res.Placement.Embedding); err != nil {
			return fmt.Errorf("write embedding %s: %w", out.embedding, err)
		}
		printFile(out.embedding)
	}
	return nil
}

// publish stores data under the base name of path in the configured
// artifact backend and returns its location.
func (c *CLI) publish(ctx context.Context, path string, data []byte) (string, error) {
	sink, err := c.newSink(ctx, filepath.Dir(path))
	if err != nil {
		return "", err
	}
	loc, err := sink.Put(ctx, filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return loc, nil
}
