package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkboard/pkg/analysis"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <board.kicad_pcb|graph.json>",
		Short: "Show the connectivity structure of a board or graph",
		Long: `Show the connectivity structure of a board or graph.

For KiCad boards the components graph (one vertex per footprint) and the pads
graph (one vertex per pad) are analyzed. For each graph the command prints
vertex and edge counts, the degree distribution and a power-law estimate of
the degree tail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], asJSON, noCache)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, input string, asJSON, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.config().PipelineOptions()
	in, err := runner.Load(ctx, input, opts)
	if err != nil {
		return err
	}

	if in.Board == nil {
		stats := analysis.Analyze(in.Graph)
		if asJSON {
			return writeJSON(os.Stdout, stats)
		}
		printStatsSection("Graph", stats)
		return nil
	}

	rep, err := runner.Analyze(ctx, in.Board, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(os.Stdout, rep)
	}

	fmt.Println(StyleTitle.Render(in.Name))
	printKeyValue("Footprints", strconv.Itoa(rep.Footprints))
	printKeyValue("Pads", strconv.Itoa(rep.Pads))
	printKeyValue("Nets", strconv.Itoa(len(rep.Nets)))
	printNewline()
	printStatsSection("Components graph", rep.ComponentsGraph)
	printNewline()
	printStatsSection("Pads graph", rep.PadsGraph)
	printNewline()
	printNextStep("Decompose", "linkboard decompose "+input)
	return nil
}

func printStatsSection(title string, s analysis.Stats) {
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("Vertices", strconv.Itoa(s.Vertices))
	printKeyValue("Edges", strconv.Itoa(s.Edges))
	printKeyValue("Isolated", strconv.Itoa(s.Isolated))
	printKeyValue("Max degree", strconv.Itoa(s.MaxDeg))
	if s.Fit != nil {
		printKeyValue("Exponent", strconv.FormatFloat(s.Fit.Exponent, 'f', 3, 64))
	} else {
		printKeyValue("Exponent", StyleDim.Render("n/a"))
	}
	if len(s.Degrees) > 0 {
		fmt.Println(degreeTable(s.Degrees))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
