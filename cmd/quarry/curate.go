package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/quarrylabs/quarry/internal/output"
	"github.com/quarrylabs/quarry/internal/progress"
	"github.com/quarrylabs/quarry/pkg/models"
	"github.com/quarrylabs/quarry/pkg/pipeline"
	"github.com/urfave/cli/v2"
)

func curateCmd() *cli.Command {
	return &cli.Command{
		Name:      "curate",
		Aliases:   []string{"dedup"},
		Usage:     "Filter, dedup, and emit kept records from a functions JSONL file",
		ArgsUsage: "<functions.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kept",
				Aliases: []string{"k"},
				Value:   "kept_records.jsonl",
				Usage:   "Path for the kept-records JSONL output",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Near-duplicate similarity threshold (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-quality-gate",
				Usage: "Disable the quality gate (dedup only)",
			},
		},
		Action: runCurate,
	}
}

func runCurate(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file (or - for stdin)")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("threshold") {
		cfg.Dedup.Threshold = c.Float64("threshold")
	}
	if c.Bool("no-quality-gate") {
		cfg.Quality.Enabled = false
	}

	in, closeIn, err := openInput(c.Args().First())
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer closeIn()

	records, skipped, err := pipeline.ReadRecords(in)
	if err != nil {
		return err
	}
	if skipped > 0 {
		color.Yellow("Skipped %d undecodable input lines", skipped)
	}
	if len(records) == 0 {
		color.Yellow("No records found")
		return nil
	}

	keptFile, err := os.Create(c.String("kept"))
	if err != nil {
		return fmt.Errorf("creating kept output: %w", err)
	}
	defer keptFile.Close()

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	tracker := progress.NewTracker("Curating records...", len(records))
	summary, err := p.Run(context.Background(), records, pipeline.NewJSONLWriter(keptFile), tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("curation failed: %w", err)
	}
	tracker.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(summary)
	}
	return formatter.Output(summaryTable(summary))
}

// summaryTable renders the run summary as a drop-reason breakdown table.
func summaryTable(s *models.RunSummary) *output.Table {
	rows := [][]string{
		{"Kept", fmt.Sprintf("%d", s.Kept)},
		{"Dropped (quality)", fmt.Sprintf("%d", s.Dropped[models.DropQuality.String()])},
		{"Dropped (exact duplicate)", fmt.Sprintf("%d", s.Dropped[models.DropExactDup.String()])},
		{"Dropped (near duplicate)", fmt.Sprintf("%d", s.Dropped[models.DropNearDup.String()])},
		{"Dropped (parse failure)", fmt.Sprintf("%d", s.Dropped[models.DropParse.String()])},
	}
	footer := []string{
		fmt.Sprintf("Total: %d", s.TotalRecords),
		fmt.Sprintf("Duplication: %.1f%%", s.DuplicationRatio*100),
		fmt.Sprintf("Clusters: %d", len(s.Clusters)),
		fmt.Sprintf("P95 cluster size: %.0f", s.ClusterSizeP95),
	}
	return output.NewTable("Curation Summary", []string{"Outcome", "Records"}, rows, footer, s)
}
