package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/quarrylabs/quarry/internal/output"
	"github.com/quarrylabs/quarry/pkg/normalize"
	"github.com/quarrylabs/quarry/pkg/pipeline"
	"github.com/quarrylabs/quarry/pkg/quality"
	"github.com/urfave/cli/v2"
)

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Usage:     "Report structural quality metrics without filtering or dedup",
		ArgsUsage: "<functions.jsonl>",
		Action:    runMetrics,
	}
}

func runMetrics(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file (or - for stdin)")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	rules := quality.DefaultRuleTable()
	if cfg.Quality.RuleFile != "" {
		rules, err = quality.LoadRuleTable(cfg.Quality.RuleFile)
		if err != nil {
			return err
		}
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

	var rows [][]string
	malformed := 0
	for _, rec := range records {
		m, err := quality.Compute(normalize.Normalize(rec.Code))
		if err != nil {
			malformed++
			continue
		}
		synthetic, _ := rules.Match(rec.Docstring)
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d-%d", rec.FilePath, rec.StartLine, rec.EndLine),
			rec.Language,
			fmt.Sprintf("%d", m.LOC),
			fmt.Sprintf("%d", m.Cyclomatic),
			fmt.Sprintf("%d", m.MaxNesting),
			fmt.Sprintf("%v", synthetic),
		})
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		"Quality Metrics",
		[]string{"Record", "Language", "LOC", "Cyclomatic", "Nesting", "Synthetic Doc"},
		rows,
		[]string{
			fmt.Sprintf("Records: %d", len(records)),
			fmt.Sprintf("Malformed: %d", malformed),
		},
		nil,
	)
	return formatter.Output(table)
}
