package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const defaultConfigTOML = `# Quarry configuration

[dedup]
shingle_size = 7
permutations = 128
seed = 1
threshold = 0.8
# Explicit LSH band split; leave unset to derive from the threshold.
# bands = 11
# rows = 11

[quality]
enabled = true
min_loc = 3
max_loc = 200
max_cyclomatic = 20
max_nesting = 6
allow_synthetic = false
# rule_file = "synthetic_rules.yaml"

[pipeline]
workers = 0 # 0 = 2x NumCPU

[output]
format = "text"
color = true
verbose = false
`

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default quarry.toml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(c *cli.Context) error {
			const path = "quarry.toml"
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
				return err
			}
			color.Green("Wrote %s", path)
			return nil
		},
	}
}
