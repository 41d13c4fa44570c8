package main

import "github.com/urfave/cli/v2"

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Run every detector enabled in the configuration",
		ArgsUsage: "[path...]",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runAnalysis(c, cfg.Analysis.Fields, cfg.Analysis.Parameters)
		},
	}
}
