package main

import "github.com/urfave/cli/v2"

func paramsCmd() *cli.Command {
	return &cli.Command{
		Name:      "params",
		Aliases:   []string{"up"},
		Usage:     "Detect parameters that are never read in their own body",
		ArgsUsage: "[path...]",
		Action: func(c *cli.Context) error {
			return runAnalysis(c, false, true)
		},
	}
}
