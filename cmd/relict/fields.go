package main

import "github.com/urfave/cli/v2"

func fieldsCmd() *cli.Command {
	return &cli.Command{
		Name:      "fields",
		Aliases:   []string{"uf"},
		Usage:     "Detect private fields that are never read",
		ArgsUsage: "[path...]",
		Action: func(c *cli.Context) error {
			return runAnalysis(c, true, false)
		},
	}
}
