package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"ipcrypt-go/pkg/benchmark"
	"ipcrypt-go/pkg/ipcrypt"
	"ipcrypt-go/pkg/log"
)

var benchCommand = &cli.Command{
	Name:        "bench",
	Usage:       "measure cipher and pipeline latency",
	UsageText:   "ipcrypt bench [options]",
	Description: `Runs in-process latency benchmarks. Components: cipher (raw encrypt+decrypt), transform (address rewriting), pipeline (rewriting plus zstd round trip).`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "component",
			Aliases: []string{"c"},
			Usage:   "component to benchmark (cipher, transform, pipeline) `NAME`",
			Value:   "cipher",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "run benchmarks for all components",
		},
		&cli.IntFlag{
			Name:    "iterations",
			Aliases: []string{"n"},
			Usage:   "number of iterations `NUMBER`",
			Value:   10000,
		},
		&cli.IntFlag{
			Name:  "payloadsize",
			Usage: "synthetic log payload size in `BYTES` for transform/pipeline",
			Value: 4096,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write results to CSV `FILE`",
		},
	},
	Action: benchCmd,
}

func benchCmd(c *cli.Context) error {
	log.SetStd()

	opts := &benchmark.Options{
		Iterations:  c.Int("iterations"),
		PayloadSize: c.Int("payloadsize"),
		Key:         ipcrypt.KeyFromPassphrase("benchmark"),
	}
	if opts.Iterations <= 0 {
		return cli.Exit("Error: --iterations must be a positive number.", 1)
	}

	var results []*benchmark.LatencyResults

	if c.Bool("all") {
		all, err := benchmark.RunAll(opts)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Benchmark failed: %v", err), 1)
		}
		results = all
	} else {
		component, err := benchmark.ParseComponent(c.String("component"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Invalid component: %v", err), 1)
		}
		opts.Component = component

		result, err := benchmark.Run(opts)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Benchmark failed: %v", err), 1)
		}
		results = append(results, result)
	}

	for _, r := range results {
		benchmark.PrintResults(r)
	}

	if path := c.String("output"); path != "" {
		if err := benchmark.SaveResultsToFile(results, path); err != nil {
			return cli.Exit(fmt.Sprintf("Failed to write CSV: %v", err), 1)
		}
		fmt.Printf("Results written to %s\n", path)
	}
	return nil
}
