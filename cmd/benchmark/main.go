package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const (
	iterationsKey  = "iterations"
	reportKey      = "report"
	plainKey       = "plain"
	verboseKey     = "verbose"
	scenariosKey   = "scenarios"
	metricsAddrKey = "metrics-addr"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure how fast signalgraph propagates writes",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "W chains of H memos, each ending in an effect, written and flushed",
				Flags: append(commonFlags(),
					&cli.IntFlag{Name: iterationsKey, Usage: "Timed writes per case", Value: 100},
					&cli.StringFlag{Name: metricsAddrKey, Usage: "Serve Prometheus metrics on this address while running"},
					&cli.StringFlag{Name: cpuProfileKey, Usage: "Write a CPU profile, e.g. default.pgo"},
				),
				Action: runPropagate,
			},
			{
				Name:  "layers",
				Usage: "Layered graphs of static and dynamic memos with partial reads",
				Flags: append(commonFlags(),
					&cli.IntFlag{Name: iterationsKey, Usage: "Iterations per scenario, 0 keeps each scenario's own"},
					&cli.StringFlag{Name: scenariosKey, Usage: "TOML file with [[scenario]] tables, defaults to the built-in set"},
				),
				Action: runLayers,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("benchmark failed")
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  reportKey,
			Usage: "Also write a markdown report to this file",
		},
		&cli.BoolFlag{
			Name:  plainKey,
			Usage: "Render tables without box drawing characters",
		},
		&cli.BoolFlag{
			Name:  verboseKey,
			Usage: "Log every case as it runs",
		},
	}
}

func newLogger(cmd *cli.Command) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})
	if cmd.Bool(verboseKey) {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
