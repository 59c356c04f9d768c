// Package main is the octree command line tool.
package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"go.viam.com/octree/logging"
)

const (
	// Flags.
	flagConfig = "config"
	flagDebug  = "debug"
	flagLogs   = "log-file"
	flagCenter = "center"
	flagSide   = "side"
	flagDepth  = "depth"
	flagPoints = "points"
	flagRandom = "random"
	flagSeed   = "seed"
	flagOut    = "out"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(w io.Writer) *cli.App {
	var logger logging.Logger
	var logCloser io.Closer

	return &cli.App{
		Name:   "octree",
		Usage:  "build and inspect octrees",
		Writer: w,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogs,
				Usage: "also write logs to `FILE`, rotated by size",
			},
		},
		Before: func(c *cli.Context) error {
			switch path := c.String(flagLogs); {
			case path != "":
				logger, logCloser = logging.NewFileLogger("octree", path)
			case c.Bool(flagDebug):
				logger = logging.NewDebugLogger("octree")
			default:
				logger = logging.NewLogger("octree")
			}
			if c.Bool(flagDebug) {
				logger.SetLevel(logging.DEBUG)
			}
			logging.ReplaceGlobal(logger)
			return nil
		},
		After: func(c *cli.Context) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "insert points into an octree and print its stats",
				UsageText: "octree build [--points FILE] [--random N] [other options]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load tree configuration from `FILE`",
					},
					&cli.Float64SliceFlag{
						Name:  flagCenter,
						Usage: "center of the root region as x,y,z",
					},
					&cli.Float64Flag{
						Name:  flagSide,
						Value: 1,
						Usage: "side length of the root region",
					},
					&cli.IntFlag{
						Name:  flagDepth,
						Usage: "refine every point down to this level instead of splitting until points separate",
					},
					&cli.StringFlag{
						Name:  flagPoints,
						Usage: "read points from `FILE`, one x y z triple per line",
					},
					&cli.IntFlag{
						Name:  flagRandom,
						Usage: "insert `N` uniformly random points",
					},
					&cli.Int64Flag{
						Name:  flagSeed,
						Value: 1,
						Usage: "seed for random points",
					},
					&cli.StringFlag{
						Name:  flagOut,
						Usage: "write the marshaled tree to `FILE`",
					},
				},
				Action: func(c *cli.Context) error {
					return buildAction(c, logger)
				},
			},
			{
				Name:      "inspect",
				Usage:     "print the stats of a marshaled octree",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					return inspectAction(c, logger)
				},
			},
			{
				Name:      "alloc",
				Usage:     "replay operations against a free-range index allocator",
				ArgsUsage: "<op>...",
				Description: "Each op is gN to grab N indices or fS:N to free N indices starting at S.\n" +
					"For example: octree alloc g1 g5 g10 f1:8 g8 g0",
				Action: allocAction,
			},
		},
	}
}
