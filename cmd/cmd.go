// Package cmd wires the gifkit command tree. All file handling lives
// here; the library packages only ever see in-memory animations.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"gifkit/config"
	"gifkit/ops"
)

var log zerolog.Logger

// Cmd is the root gifkit command.
var Cmd = &cli.Command{
	Name:  "gifkit",
	Usage: "Optimize and manipulate animated GIF images",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Enable debug logging",
			Aliases: []string{"v"},
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Directory containing gifkit.yaml",
		},
	},
	Commands: []*cli.Command{
		compressCmd,
		speedCmd,
		tuneCmd,
		infoCmd,
	},
}

var compressCmd = &cli.Command{
	Name:      "compress",
	Usage:     "Shrink GIFs toward a target percentage of their size",
	ArgsUsage: "<input.gif> [more.gif ...]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "percent",
			Usage:   "Target size as a percentage of the original (1-99)",
			Aliases: []string{"p"},
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Output path (single input only)",
			Aliases: []string{"o"},
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "Quantizer clustering seed (overrides config)",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Per-frame worker pool size (overrides config)",
			Value: -1,
		},
	},
	Action: runCompress,
}

var speedCmd = &cli.Command{
	Name:      "speed",
	Usage:     "Adjust GIF playback speed",
	ArgsUsage: "<input.gif>",
	Flags: []cli.Flag{
		&cli.FloatFlag{
			Name:    "factor",
			Usage:   "Speed multiplier (2.0 = twice as fast, 0.5 = half speed)",
			Aliases: []string{"f"},
			Value:   1.0,
		},
		&cli.StringFlag{
			Name:     "output",
			Usage:    "Output path",
			Aliases:  []string{"o"},
			Required: true,
		},
	},
	Action: runSpeed,
}

var tuneCmd = &cli.Command{
	Name:      "tune",
	Usage:     "Resize GIF dimensions",
	ArgsUsage: "<input.gif>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "width",
			Usage:   "New width in pixels (0 keeps aspect ratio)",
			Aliases: []string{"W"},
		},
		&cli.IntFlag{
			Name:    "height",
			Usage:   "New height in pixels (0 keeps aspect ratio)",
			Aliases: []string{"H"},
		},
		&cli.StringFlag{
			Name:     "output",
			Usage:    "Output path",
			Aliases:  []string{"o"},
			Required: true,
		},
	},
	Action: runTune,
}

var infoCmd = &cli.Command{
	Name:      "info",
	Usage:     "Display GIF metadata",
	ArgsUsage: "<input.gif>",
	Action:    runInfo,
}

func setup(c *cli.Command) (config.Config, error) {
	level := zerolog.InfoLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && !c.Bool("verbose") {
		log = log.Level(lvl)
	}
	return cfg, nil
}

func runCompress(ctx context.Context, c *cli.Command) error {
	cfg, err := setup(c.Root())
	if err != nil {
		return err
	}

	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		return errors.New("compress: no input files given")
	}
	output := c.String("output")
	if output != "" && len(inputs) > 1 {
		return errors.New("compress: --output only works with a single input")
	}

	seed := cfg.Seed
	if v := int(c.Int("seed")); v >= 0 {
		seed = int64(v)
	}
	workers := cfg.Workers
	if v := int(c.Int("workers")); v >= 0 {
		workers = v
	}
	percent := int(c.Int("percent"))

	jobs := make([]compressJob, len(inputs))
	for i, in := range inputs {
		out := output
		if out == "" {
			out = derivedOutputPath(in)
		}
		jobs[i] = compressJob{
			input:   in,
			output:  out,
			percent: percent,
			seed:    seed,
			workers: workers,
		}
	}
	return runCompressJobs(ctx, jobs)
}

func runSpeed(ctx context.Context, c *cli.Command) error {
	if _, err := setup(c.Root()); err != nil {
		return err
	}
	input, err := singleInput(c)
	if err != nil {
		return err
	}

	anim, _, err := loadAnimation(input)
	if err != nil {
		return err
	}
	factor := c.Float("factor")
	log.Info().Str("input", input).Float64("factor", factor).
		Int("frames", anim.FrameCount()).Msg("retiming")

	retimed, err := ops.Speed(anim, factor)
	if err != nil {
		return err
	}
	return writeAnimation(c.String("output"), retimed)
}

func runTune(ctx context.Context, c *cli.Command) error {
	if _, err := setup(c.Root()); err != nil {
		return err
	}
	input, err := singleInput(c)
	if err != nil {
		return err
	}

	anim, _, err := loadAnimation(input)
	if err != nil {
		return err
	}
	width, height := int(c.Int("width")), int(c.Int("height"))
	log.Info().Str("input", input).
		Str("from", fmt.Sprintf("%dx%d", anim.Width, anim.Height)).
		Str("to", fmt.Sprintf("%dx%d", width, height)).
		Msg("resizing")

	resized, err := ops.Resize(anim, width, height)
	if err != nil {
		return err
	}
	return writeAnimation(c.String("output"), resized)
}

func runInfo(ctx context.Context, c *cli.Command) error {
	if _, err := setup(c.Root()); err != nil {
		return err
	}
	input, err := singleInput(c)
	if err != nil {
		return err
	}

	anim, info, err := loadAnimation(input)
	if err != nil {
		return err
	}
	fmt.Printf("File:        %s\n", input)
	fmt.Println(ops.Describe(anim, info.Size()))
	return nil
}

func singleInput(c *cli.Command) (string, error) {
	args := c.Args().Slice()
	if len(args) != 1 {
		return "", fmt.Errorf("%s: expected exactly one input file", c.Name)
	}
	return args[0], nil
}
