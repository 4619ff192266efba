// Command base64load encodes files and URLs as base64 data URIs from the
// command line, using the same pipeline the library exposes to stylesheet
// hosts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sasskit/base64load"
	"github.com/sasskit/base64load/dircache"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := base64load.LoadDotenv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cmd := &cli.Command{
		Name:    "base64load",
		Usage:   "encode files and URLs as base64 data URIs",
		Version: version,
		Commands: []*cli.Command{
			encodeCommand(),
			configCommand(),
		},
	}

	return cmd.Run(context.Background(), os.Args)
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "encode one source as a data URI",
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mimetype",
				Aliases: []string{"m"},
				Usage:   "mimetype to embed (required unless --detect is set)",
			},
			&cli.BoolFlag{
				Name:    "detect",
				Aliases: []string{"d"},
				Usage:   "detect the mimetype from file content",
			},
			&cli.BoolFlag{
				Name:    "remote",
				Aliases: []string{"r"},
				Usage:   "allow http and https sources",
			},
			&cli.StringFlag{
				Name:  "base-dir",
				Usage: "directory relative sources resolve against",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "settings file (YAML or JSON)",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "persistent cache directory shared across runs",
			},
			&cli.StringFlag{
				Name:  "max-fetch-size",
				Usage: "remote response size cap, e.g. 4MiB",
			},
			&cli.DurationFlag{
				Name:  "fetch-timeout",
				Usage: "remote fetch deadline, e.g. 10s",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "print the URI without the surrounding quotes",
			},
		},
		Action: runEncode,
	}
}

func runEncode(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	if source == "" {
		return errors.New("a source argument is required")
	}

	opts, err := encodeOptions(cmd)
	if err != nil {
		return err
	}

	fn, err := base64load.New(opts...)
	if err != nil {
		return err
	}

	value, err := fn.Load(ctx, source, cmd.String("mimetype"))
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		value = strings.Trim(value, `"`)
	}
	fmt.Println(value)

	return nil
}

// encodeOptions assembles the function options: settings file first, then
// command line flags on top.
func encodeOptions(cmd *cli.Command) ([]base64load.Option, error) {
	var opts []base64load.Option

	if path := cmd.String("config"); path != "" {
		cfg, err := base64load.LoadConfig(nil, path)
		if err != nil {
			return nil, err
		}

		opts, err = cfg.Options()
		if err != nil {
			return nil, err
		}
	}

	if cmd.IsSet("detect") {
		opts = append(opts, base64load.WithDetect(cmd.Bool("detect")))
	}
	if cmd.IsSet("remote") {
		opts = append(opts, base64load.WithRemote(cmd.Bool("remote")))
	}
	if dir := cmd.String("base-dir"); dir != "" {
		opts = append(opts, base64load.WithBaseDir(dir))
	}
	if dir := cmd.String("cache-dir"); dir != "" {
		store, err := dircache.New(dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, base64load.WithCache(store))
	}
	if size := cmd.String("max-fetch-size"); size != "" {
		parsed, err := base64load.ParseByteSize(size)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-fetch-size value %q: %w", size, err)
		}
		opts = append(opts, base64load.WithMaxFetchSize(parsed))
	}
	if cmd.IsSet("fetch-timeout") {
		opts = append(opts, base64load.WithFetchTimeout(cmd.Duration("fetch-timeout")))
	}

	return opts, nil
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "validate a settings file and print the effective configuration as JSON",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("a config file argument is required")
			}

			cfg, err := base64load.LoadConfig(nil, path)
			if err != nil {
				return err
			}

			out, err := cfg.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}
}
