// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/poiesic/udmine"
	"github.com/poiesic/udmine/catalog"
	"github.com/poiesic/udmine/config"
	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/mining"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "udmine",
		Usage: "Mine and embed personal-data exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "data-root",
				Aliases: []string{"d"},
				Usage:   "Directory holding the user's export",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "User name (inferred from the data root when empty)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Embedding cache backend (file, badger)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "mine",
				Usage:  "Resolve every category and write the result set as JSON",
				Action: mineCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result set to this file instead of stdout",
					},
					&cli.StringSliceFlag{
						Name:  "only",
						Usage: "Only mine categories whose key matches a pattern",
					},
					&cli.StringSliceFlag{
						Name:  "skip",
						Usage: "Skip categories whose key matches a pattern",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report category progress on stderr",
						Value: true,
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "List the category catalog",
				Action: categoriesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only list one provider (google, instagram, facebook)",
					},
				},
			},
			{
				Name:  "cache",
				Usage: "Inspect the embedding cache",
				Subcommands: []*cli.Command{
					{
						Name:   "ls",
						Usage:  "List cached category keys",
						Action: cacheListCommand,
					},
				},
			},
		},
	}
}

// loadConfig reads --config, if any, and applies the global flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if c.IsSet("data-root") {
		cfg.DataRoot = c.String("data-root")
	}
	if c.IsSet("user") {
		cfg.User = c.String("user")
	}
	if c.IsSet("backend") {
		cfg.Cache.Backend = c.String("backend")
	}
	if c.IsSet("only") {
		cfg.Mining.Include = c.StringSlice("only")
	}
	if c.IsSet("skip") {
		cfg.Mining.Exclude = append(cfg.Mining.Exclude, c.StringSlice("skip")...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mineCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var opts []udmine.SessionOption
	if c.Bool("progress") {
		opts = append(opts, udmine.WithMiningOptions(mining.WithProgress(c.App.ErrWriter)))
	}

	session, err := udmine.NewSession(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	fmt.Fprintf(c.App.ErrWriter, "Data root: %s\n", session.Identity().DataRoot)
	fmt.Fprintf(c.App.ErrWriter, "User: %s\n", session.Identity().User)
	fmt.Fprintf(c.App.ErrWriter, "Cache backend: %s\n", cfg.Cache.Backend)
	fmt.Fprintf(c.App.ErrWriter, "Embedding engine: %s (%s)\n", cfg.Embedding.Engine, cfg.Embedding.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	report, err := session.Run(c.Context)
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeResults(out, report.Results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Fprint(c.App.ErrWriter, report.Summary.String())
	if n := report.Summary.Degraded(); n > 0 {
		fmt.Fprintf(c.App.ErrWriter, "%d label(s) fell back to empty results.\n", n)
	}
	return nil
}

func writeResults(w io.Writer, results *core.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results.Export())
}

func categoriesCommand(c *cli.Context) error {
	cat := catalog.Default()

	categories := cat.Categories()
	if p := c.String("provider"); p != "" {
		categories = cat.ByProvider(core.Provider(strings.ToLower(p)))
		if len(categories) == 0 {
			return fmt.Errorf("unknown provider %q", p)
		}
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tPROVIDER\tKIND\tLABEL")
	for _, cg := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cg.Key, cg.Provider, cg.Kind, cg.Label)
	}
	if c.String("provider") == "" {
		for _, mg := range cat.Merges() {
			fmt.Fprintf(tw, "%s\t-\tmerge\t%s (%s + %s)\n", mg.Key, mg.Label, mg.Left, mg.Right)
		}
	}
	return tw.Flush()
}

func cacheListCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	session, err := udmine.NewSession(cfg)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	keys, err := session.Cache().Keys(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	for _, k := range keys {
		fmt.Fprintln(c.App.Writer, k)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
