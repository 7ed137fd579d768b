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
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/noema"
	"github.com/poiesic/noema/config"
	"github.com/poiesic/noema/ingestion"
	"github.com/poiesic/noema/search"
)

func main() {
	app := &cli.App{
		Name:  "noema",
		Usage: "Hybrid search over personal thoughts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the config file (default: <data-dir>/noema.toml)",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Data directory (default: ~/.noema)",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User whose thoughts to operate on",
				Value:   "default",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Capture a thought",
				ArgsUsage: "<content>",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mood",
						Usage: "Mood to attach to the thought",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
					&cli.TimestampFlag{
						Name:   "time",
						Usage:  "Timestamp of the thought (default: now)",
						Layout: time.RFC3339,
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Wait for enrichment before exiting",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search thoughts",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of results to skip",
					},
				},
			},
			{
				Name:      "suggest",
				Usage:     "Propose alternative search terms",
				ArgsUsage: "<query>",
				Action:    suggestCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the vector index from stored thoughts",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of thoughts to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N thoughts",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openEngine loads the config file and opens the engine under the resolved
// data directory. Command line flags win over file values.
func openEngine(c *cli.Context) (*noema.Engine, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, nil, err
	}

	engine, err := noema.Open(dataDir, noema.WithAIConfig(cfg.AIConfig()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, cfg, nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		dir := c.String("data-dir")
		if dir == "" {
			var err error
			dir, err = config.DefaultDataDir()
			if err != nil {
				return nil, err
			}
		}
		path = filepath.Join(dir, config.FileName)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func addCommand(c *cli.Context) error {
	content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if content == "" {
		return fmt.Errorf("content is required")
	}

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	opts := &ingestion.IngestOptions{
		Mood: c.String("mood"),
		Tags: c.StringSlice("tag"),
	}
	if ts := c.Timestamp("time"); ts != nil {
		opts.Timestamp = ts.UTC()
	}

	thought, err := pipeline.IngestThought(context.Background(), c.String("user"), content, opts)
	if err != nil {
		return fmt.Errorf("failed to add thought: %w", err)
	}

	fmt.Printf("Added thought %d\n", thought.Id)

	if c.Bool("wait") {
		// Release blocks until queued enrichment work drains.
		pipeline.Release()
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher(search.WithConfig(cfg.SearchConfig()))
	if err != nil {
		return err
	}

	resp, err := searcher.Search(context.Background(), c.String("user"), query, c.Int("limit"), c.Int("offset"))
	if err != nil {
		return err
	}

	if resp.Degraded {
		fmt.Fprintln(os.Stderr, "warning: semantic search unavailable, keyword results only")
	}

	if len(resp.Results) == 0 {
		fmt.Printf("No results (%dms)\n", resp.QueryTimeMs)
		for _, s := range resp.Suggestions {
			fmt.Printf("  try: %s\n", s)
		}
		return nil
	}

	fmt.Printf("%d of %d results (%dms)\n", len(resp.Results), resp.TotalEstimated, resp.QueryTimeMs)
	for _, hit := range resp.Results {
		fmt.Printf("%3d. [%.3f] (%d) %s\n", hit.Rank, hit.Score.Final, hit.ThoughtId, hit.Snippet)
		if len(hit.Entities) > 0 {
			parts := make([]string, 0, len(hit.Entities))
			for _, e := range hit.Entities {
				parts = append(parts, fmt.Sprintf("%s:%s", e.Type, e.Value))
			}
			fmt.Printf("     entities: %s\n", strings.Join(parts, ", "))
		}
	}
	return nil
}

func suggestCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher(search.WithConfig(cfg.SearchConfig()))
	if err != nil {
		return err
	}

	terms, err := searcher.Suggestions(context.Background(), c.String("user"), query)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		fmt.Println("No suggestions")
		return nil
	}
	for _, term := range terms {
		fmt.Println(term)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	reindexConfig := cfg.ReindexConfig()
	if c.IsSet("batch-size") {
		reindexConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("report-interval") {
		reindexConfig.ReportInterval = c.Int("report-interval")
	}
	if c.IsSet("max-retries") {
		reindexConfig.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		reindexConfig.RetryDelay = c.Duration("retry-delay")
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := engine.NewReindexer(reindexConfig, os.Stderr)
	if err := reindexer.Run(context.Background(), c.String("user")); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}
