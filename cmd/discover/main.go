package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agent-samples/harness/internal/discovery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	cmd := &cli.Command{
		Name:  "discover",
		Usage: "list valid hosted agent samples as a JSON matrix for CI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "repository root to scan",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:  "language",
				Usage: "restrict the scan to a language (repeatable)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "file to write the JSON array to",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	var languages mapset.Set[string]
	if langs := cmd.StringSlice("language"); len(langs) > 0 {
		languages = mapset.NewSet(langs...)
	}

	samples, err := discovery.Discover(cmd.String("root"), languages)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		slog.Warn("no valid hosted agent samples found")
	}

	b, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		return os.WriteFile(output, b, 0644)
	}
	fmt.Println(string(b))
	return nil
}
