package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/agent-samples/harness/internal/environment"
	"github.com/agent-samples/harness/internal/gatherer"
	"github.com/agent-samples/harness/internal/gatherer/natsgath"
	"github.com/agent-samples/harness/internal/gatherer/sqsgath"
	"github.com/agent-samples/harness/internal/gatherer/termgath"
	"github.com/agent-samples/harness/internal/harness"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	cmd := &cli.Command{
		Name:      "harness",
		Usage:     "bring up a hosted agent sample, send one test request, tear it down",
		ArgsUsage: "<sample-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "file to write the JSON result to",
			},
			&cli.StringFlag{
				Name:  "logs-dir",
				Usage: "directory for compressed server log artifacts",
			},
			&cli.StringFlag{
				Name:  "res-sqs-url",
				Usage: "SQS queue url to stream run events to",
			},
			&cli.StringFlag{
				Name:  "nats-url",
				Usage: "NATS server url to stream run events to",
			},
			&cli.StringFlag{
				Name:  "nats-subject",
				Usage: "NATS subject for run events",
				Value: "harness.runs",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	samplePath := cmd.Args().First()
	if samplePath == "" {
		return fmt.Errorf("sample path argument is required")
	}
	if !filepath.IsAbs(samplePath) {
		abs, err := filepath.Abs(samplePath)
		if err != nil {
			return fmt.Errorf("failed to resolve sample path: %w", err)
		}
		samplePath = abs
	}
	if _, err := os.Stat(samplePath); err != nil {
		return fmt.Errorf("sample path not found: %s", samplePath)
	}

	cfg := environment.ReadEnvConfig()
	runUuid := uuid.NewString()

	gatherers := []gatherer.RunGatherer{termgath.New()}

	if queueUrl := cmd.String("res-sqs-url"); queueUrl != "" {
		gatherers = append(gatherers, sqsgath.NewSqsResultQueueGatherer(runUuid, queueUrl))
	}

	if natsUrl := cmd.String("nats-url"); natsUrl != "" {
		nc, err := nats.Connect(natsUrl)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer nc.Drain()
		gatherers = append(gatherers, natsgath.New(nc, runUuid, cmd.String("nats-subject")))
	}

	h := harness.New(cfg, gatherer.Multi(gatherers...), cmd.String("logs-dir"))
	res := h.Run(samplePath)

	resultJson, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Printf("\nResult:\n%s\n", resultJson)

	if output := cmd.String("output"); output != "" {
		if err := os.WriteFile(output, resultJson, 0644); err != nil {
			return fmt.Errorf("failed to write result file: %w", err)
		}
	}

	if !res.Success {
		return cli.Exit("", 1)
	}
	return nil
}
