package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agent-samples/harness/internal/behave"
	"github.com/agent-samples/harness/internal/environment"
	"github.com/agent-samples/harness/internal/gatherer/termgath"
	"github.com/agent-samples/harness/internal/harness"
	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	cmd := &cli.Command{
		Name:      "behave",
		Usage:     "run a TOML suite of harness scenarios and compare verdicts",
		ArgsUsage: "<suite.toml>",
		Action:    run,
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
	suitePath := cmd.Args().First()
	if suitePath == "" {
		return fmt.Errorf("suite path argument is required")
	}

	cases, err := behave.Parse(suitePath)
	if err != nil {
		return err
	}

	cfg := environment.ReadEnvConfig()
	failed := 0
	for _, c := range cases {
		h := harness.New(cfg, termgath.New(), "")
		res := h.Run(c.Sample)

		if err := c.Check(res); err != nil {
			color.Red("FAIL %s: %v", c.Name, err)
			failed++
			continue
		}
		color.Green("PASS %s", c.Name)
	}

	fmt.Printf("\n%d/%d scenarios passed\n", len(cases)-failed, len(cases))
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
