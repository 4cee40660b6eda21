package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/presentation/tui"
	"github.com/aretw0/trove/pkg/loot"
)

// RollOptions configures Roll.
type RollOptions struct {
	Options
	Table string
	Luck  float32
	Times int

	// Seed fixes the first roll; later rolls use Seed+1, Seed+2 and so on.
	Seed *uint64

	// Params holds key=value pairs; values are YAML or JSON.
	Params []string
}

// Roll evaluates a table Times times and prints the items.
func Roll(ctx context.Context, opts RollOptions) error {
	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger, err := createLogger(cfg)
	if err != nil {
		return err
	}
	engine, closeStore, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	params, err := parseParams(opts.Params)
	if err != nil {
		return err
	}
	params.WithLuck(opts.Luck)

	times := max(opts.Times, 1)
	results := make([]*trove.Result, 0, times)
	for i := range times {
		var genOpts []trove.GenerateOption
		if opts.Seed != nil {
			genOpts = append(genOpts, trove.WithSeed(*opts.Seed+uint64(i)))
		}
		res, err := engine.Generate(ctx, opts.Table, params, genOpts...)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	out := opts.out()
	if opts.JSON {
		return json.NewEncoder(out).Encode(results)
	}
	rendered, err := tui.NewRenderer(out)(tui.ResultMarkdown(results))
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

func parseParams(pairs []string) (*loot.ParamsBuilder, error) {
	b := loot.NewParamsBuilder()
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		if err := b.WithEncodedParam(name, []byte(value)); err != nil {
			return nil, err
		}
	}
	return b, nil
}
