package cli

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/trove/internal/presentation/graph"
	"github.com/aretw0/trove/pkg/domain"
)

// List prints the published names of kind, one per line.
func List(opts Options, kind domain.Kind) error {
	cfg, err := loadConfig(opts)
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

	names := engine.Snapshot().Names(kind)
	if opts.JSON {
		return json.NewEncoder(opts.out()).Encode(names)
	}
	for _, name := range names {
		fmt.Fprintln(opts.out(), name)
	}
	return nil
}

// Graph prints a Mermaid flowchart of the asset references. Assets with
// problems are highlighted.
func Graph(opts Options) error {
	cfg, err := loadConfig(opts)
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

	overlay := graph.ProblemOverlay(engine.Report().Problems)
	fmt.Fprint(opts.out(), graph.GenerateMermaid(engine.Snapshot(), overlay))
	return nil
}
