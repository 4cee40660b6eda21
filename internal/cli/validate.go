package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/trove/internal/presentation/tui"
)

// ErrProblems is returned by Validate in strict mode when problems were found.
var ErrProblems = errors.New("validation problems found")

// Validate loads the data directory once and prints the reload report.
func Validate(opts Options, strict bool) error {
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

	report := engine.Report()
	out := opts.out()
	if opts.JSON {
		if err := json.NewEncoder(out).Encode(report); err != nil {
			return err
		}
	} else {
		rendered, err := tui.NewRenderer(out)(tui.ReportMarkdown(report))
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
	}

	if strict && report.HasProblems() {
		return fmt.Errorf("%w: %d", ErrProblems, len(report.Problems))
	}
	return nil
}
