/*
PURPOSE:
  High-level runner that orchestrates the collection process.
  Loops through the scenario cross product and records one row each.

REQUIREMENTS:
  User-specified:
  - Collect every combination of model x batch x context x users.
  - Log results to xlsx with a CSV backup.
  - Ctrl-C must flush whatever was collected so far.

  Implementation-discovered:
  - Strictly sequential: one browser session, one live configuration.
  - Session loss is fatal but still flushes collected rows first.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/browser, internal/config, internal/model, internal/output

ERROR HANDLING:
  - Per-field failures are logged and counted; the row is recorded with
    whatever extraction produced (resilience over row correctness).
  - Only session-level failures abort the run.

IMPLEMENTATION RULES:
  - Iterate scenarios in enumeration order.
  - Check interrupt and session health between scenarios, never within.
  - CSV streams per row; xlsx saves at the end and on every abort path.

USAGE:
  collector.Run(cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/collector/applier.go
  - internal/browser/session.go

MAINTENANCE:
  - Update iteration logic if parallel sessions are ever introduced.
*/

package collector

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Tugaytalha/vram-calculation-automation/internal/browser"
	"github.com/Tugaytalha/vram-calculation-automation/internal/config"
	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
	"github.com/Tugaytalha/vram-calculation-automation/internal/output"
)

// scenarioRunner is what the collection loop needs from the browser
// layer: apply a scenario, harvest the results panel, and report
// session health.
type scenarioRunner interface {
	Apply(sc model.Scenario) int
	Harvest() model.Extraction
	Err() error
}

// Run executes the full collection suite.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	base := cfg.OutputFile
	if base == "" {
		base = fmt.Sprintf("vram_results_%s.xlsx", time.Now().Format("20060102_150405"))
	}
	xlsxPath := filepath.Join(cfg.OutputDir, base)
	csvPath := strings.TrimSuffix(xlsxPath, ".xlsx") + ".csv"

	// Setup Outputs. CSV streams per row; xlsx accumulates in memory and
	// is flushed on every exit path.
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	excel, err := output.NewExcelWriter()
	if err != nil {
		return fmt.Errorf("failed to init xlsx writer: %w", err)
	}
	defer excel.Close()

	flush := func(path string) {
		if excel.Rows() == 0 {
			output.Logger.Warn("No rows collected; skipping xlsx flush")
			return
		}
		if err := excel.Save(path); err != nil {
			output.Logger.Error("Failed to save xlsx", "path", path, "error", err)
			return
		}
		output.Logger.Info("Results saved", "xlsx", path, "csv", csvPath, "rows", excel.Rows())
	}

	// Acquire the browser session. Closed on all exit paths.
	session, err := browser.NewSession(ctx, cfg.Headless)
	if err != nil {
		return err
	}
	defer session.Close()

	output.Logger.Info("Navigating to calculator...", "url", cfg.CalculatorURL)
	if err := session.Navigate(cfg.CalculatorURL, browser.SelectorModel, cfg.NavigationTimeout, cfg.PageLoadDelay); err != nil {
		return err
	}

	dropdown := browser.NewDropdownSelector(session, cfg)
	values := browser.NewValueSetter(session, cfg.OperationDelay)

	// One-time page setup: manual input mode, then hardware.
	if !browser.SwitchToManualMode(session, cfg.OperationDelay) {
		output.Logger.Warn("Could not switch to manual mode; slider limits may clamp values")
	}
	output.Logger.Info("Selecting hardware", "hardware", cfg.Hardware)
	if !dropdown.Select(browser.SelectorHardware, cfg.Hardware) {
		output.Logger.Warn("Hardware selection failed; continuing with page default")
	}

	scenarios := cfg.Scenarios()
	output.Logger.Info("Starting collection", "scenarios", len(scenarios))

	runner := &pageRunner{
		applier: NewApplier(dropdown, values, cfg.KVCacheQuantization),
		session: session,
		settle:  cfg.ResultSettleDelay,
	}

	rows, interrupted, sessionErr := collect(ctx, scenarios, runner, cfg.ScenarioDelay, func(r model.Row) {
		if err := excel.Append(r); err != nil {
			output.Logger.Error("Failed to append row to xlsx", "error", err)
		}
		if err := csvWriter.Write(r); err != nil {
			output.Logger.Error("Failed to write row to CSV", "error", err)
		}
	})

	switch {
	case interrupted:
		output.Logger.Warn("Collection interrupted", "collected", len(rows))
		flush(strings.TrimSuffix(xlsxPath, ".xlsx") + "_partial.xlsx")
		return nil
	case sessionErr != nil:
		flush(xlsxPath)
		return fmt.Errorf("browser session lost: %w", sessionErr)
	default:
		output.Logger.Info("Collection complete", "rows", len(rows))
		flush(xlsxPath)
		return nil
	}
}

// collect drives the sequential scenario loop. It returns the rows
// recorded, whether the run was interrupted, and any session-level
// error. Exactly one row is produced per scenario attempted.
func collect(ctx context.Context, scenarios []model.Scenario, r scenarioRunner, pause time.Duration, sink func(model.Row)) (rows []model.Row, interrupted bool, sessionErr error) {
	total := len(scenarios)
	rows = make([]model.Row, 0, total)

	for i, sc := range scenarios {
		select {
		case <-ctx.Done():
			return rows, true, nil
		default:
		}
		if err := r.Err(); err != nil {
			return rows, false, err
		}

		output.Logger.Info("Applying scenario",
			"progress", fmt.Sprintf("%d/%d", i+1, total),
			"model", sc.Model.DisplayName,
			"batch", sc.BatchSize,
			"context", sc.Context.Label,
			"users", sc.Users,
		)

		if failures := r.Apply(sc); failures > 0 {
			output.Logger.Warn("Scenario applied with failures", "failed_fields", failures)
		}

		ex := r.Harvest()
		row := model.NewRow(sc, ex)
		rows = append(rows, row)
		sink(row)

		output.Logger.Info("Scenario recorded",
			"vram_gb", metricLog(row.VRAMGB),
			"per_user_tok_s", metricLog(row.TokensPerUser),
			"total_tok_s", metricLog(row.TotalThroughput),
		)

		time.Sleep(pause)
	}

	return rows, false, nil
}

// pageRunner binds the applier and the extraction path to a live session.
type pageRunner struct {
	applier *Applier
	session *browser.Session
	settle  time.Duration
}

func (p *pageRunner) Apply(sc model.Scenario) int {
	return p.applier.Apply(sc)
}

// Harvest waits out the settle delay, logs the page's own configuration
// read-back, and extracts the results panel.
func (p *pageRunner) Harvest() model.Extraction {
	time.Sleep(p.settle)

	if v, ok := browser.VerifyConfiguration(p.session); ok {
		output.Logger.Info("Configuration verified",
			"model", v.InputModel,
			"batch", v.DisplayBatch,
			"users", v.DisplayUsers,
		)
	}

	text, ok := browser.ResultsPanelText(p.session)
	if !ok {
		return model.Extraction{}
	}
	return browser.Extract(text)
}

func (p *pageRunner) Err() error {
	return p.session.Err()
}

func metricLog(v *float64) any {
	if v == nil {
		return "absent"
	}
	return *v
}
