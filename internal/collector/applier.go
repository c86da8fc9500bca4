/*
PURPOSE:
  Applies one scenario to the calculator page: dropdowns for model,
  quantization and KV cache, numeric inputs for batch size, sequence
  length and concurrent users.

REQUIREMENTS:
  User-specified:
  - Fixed field order: model, quantization, KV cache, batch size,
    context length, users.

  Implementation-discovered:
  - No rollback on partial failure. Every field is attempted; failures
    are logged and counted, collection proceeds regardless. The final
    page state depends only on the final values, not the order, but the
    fixed order keeps redundant re-renders down.

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector (runner)
  - Uses: internal/browser via small interfaces (testable with fakes)

ERROR HANDLING:
  - Best-effort: returns the failed-field count for logging only.

IMPLEMENTATION RULES:
  - Hardware is NOT applied here; it is selected once per run by the
    runner, not per scenario.

USAGE:
  a := collector.NewApplier(dropdown, setter, cfg.KVCacheQuantization)
  failures := a.Apply(scenario)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/browser/dropdown.go
  - internal/browser/inputs.go

MAINTENANCE:
  - Update when the calculator gains new per-scenario fields.
*/

package collector

import (
	"github.com/Tugaytalha/vram-calculation-automation/internal/browser"
	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
	"github.com/Tugaytalha/vram-calculation-automation/internal/output"
)

// optionSelector selects a labeled option in a searchable dropdown.
// Satisfied by *browser.DropdownSelector.
type optionSelector interface {
	Select(selector, label string) bool
}

// valueSetter writes an integer into a plain text input.
// Satisfied by *browser.ValueSetter.
type valueSetter interface {
	SetValue(selector string, value int) bool
}

// Applier drives one scenario's worth of page configuration.
type Applier struct {
	dropdown optionSelector
	values   valueSetter
	kvCache  string
}

// NewApplier wires an applier. kvCache is the label typed into the KV
// cache dropdown for every scenario.
func NewApplier(dropdown optionSelector, values valueSetter, kvCache string) *Applier {
	return &Applier{dropdown: dropdown, values: values, kvCache: kvCache}
}

// Apply sets every field of sc on the page and returns how many fields
// failed. Zero means the scenario applied cleanly.
func (a *Applier) Apply(sc model.Scenario) int {
	failures := 0

	step := func(name string, ok bool) {
		if !ok {
			failures++
			output.Logger.Warn("Field application failed", "field", name, "model", sc.Model.DisplayName)
		}
	}

	output.Logger.Info("Selecting model", "model", sc.Model.SiteName)
	step("model", a.dropdown.Select(browser.SelectorModel, sc.Model.SiteName))

	output.Logger.Info("Selecting quantization", "quantization", sc.Model.Quantization)
	step("quantization", a.dropdown.Select(browser.SelectorQuantization, sc.Model.Quantization))

	output.Logger.Info("Selecting KV cache precision", "kv_cache", a.kvCache)
	step("kv_cache", a.dropdown.Select(browser.SelectorKVCache, a.kvCache))

	step("batch_size", a.values.SetValue(browser.SelectorBatchSize, sc.BatchSize))
	step("sequence_length", a.values.SetValue(browser.SelectorSequenceLength, sc.Context.Tokens))
	step("concurrent_users", a.values.SetValue(browser.SelectorConcurrentUsers, sc.Users))

	return failures
}
