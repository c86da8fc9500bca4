package collector

import (
	"reflect"
	"testing"

	"github.com/Tugaytalha/vram-calculation-automation/internal/browser"
	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
)

type scriptedPage struct {
	calls      []string
	failSelect map[string]bool
	failSet    map[string]bool
	labels     map[string]string
	values     map[string]int
}

func newScriptedPage() *scriptedPage {
	return &scriptedPage{
		failSelect: map[string]bool{},
		failSet:    map[string]bool{},
		labels:     map[string]string{},
		values:     map[string]int{},
	}
}

func (p *scriptedPage) Select(selector, label string) bool {
	p.calls = append(p.calls, selector)
	p.labels[selector] = label
	return !p.failSelect[selector]
}

func (p *scriptedPage) SetValue(selector string, value int) bool {
	p.calls = append(p.calls, selector)
	p.values[selector] = value
	return !p.failSet[selector]
}

func testScenario() model.Scenario {
	return model.Scenario{
		Model:     model.ModelSpec{DisplayName: "Gemma-3-27B-IT (FP16)", SiteName: "Gemma 3 27B", Quantization: "FP16"},
		BatchSize: 8,
		Context:   model.ContextLength{Tokens: 16384, Label: "16K"},
		Users:     4,
	}
}

func TestApplyFixedFieldOrder(t *testing.T) {
	page := newScriptedPage()
	a := NewApplier(page, page, "FP16")

	if failures := a.Apply(testScenario()); failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}

	want := []string{
		browser.SelectorModel,
		browser.SelectorQuantization,
		browser.SelectorKVCache,
		browser.SelectorBatchSize,
		browser.SelectorSequenceLength,
		browser.SelectorConcurrentUsers,
	}
	if !reflect.DeepEqual(page.calls, want) {
		t.Errorf("field order = %v, want %v", page.calls, want)
	}
}

func TestApplySendsScenarioValues(t *testing.T) {
	page := newScriptedPage()
	a := NewApplier(page, page, "FP16")
	a.Apply(testScenario())

	if got := page.labels[browser.SelectorModel]; got != "Gemma 3 27B" {
		t.Errorf("model label = %q, want site name %q", got, "Gemma 3 27B")
	}
	if got := page.labels[browser.SelectorQuantization]; got != "FP16" {
		t.Errorf("quantization label = %q, want %q", got, "FP16")
	}
	if got := page.values[browser.SelectorBatchSize]; got != 8 {
		t.Errorf("batch size = %d, want 8", got)
	}
	if got := page.values[browser.SelectorSequenceLength]; got != 16384 {
		t.Errorf("sequence length = %d, want token count 16384, not the label", got)
	}
	if got := page.values[browser.SelectorConcurrentUsers]; got != 4 {
		t.Errorf("concurrent users = %d, want 4", got)
	}
}

func TestApplyContinuesPastFailures(t *testing.T) {
	// Best-effort: a failed field never stops the remaining fields.
	page := newScriptedPage()
	page.failSelect[browser.SelectorModel] = true
	page.failSet[browser.SelectorBatchSize] = true

	a := NewApplier(page, page, "FP16")
	failures := a.Apply(testScenario())

	if failures != 2 {
		t.Errorf("failures = %d, want 2", failures)
	}
	if len(page.calls) != 6 {
		t.Errorf("applied %d fields, want all 6 despite failures", len(page.calls))
	}
}
