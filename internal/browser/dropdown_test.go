package browser

import (
	"errors"
	"strings"
	"testing"
)

// fakeComboPage scripts the page's side of the selection protocol: typing
// may or may not register, and the filtered option list renders only
// after a configurable number of polls.
type fakeComboPage struct {
	optionText  string
	appearAfter int // polls that see no options before the list renders; -1 = never
	inputAbsent bool
	deafTypes   int // initial type attempts the page does not register

	typeCalls int
	pollCalls int
	clicked   string
	evalErr   error
}

func (f *fakeComboPage) Evaluate(script string, out any) error {
	if f.evalErr != nil {
		return f.evalErr
	}
	switch res := out.(type) {
	case *typeResult:
		f.typeCalls++
		if f.inputAbsent {
			*res = typeResult{NotFound: true}
			return nil
		}
		if f.typeCalls <= f.deafTypes {
			*res = typeResult{Success: false}
			return nil
		}
		*res = typeResult{Success: true}
	case *clickResult:
		f.pollCalls++
		if f.appearAfter >= 0 && f.pollCalls > f.appearAfter {
			f.clicked = f.optionText
			*res = clickResult{Success: true, Selected: f.optionText}
			return nil
		}
		*res = clickResult{Success: false}
	default:
		return errors.New("unexpected script result type")
	}
	return nil
}

// newTestSelector returns a selector with zero delays so retry/poll
// exhaustion tests run instantly.
func newTestSelector(exec Evaluator) *DropdownSelector {
	return &DropdownSelector{
		exec:         exec,
		PollAttempts: 10,
		MaxRetries:   3,
	}
}

func TestSelectClicksOptionOnFirstPoll(t *testing.T) {
	page := &fakeComboPage{optionText: "Qwen3-32B", appearAfter: 0}
	d := newTestSelector(page)

	if !d.Select(SelectorModel, "Qwen3-32B") {
		t.Fatal("Select should succeed when the option is rendered")
	}
	if page.typeCalls != 1 {
		t.Errorf("typeCalls = %d, want 1 (no retry needed)", page.typeCalls)
	}
	if page.clicked != "Qwen3-32B" {
		t.Errorf("clicked = %q, want %q", page.clicked, "Qwen3-32B")
	}
}

func TestSelectWaitsForAsyncOptionList(t *testing.T) {
	// The option list renders only on the fifth poll, well inside the
	// polling window.
	page := &fakeComboPage{optionText: "Gemma 3 27B", appearAfter: 4}
	d := newTestSelector(page)

	if !d.Select(SelectorModel, "Gemma 3 27B") {
		t.Fatal("Select should succeed once the option renders within the window")
	}
	if page.pollCalls != 5 {
		t.Errorf("pollCalls = %d, want 5", page.pollCalls)
	}
	if page.typeCalls != 1 {
		t.Errorf("typeCalls = %d, want 1", page.typeCalls)
	}
}

func TestSelectExhaustsRetryCeilingExactly(t *testing.T) {
	page := &fakeComboPage{optionText: "never-rendered", appearAfter: -1}
	d := newTestSelector(page)

	if d.Select(SelectorQuantization, "Q8") {
		t.Fatal("Select should fail when the option never renders")
	}
	// Exactly the configured ceiling: not more, not fewer.
	if page.typeCalls != d.MaxRetries {
		t.Errorf("typeCalls = %d, want %d", page.typeCalls, d.MaxRetries)
	}
	if want := d.MaxRetries * d.PollAttempts; page.pollCalls != want {
		t.Errorf("pollCalls = %d, want %d", page.pollCalls, want)
	}
}

func TestSelectFailsFastWhenInputMissing(t *testing.T) {
	page := &fakeComboPage{inputAbsent: true}
	d := newTestSelector(page)

	if d.Select(SelectorKVCache, "FP16") {
		t.Fatal("Select should fail when the input element is absent")
	}
	// Locator failure is not retryable: one attempt, no polling.
	if page.typeCalls != 1 {
		t.Errorf("typeCalls = %d, want 1", page.typeCalls)
	}
	if page.pollCalls != 0 {
		t.Errorf("pollCalls = %d, want 0", page.pollCalls)
	}
}

func TestSelectRetriesWholeCycleWhenTypingDoesNotRegister(t *testing.T) {
	// First keystroke simulation never reaches the page's listeners; the
	// retry must redo the typing, not just keep polling.
	page := &fakeComboPage{optionText: "H200 (141GB)", appearAfter: 0, deafTypes: 1}
	d := newTestSelector(page)

	if !d.Select(SelectorHardware, "H200") {
		t.Fatal("Select should succeed on the second type cycle")
	}
	if page.typeCalls != 2 {
		t.Errorf("typeCalls = %d, want 2", page.typeCalls)
	}
}

func TestSelectReportsFailureOnEvaluateError(t *testing.T) {
	page := &fakeComboPage{evalErr: errors.New("target closed")}
	d := newTestSelector(page)

	if d.Select(SelectorModel, "Qwen3-32B") {
		t.Fatal("Select should fail when script evaluation errors")
	}
}

func TestTypeScriptQuotesLabel(t *testing.T) {
	script := typeScript(SelectorModel, `FP16 / BF16 (Default)`)
	if !strings.Contains(script, `"FP16 / BF16 (Default)"`) {
		t.Errorf("label not quoted into script:\n%s", script)
	}
	if !strings.Contains(script, "insertText") {
		t.Errorf("script must type via insertText:\n%s", script)
	}
}
