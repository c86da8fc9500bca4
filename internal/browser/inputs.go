/*
PURPOSE:
  Writes numeric values into the calculator's plain text inputs and
  toggles the page into Manual input mode.

REQUIREMENTS:
  User-specified:
  - Set batch size, sequence length, and concurrent users per scenario.

  Implementation-discovered:
  - The page recomputes only when it sees both an input and a change
    event after an insertText edit; a single event type is not enough.
  - Sliders clamp the reachable values, so the run flips the page to
    Manual mode once before collection.

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Uses: internal/output (logging), Evaluator (session.go)

ERROR HANDLING:
  - Missing input element: boolean failure, logged, run continues.

IMPLEMENTATION RULES:
  - Fixed OperationDelay after every write; the page offers no signal
    that its derived computation finished.

USAGE:
  v := browser.NewValueSetter(session, cfg.OperationDelay)
  ok := v.SetValue(browser.SelectorBatchSize, 4)

SELF-HEALING INSTRUCTIONS:
  - If values stop sticking, verify insertText still reaches the page's
    state (some frameworks need a keyboard event instead).

RELATED FILES:
  - internal/browser/session.go

MAINTENANCE:
  - Update the mode-toggle label match if the page renames the control.
*/

package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tugaytalha/vram-calculation-automation/internal/output"
)

// ValueSetter writes integers into plain (non-combo-box) text inputs.
type ValueSetter struct {
	exec           Evaluator
	OperationDelay time.Duration
}

// NewValueSetter returns a setter pacing itself by delay after each write.
func NewValueSetter(exec Evaluator, delay time.Duration) *ValueSetter {
	return &ValueSetter{exec: exec, OperationDelay: delay}
}

type setResult struct {
	Success  bool   `json:"success"`
	NotFound bool   `json:"notFound"`
	Value    string `json:"value"`
}

// SetValue writes value into the input behind selector and fires the
// input+change event pair the page needs to recompute. The input's final
// value equals the integer supplied on success.
func (v *ValueSetter) SetValue(selector string, value int) bool {
	var res setResult
	if err := v.exec.Evaluate(setValueScript(selector, value), &res); err != nil {
		output.Logger.Warn("Value set script failed", "selector", selector, "error", err)
		return false
	}

	time.Sleep(v.OperationDelay)

	if res.NotFound {
		output.Logger.Error("Input not found", "selector", selector)
		return false
	}
	if !res.Success {
		output.Logger.Warn("Failed to set input value", "selector", selector, "value", value)
		return false
	}
	return true
}

func setValueScript(selector string, value int) string {
	return fmt.Sprintf(`(() => {
	const input = document.querySelector(%s);
	if (!input) return { success: false, notFound: true };

	input.focus();
	input.select();
	document.execCommand('delete');
	document.execCommand('insertText', false, %s);

	input.dispatchEvent(new Event('input', { bubbles: true }));
	input.dispatchEvent(new Event('change', { bubbles: true }));
	input.blur();

	return { success: true, value: input.value };
})()`, strconv.Quote(selector), strconv.Quote(strconv.Itoa(value)))
}

// SwitchToManualMode flips the Slider/Manual toggle to Manual so the
// numeric inputs accept values beyond the slider ranges. Returns true if
// the page is in Manual mode afterwards (including already-was).
func SwitchToManualMode(exec Evaluator, delay time.Duration) bool {
	script := `(() => {
	const labels = Array.from(document.querySelectorAll('label'));
	const toggleLabel = labels.find(el =>
		el.textContent.includes('Manual') || el.textContent.includes('Slider')
	);

	if (toggleLabel) {
		const input = toggleLabel.querySelector('input');
		if (input && !input.checked) {
			input.click();
			return "Switched to Manual mode";
		} else if (input && input.checked) {
			return "Already in Manual mode";
		}
	}
	return "Toggle not found";
})()`

	var state string
	if err := exec.Evaluate(script, &state); err != nil {
		output.Logger.Warn("Mode toggle script failed", "error", err)
		return false
	}
	output.Logger.Info("Mode toggle", "state", state)
	time.Sleep(delay)

	return strings.Contains(state, "Manual") || strings.Contains(state, "Already")
}
