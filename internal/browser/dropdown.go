/*
PURPOSE:
  Implements the combo-box selection protocol: type into a searchable
  dropdown, wait for the asynchronously filtered option list to render,
  click the matching option, retrying the whole cycle on failure.

REQUIREMENTS:
  User-specified:
  - Select model/quantization/KV-cache/hardware options by visible label.

  Implementation-discovered:
  - The option list does not exist in the DOM until the input value
    changes and the page re-renders; a single query right after typing
    races the re-render. Bounded polling is required.
  - Synthetic value assignment alone does not trigger the page's
    filtering; insertText plus a bubbling input event does.
  - A keystroke simulation can fail to register at all, so the retry
    wraps the whole type-then-poll cycle, not just the poll.

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Uses: internal/output (logging), Evaluator (session.go)

ERROR HANDLING:
  - Missing input element: fails the call immediately (locator failure,
    not retryable).
  - Option never rendered: retried up to MaxRetries, then reported as
    failure. Failures are booleans, not errors; the run continues.

IMPLEMENTATION RULES:
  - All loop bounds (poll attempts, poll interval, retry ceiling, retry
    delay) are named fields fed from config, never literals.
  - First option in document order whose text contains the label wins.
    Callers must pass labels specific enough to disambiguate (e.g.
    "Qwen3-30B-A3B" also contains "Qwen3-30B").

USAGE:
  d := browser.NewDropdownSelector(session, cfg)
  ok := d.Select(browser.SelectorModel, "Qwen3-32B")

SELF-HEALING INSTRUCTIONS:
  - If selections stop landing, check the option selector list
    (.mantine-Select-option / [role="option"]) against the live page.

RELATED FILES:
  - internal/browser/session.go
  - internal/config/config.go

MAINTENANCE:
  - Update optionQuery if the site swaps its component library.
*/

package browser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Tugaytalha/vram-calculation-automation/internal/config"
	"github.com/Tugaytalha/vram-calculation-automation/internal/output"
)

// optionQuery matches rendered dropdown options. The site is built on
// Mantine; [role="option"] is the fallback if that changes.
const optionQuery = `.mantine-Select-option, [role="option"]`

// DropdownSelector drives searchable combo-boxes on the calculator page.
type DropdownSelector struct {
	exec Evaluator

	// PollAttempts polls of PollInterval bound the wait for the filtered
	// option list; MaxRetries full type-then-poll cycles bound the call.
	PollAttempts   int
	PollInterval   time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	OperationDelay time.Duration
}

// NewDropdownSelector wires a selector with the configured protocol bounds.
func NewDropdownSelector(exec Evaluator, cfg *config.Config) *DropdownSelector {
	return &DropdownSelector{
		exec:           exec,
		PollAttempts:   cfg.DropdownPollAttempts,
		PollInterval:   cfg.DropdownPollInterval,
		MaxRetries:     cfg.DropdownMaxRetries,
		RetryDelay:     cfg.DropdownRetryDelay,
		OperationDelay: cfg.OperationDelay,
	}
}

type typeResult struct {
	Success  bool   `json:"success"`
	NotFound bool   `json:"notFound"`
	Typed    string `json:"typed"`
}

type clickResult struct {
	Success     bool   `json:"success"`
	Selected    string `json:"selected"`
	OptionCount int    `json:"optionCount"`
}

// Select types label into the combo-box behind selector, waits for the
// filtered option list, and clicks the first option whose text contains
// label. Returns false once the retry ceiling is exhausted or the input
// element is missing.
func (d *DropdownSelector) Select(selector, label string) bool {
	for attempt := 0; attempt < d.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.RetryDelay)
			output.Logger.Info("Retrying dropdown selection...", "label", label, "attempt", attempt+1)
		}

		var typed typeResult
		if err := d.exec.Evaluate(typeScript(selector, label), &typed); err != nil {
			output.Logger.Warn("Dropdown type script failed", "selector", selector, "error", err)
			continue
		}
		if typed.NotFound {
			// Locator failure, not a timing failure. Retrying cannot help.
			output.Logger.Error("Dropdown input not found", "selector", selector)
			return false
		}
		if !typed.Success {
			output.Logger.Warn("Failed to type into dropdown", "selector", selector, "label", label)
			continue
		}

		for poll := 0; poll < d.PollAttempts; poll++ {
			time.Sleep(d.PollInterval)

			var clicked clickResult
			if err := d.exec.Evaluate(clickOptionScript(label), &clicked); err != nil {
				output.Logger.Warn("Dropdown poll script failed", "label", label, "error", err)
				continue
			}
			if clicked.Success {
				output.Logger.Info("Selected dropdown option", "label", label, "option", clicked.Selected)
				time.Sleep(d.OperationDelay)
				return true
			}
		}

		output.Logger.Warn("Option not rendered within polling window", "label", label, "attempt", attempt+1)
	}

	output.Logger.Error("Failed to select dropdown option", "label", label, "attempts", d.MaxRetries)
	return false
}

// typeScript clears the input and types label as a user would.
// execCommand('insertText') plus the bubbling input event is what the
// page's reactive filtering actually listens for.
func typeScript(selector, label string) string {
	return fmt.Sprintf(`(() => {
	const input = document.querySelector(%s);
	if (!input) return { success: false, notFound: true };

	input.click();
	input.focus();
	input.select();
	document.execCommand('delete');
	document.execCommand('insertText', false, %s);
	input.dispatchEvent(new Event('input', { bubbles: true }));

	return { success: true, typed: %s };
})()`, strconv.Quote(selector), strconv.Quote(label), strconv.Quote(label))
}

// clickOptionScript clicks the first rendered option containing label.
func clickOptionScript(label string) string {
	return fmt.Sprintf(`(() => {
	const options = document.querySelectorAll(%s);
	for (const opt of options) {
		const text = opt.textContent.trim();
		if (text.includes(%s)) {
			opt.click();
			return { success: true, selected: text };
		}
	}
	return { success: false, optionCount: options.length };
})()`, strconv.Quote(optionQuery), strconv.Quote(label))
}
