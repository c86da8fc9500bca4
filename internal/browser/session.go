/*
PURPOSE:
  Owns the Chrome session for a collection run.
  Handles browser startup, navigation, in-page script evaluation, teardown.

REQUIREMENTS:
  User-specified:
  - Headless or visible operation.
  - Single shared session; must be released on all exit paths.

  Implementation-discovered:
  - chromedp drives Chrome over the DevTools protocol directly, no
    external driver binary (unlike Selenium).
  - The calculator gives no load event we can trust; wait for the model
    input to become visible, then a fixed settle delay.

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Uses: internal/output
  - Dependencies: github.com/chromedp/chromedp

ERROR HANDLING:
  - NewSession fails fast if Chrome cannot start.
  - Err() exposes session loss so the collector can abort and flush.

IMPLEMENTATION RULES:
  - Derive the tab context from the caller's context so an interrupt
    cancels in-flight browser work too.
  - All page interaction goes through Evaluate; selectors live here so
    the coupling to the third-party page stays in one package.

USAGE:
  s, err := browser.NewSession(ctx, cfg.Headless)
  defer s.Close()
  err = s.Navigate(url, browser.SelectorModel, timeout, settle)

SELF-HEALING INSTRUCTIONS:
  - If Chrome fails to start under Docker, check the no-sandbox and
    disable-dev-shm-usage flags are still applied.

RELATED FILES:
  - internal/browser/dropdown.go
  - internal/browser/extract.go

MAINTENANCE:
  - Update selectors when the calculator page changes.
*/

package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Placeholder-based selectors for the calculator's inputs. Placeholders
// are the most stable hook the page offers; element paths churn on every
// re-render.
const (
	SelectorModel           = `input[placeholder="Choose a model"]`
	SelectorQuantization    = `input[placeholder="Select quantization"]`
	SelectorKVCache         = `input[placeholder="Select KV cache precision"]`
	SelectorHardware        = `input[placeholder="Select Hardware"]`
	SelectorBatchSize       = `input[placeholder="Enter batch size"]`
	SelectorSequenceLength  = `input[placeholder="Enter sequence length"]`
	SelectorConcurrentUsers = `input[placeholder="Enter number of concurrent users"]`
)

// Evaluator runs a script in the page and unmarshals its return value.
// It is the seam between the interaction protocols and chromedp; tests
// substitute a scripted fake.
type Evaluator interface {
	Evaluate(script string, out any) error
}

// Session is the explicitly owned browser handle. One per run.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession starts Chrome and opens the tab used for the whole run.
// The session inherits parent's cancellation.
func NewSession(parent context.Context, headless bool) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Run a no-op so startup failures surface here, not on first use.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{ctx: ctx, cancel: cancel, allocCancel: allocCancel}, nil
}

// Navigate loads the page and blocks until readySelector is visible,
// then waits out settle for the client-side app to hydrate.
func (s *Session) Navigate(url, readySelector string, timeout, settle time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	time.Sleep(settle)
	return nil
}

// Evaluate runs script in the page and unmarshals the result into out.
func (s *Session) Evaluate(script string, out any) error {
	return chromedp.Run(s.ctx, chromedp.Evaluate(script, out))
}

// Err reports whether the session has been lost (browser crash, tab
// closed, or cancellation). Non-nil is fatal to the run.
func (s *Session) Err() error {
	return s.ctx.Err()
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}
