/*
PURPOSE:
  Extracts VRAM, total throughput, and per-user speed from the
  calculator's rendered results panel.

REQUIREMENTS:
  User-specified:
  - Parse "N.NN GB of ...", "Total Throughput: ~N tok/s", and
    "Per-User Speed: ~N tok/s" from the panel text.

  Implementation-discovered:
  - The site sometimes labels per-user speed "Generation Speed".
  - Figures may use a comma decimal separator.
  - Any field can be missing; record it as absent, never fail the row.

ARCHITECTURE INTEGRATION:
  - Called by: internal/collector
  - Produces: internal/model.Extraction

ERROR HANDLING:
  - Extract never errors; unmatched patterns yield nil fields.
  - Panel-not-found is a boolean so the collector can log it and still
    record the (empty) row.

IMPLEMENTATION RULES:
  - Extract is a pure function over text. The page coupling (heading
    lookup, innerText fetch) stays in ResultsPanelText so the patterns
    are unit-testable against captured fixtures.

USAGE:
  text, ok := browser.ResultsPanelText(session)
  ex := browser.Extract(text)

SELF-HEALING INSTRUCTIONS:
  - When the site rewords its panel, refresh the fixtures in
    extract_test.go from the live page and adjust the patterns.

RELATED FILES:
  - internal/browser/extract_test.go
  - internal/model/types.go

MAINTENANCE:
  - The three patterns below are the only coupling to the panel wording.
*/

package browser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
	"github.com/Tugaytalha/vram-calculation-automation/internal/output"
)

// ResultsHeading identifies the results panel on the page.
const ResultsHeading = "Performance & Memory Results"

var (
	vramPattern       = regexp.MustCompile(`(?i)(\d+[.,]\d+)\s*GB\s*of`)
	throughputPattern = regexp.MustCompile(`(?i)Total Throughput:\s*~?(\d+(?:[.,]\d+)?)\s*tok/s`)
	perUserPattern    = regexp.MustCompile(`(?i)Per-User Speed:\s*~?(\d+(?:[.,]\d+)?)\s*tok/s`)
	genSpeedPattern   = regexp.MustCompile(`(?i)Generation Speed:\s*~?(\d+(?:[.,]\d+)?)\s*tok/s`)
)

// Extract parses the three result metrics out of panel text. Unmatched
// fields come back nil. Pure function; no browser involved.
func Extract(text string) model.Extraction {
	ex := model.Extraction{
		VRAMGB:          matchFloat(vramPattern, text),
		TotalThroughput: matchFloat(throughputPattern, text),
		TokensPerUser:   matchFloat(perUserPattern, text),
	}
	if ex.TokensPerUser == nil {
		ex.TokensPerUser = matchFloat(genSpeedPattern, text)
	}
	return ex
}

func matchFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

type panelResult struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

// ResultsPanelText locates the results panel by its heading and returns
// the rendered text of its container. ok is false when the heading is
// not on the page (the caller records the row with absent metrics).
func ResultsPanelText(exec Evaluator) (string, bool) {
	script := `(() => {
	const headers = document.querySelectorAll('p, h1, h2, h3, h4, span, div');
	for (const h of headers) {
		if (h.textContent.trim() === '` + ResultsHeading + `') {
			return { found: true, text: h.parentElement.innerText };
		}
	}
	return { found: false, text: "" };
})()`

	var res panelResult
	if err := exec.Evaluate(script, &res); err != nil {
		output.Logger.Warn("Results panel script failed", "error", err)
		return "", false
	}
	if !res.Found {
		output.Logger.Warn("Results panel heading not found", "heading", ResultsHeading)
		return "", false
	}
	return res.Text, true
}

// Verification is the page's own read-back of the applied configuration,
// used for logging so misapplied scenarios are visible in the run log.
type Verification struct {
	DisplayBatch int    `json:"display_batch"`
	DisplayUsers int    `json:"display_users"`
	InputModel   string `json:"input_model"`
	InputBatch   string `json:"input_batch"`
	InputSeq     string `json:"input_seq"`
	InputUsers   string `json:"input_users"`
}

// VerifyConfiguration reads the summary line and raw input values back
// out of the page.
func VerifyConfiguration(exec Evaluator) (Verification, bool) {
	script := `(() => {
	const body = document.body.innerText;
	const batchMatch = body.match(/Batch:\s*(\d+)/);
	const usersMatch = body.match(/Users:\s*(\d+)/);

	const batchInput = document.querySelector('` + SelectorBatchSize + `');
	const seqInput = document.querySelector('` + SelectorSequenceLength + `');
	const usersInput = document.querySelector('` + SelectorConcurrentUsers + `');
	const modelInput = document.querySelector('` + SelectorModel + `');

	return {
		display_batch: batchMatch ? parseInt(batchMatch[1]) : 0,
		display_users: usersMatch ? parseInt(usersMatch[1]) : 0,
		input_model: modelInput ? modelInput.value : "",
		input_batch: batchInput ? batchInput.value : "",
		input_seq: seqInput ? seqInput.value : "",
		input_users: usersInput ? usersInput.value : ""
	};
})()`

	var v Verification
	if err := exec.Evaluate(script, &v); err != nil {
		output.Logger.Warn("Configuration verification failed", "error", err)
		return Verification{}, false
	}
	return v, true
}
