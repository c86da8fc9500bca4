/*
PURPOSE:
  Defines the core data structures used throughout VRAM Runner.
  These models represent collection scenarios and extracted results.

REQUIREMENTS:
  User-specified:
  - Record model, quantization, batch size, context length, user count.
  - Record VRAM, per-user speed, and total throughput per scenario.

  Implementation-discovered:
  - Extracted metrics must distinguish "absent" from zero (pointer fields).
  - Scenario enumeration order must be stable for traceability.

ARCHITECTURE INTEGRATION:
  - Used by: internal/config, internal/browser, internal/collector, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Rows are append-only; never mutated after extraction.

USAGE:
  scenarios := model.EnumerateScenarios(models, batches, contexts, users)

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add a pointer field and update the writers.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/excel.go

MAINTENANCE:
  - Update when the calculator exposes new result fields.
*/

package model

// ModelSpec describes one model to collect data for.
// DisplayName is what we record in results; SiteName is what we type into
// the calculator's model dropdown (they differ when a model is a proxy).
type ModelSpec struct {
	DisplayName  string `yaml:"display_name"`
	SiteName     string `yaml:"site_name"`
	Quantization string `yaml:"quantization"`
}

// ContextLength pairs a token count (typed into the calculator) with the
// human-readable label recorded in results.
type ContextLength struct {
	Tokens int    `yaml:"tokens"`
	Label  string `yaml:"label"`
}

// Scenario is one point in the cross product of collection parameters.
// Immutable once constructed.
type Scenario struct {
	Model     ModelSpec
	BatchSize int
	Context   ContextLength
	Users     int
}

// Extraction holds the metrics parsed from the calculator's results panel.
// A nil field means the corresponding pattern was not found in the panel
// text; partial extraction is expected, not an error.
type Extraction struct {
	VRAMGB          *float64 `json:"vram_gb"`
	TokensPerUser   *float64 `json:"tokens_per_user"`
	TotalThroughput *float64 `json:"total_throughput"`
}

// Row is one scenario's inputs plus its extracted outputs. Rows are
// positionally independent; the collection order mirrors scenario order.
type Row struct {
	Model           string   `json:"model"`
	Quantization    string   `json:"quantization"`
	BatchSize       int      `json:"batch_size"`
	ContextLength   string   `json:"context_length"`
	ConcurrentUsers int      `json:"concurrent_users"`
	VRAMGB          *float64 `json:"vram_gb"`
	TokensPerUser   *float64 `json:"tokens_per_user"`
	TotalThroughput *float64 `json:"total_throughput"`
}

// NewRow combines a scenario with its extraction result.
func NewRow(sc Scenario, ex Extraction) Row {
	return Row{
		Model:           sc.Model.DisplayName,
		Quantization:    sc.Model.Quantization,
		BatchSize:       sc.BatchSize,
		ContextLength:   sc.Context.Label,
		ConcurrentUsers: sc.Users,
		VRAMGB:          ex.VRAMGB,
		TokensPerUser:   ex.TokensPerUser,
		TotalThroughput: ex.TotalThroughput,
	}
}

// EnumerateScenarios expands the configuration lists into the full cross
// product, in models -> batch sizes -> context lengths -> users order.
// len(result) is always the product of the four list lengths.
func EnumerateScenarios(models []ModelSpec, batchSizes []int, contexts []ContextLength, users []int) []Scenario {
	scenarios := make([]Scenario, 0, len(models)*len(batchSizes)*len(contexts)*len(users))
	for _, m := range models {
		for _, bs := range batchSizes {
			for _, ctx := range contexts {
				for _, u := range users {
					scenarios = append(scenarios, Scenario{
						Model:     m,
						BatchSize: bs,
						Context:   ctx,
						Users:     u,
					})
				}
			}
		}
	}
	return scenarios
}
