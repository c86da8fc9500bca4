/*
PURPOSE:
  Defines the configuration structure and loading logic for VRAM Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of models, batch sizes, context lengths, user counts.
  - Allow tuning of the UI pacing delays and dropdown retry bounds.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Poll/retry bounds must be named config knobs, not magic numbers.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/browser, internal/collector
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing file falls back to defaults (the defaults are a complete,
    runnable collection plan).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults mirror the collection plan the tool was built for
    (apxml.com VRAM calculator, H200 hardware).

USAGE:
  cfg, err := config.Load("vram_runner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update Default() too.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update defaults when the collection plan changes.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tugaytalha/vram-calculation-automation/internal/model"
)

// Config represents the full configuration for VRAM Runner.
type Config struct {
	// CalculatorURL is the page the browser session navigates to.
	CalculatorURL string `yaml:"calculator_url"`
	// Headless runs Chrome without a visible window.
	Headless bool `yaml:"headless"`

	// Hardware is selected once per run (the dropdown accepts a substring
	// of the option text, e.g. "H200").
	Hardware string `yaml:"hardware"`
	// KVCacheQuantization is typed into the KV cache dropdown. "FP16"
	// matches the site's "FP16 / BF16 (Default)" option by substring.
	KVCacheQuantization string `yaml:"kv_cache_quantization"`

	Models          []model.ModelSpec     `yaml:"models"`
	BatchSizes      []int                 `yaml:"batch_sizes"`
	ContextLengths  []model.ContextLength `yaml:"context_lengths"`
	ConcurrentUsers []int                 `yaml:"concurrent_users"`

	OutputDir string `yaml:"output_dir"`
	// OutputFile is the xlsx filename; empty means a timestamped name.
	// The CSV backup uses the same base name.
	OutputFile string `yaml:"output_file"`

	// Pacing. The host page is reactive and gives no completion signal,
	// so every UI-affecting step waits out a fixed delay.
	OperationDelay    time.Duration `yaml:"operation_delay"`
	PageLoadDelay     time.Duration `yaml:"page_load_delay"`
	ResultSettleDelay time.Duration `yaml:"result_settle_delay"`
	ScenarioDelay     time.Duration `yaml:"scenario_delay"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	// Dropdown selection protocol bounds.
	DropdownPollAttempts int           `yaml:"dropdown_poll_attempts"`
	DropdownPollInterval time.Duration `yaml:"dropdown_poll_interval"`
	DropdownMaxRetries   int           `yaml:"dropdown_max_retries"`
	DropdownRetryDelay   time.Duration `yaml:"dropdown_retry_delay"`
}

// Default returns the default configuration: the full collection plan
// against the apxml.com calculator on H200 hardware.
func Default() *Config {
	return &Config{
		CalculatorURL:       "https://apxml.com/tools/vram-calculator",
		Headless:            false,
		Hardware:            "H200 (141GB)",
		KVCacheQuantization: "FP16",
		Models: []model.ModelSpec{
			{DisplayName: "qwen3:32b-q8_0", SiteName: "Qwen3-32B", Quantization: "Q8"},
			{DisplayName: "Gemma-3-27B-IT (FP16)", SiteName: "Gemma 3 27B", Quantization: "FP16"},
			// Qwen2.5-14B stands in for Think2SQL-14B (not listed on the site).
			{DisplayName: "Think2SQL-14B (FP16)", SiteName: "Qwen2.5-14B", Quantization: "FP16"},
			{DisplayName: "Qwen3-30B-A3B (Q8)", SiteName: "Qwen3-30B-A3B", Quantization: "Q8"},
		},
		BatchSizes: []int{1, 4, 8},
		ContextLengths: []model.ContextLength{
			{Tokens: 2048, Label: "2K"},
			{Tokens: 4096, Label: "4K"},
			{Tokens: 8192, Label: "8K"},
			{Tokens: 16384, Label: "16K"},
			{Tokens: 32768, Label: "32K"},
		},
		ConcurrentUsers: []int{1, 4, 8, 16, 64},

		OutputDir:  ".",
		OutputFile: "",

		OperationDelay:    500 * time.Millisecond,
		PageLoadDelay:     3 * time.Second,
		ResultSettleDelay: 1500 * time.Millisecond,
		ScenarioDelay:     200 * time.Millisecond,
		NavigationTimeout: 30 * time.Second,

		DropdownPollAttempts: 10,
		DropdownPollInterval: 100 * time.Millisecond,
		DropdownMaxRetries:   3,
		DropdownRetryDelay:   300 * time.Millisecond,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := Default()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		// Search for defaults
		defaults := []string{"vram_runner.yaml", "vram-runner.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			// No config file found, return default
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Scenarios expands the configured lists into the full cross product.
func (c *Config) Scenarios() []model.Scenario {
	return model.EnumerateScenarios(c.Models, c.BatchSizes, c.ContextLengths, c.ConcurrentUsers)
}
