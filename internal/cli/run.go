/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full collection suite.

REQUIREMENTS:
  User-specified:
  - Run the collection.
  - Specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/collector.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or the collection run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Collector.Run.

USAGE:
  vram-runner run --headless -o ./results

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/Tugaytalha/vram-calculation-automation/internal/collector"
	"github.com/Tugaytalha/vram-calculation-automation/internal/config"
)

var (
	headlessOverride bool
	urlOverride      string
	outputOverride   string
	outputFileFlag   string
	hardwareOverride string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the collection suite",
	Long: `Executes the full data collection against the VRAM calculator.
The process follows a strict protocol:
1. Setup: Starts Chrome, loads the calculator, switches to manual input mode,
   and selects the hardware once.
2. Collection: Iterates the cross product of models, batch sizes, context
   lengths, and concurrent-user counts; applies each configuration and scrapes
   the results panel. Per-field failures are logged and recorded as missing
   data, never aborting the run.
3. Export: Streams every row to a CSV backup as it is collected and saves the
   xlsx workbook at the end. Ctrl-C flushes partial results before exiting.`,
	Example: `  # Run with defaults (uses vram_runner.yaml if present)
  vram-runner run

  # Headless collection into a results directory
  vram-runner run --headless -o ./results

  # Target a different calculator deployment or hardware
  vram-runner run --url https://apxml.com/tools/vram-calculator --hardware "H100 (80GB)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		if cmd.Flags().Changed("headless") {
			cfg.Headless = headlessOverride
		}
		if urlOverride != "" {
			cfg.CalculatorURL = urlOverride
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if outputFileFlag != "" {
			cfg.OutputFile = outputFileFlag
		}
		if hardwareOverride != "" {
			cfg.Hardware = hardwareOverride
		}

		// 3. Execution
		return collector.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&headlessOverride, "headless", false, "Run Chrome without a visible window")
	runCmd.Flags().StringVar(&urlOverride, "url", "", "Calculator URL (overrides config)")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (xlsx/CSV)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "xlsx filename (default is timestamped)")
	runCmd.Flags().StringVar(&hardwareOverride, "hardware", "", "Hardware option label to select once per run")
}
