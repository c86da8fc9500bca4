package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tugaytalha/vram-calculation-automation/internal/config"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenarios a run would collect",
	Long:  `Prints the enumerated cross product of models, batch sizes, context lengths, and concurrent-user counts, without touching a browser. Useful for sizing a run before starting it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		scenarios := cfg.Scenarios()
		for i, sc := range scenarios {
			fmt.Printf("%4d. %s  quant=%s  batch=%d  ctx=%s  users=%d\n",
				i+1, sc.Model.DisplayName, sc.Model.Quantization, sc.BatchSize, sc.Context.Label, sc.Users)
		}
		fmt.Printf("\n%d scenarios (%d models x %d batch sizes x %d context lengths x %d user counts)\n",
			len(scenarios), len(cfg.Models), len(cfg.BatchSizes), len(cfg.ContextLengths), len(cfg.ConcurrentUsers))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
