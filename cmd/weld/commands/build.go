package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/weld/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every module of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("spec", false, "Append the spec modules after the application modules")
	cmd.Flags().IntP("jobs", "j", 0, "Number of concurrent job slots (default: one per CPU)")
	cmd.Flags().StringArray("arch", nil, "Target architecture, repeat for a fat object (overrides the configuration)")
	cmd.Flags().Bool("keep-temps", false, "Keep the intermediate assembly or bitcode files")
	cmd.Flags().Bool("deterministic-symbols", false, "Derive entry symbols from module paths")
	cmd.Flags().String("staleness", "", "Rebuild decision: mtime or hash (default: from configuration)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

func buildOptions(cmd *cobra.Command) app.BuildOptions {
	spec, _ := cmd.Flags().GetBool("spec")
	jobs, _ := cmd.Flags().GetInt("jobs")
	archs, _ := cmd.Flags().GetStringArray("arch")
	keepTemps, _ := cmd.Flags().GetBool("keep-temps")
	deterministic, _ := cmd.Flags().GetBool("deterministic-symbols")
	staleness, _ := cmd.Flags().GetString("staleness")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.BuildOptions{
		Spec:                 spec,
		Jobs:                 jobs,
		Archs:                archs,
		KeepTemps:            keepTemps,
		DeterministicSymbols: deterministic,
		Staleness:            staleness,
		OutputMode:           outputMode,
	}
}
