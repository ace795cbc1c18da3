package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tlower/internal/bufferize"
)

// analysisFlags holds the per-command flags that feed bufferize.Options.
// An options file provides the base values; explicitly set flags win.
type analysisFlags struct {
	OptionsFile        string
	AllowReturnAllocs  bool
	FunctionBoundaries bool
	CreateDeallocs     bool
}

// addAnalysisFlags registers the shared analysis flags on a command.
func addAnalysisFlags(cmd *cobra.Command, f *analysisFlags) {
	cmd.Flags().StringVar(&f.OptionsFile, "options", "", "YAML file with analysis options")
	cmd.Flags().BoolVar(&f.AllowReturnAllocs, "allow-return-allocs", false, "permit returning tensors that bufferize to new allocations")
	cmd.Flags().BoolVar(&f.FunctionBoundaries, "function-boundaries", false, "bufferize across function boundaries (module-wide analysis)")
	cmd.Flags().BoolVar(&f.CreateDeallocs, "create-deallocs", true, "emit deallocations for non-escaping buffers")
}

// resolve merges the options file (if any) with explicitly set flags.
func (f *analysisFlags) resolve(cmd *cobra.Command) (bufferize.Options, error) {
	opts := bufferize.DefaultOptions()

	if f.OptionsFile != "" {
		loaded, err := LoadOptions(f.OptionsFile)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	if cmd.Flags().Changed("allow-return-allocs") {
		opts.AllowReturnAllocs = f.AllowReturnAllocs
	}
	if cmd.Flags().Changed("function-boundaries") {
		opts.BufferizeFunctionBoundaries = f.FunctionBoundaries
	}
	if cmd.Flags().Changed("create-deallocs") {
		opts.CreateDeallocs = f.CreateDeallocs
	}

	return opts, nil
}
