package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tlower/internal/compiler"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <module.cue>",
		Short: "Validate a CUE module's structure",
		Long: `Compile a CUE tensor module and check it for structural problems:
non-func ops in the module body, duplicate func names, missing or
misplaced terminators, and out-of-scope operands.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	m, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	errs := compiler.Validate(m)
	if len(errs) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{"valid": true})
		}
		fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
		return nil
	}

	if formatter.Format == "json" {
		details := make([]compiler.ValidationError, len(errs))
		copy(details, errs)
		_ = formatter.Error(ErrCodeInvalidIR, fmt.Sprintf("validation failed with %d error(s)", len(errs)), details)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s is invalid\n\n", path)
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
	}

	// Validation failures are analysis-level failures (exit code 1)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
