package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tlower/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <module.cue>",
		Short: "Compile a CUE module to canonical IR",
		Long: `Compile a CUE tensor module to the canonical IR text form.

The compiler parses the CUE file, resolves value references, and prints
the module in its deterministic text rendering.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	m, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	funcs := m.Body().Ops()
	formatter.VerboseLog("Compiled %d func(s) from %s", len(funcs), path)

	text := ir.MarshalText(m)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, text, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.Format == "json" {
		funcNames := make([]string, 0, len(funcs))
		for _, f := range funcs {
			funcNames = append(funcNames, f.SymName())
		}
		return formatter.Success(map[string]any{
			"funcs":  funcNames,
			"module": string(text),
		})
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical IR to %s\n", opts.Output)
		return nil
	}
	fmt.Fprint(formatter.Writer, string(text))
	return nil
}

// outputLoadError reports a load/compile failure with its source position.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if formatter.Format != "json" && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
}

// outputCommandError outputs a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
