package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tlower/internal/bufferize"
	"github.com/roach88/tlower/internal/ir"
	"github.com/roach88/tlower/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Flags  analysisFlags
	DB     string
	Output string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <module.cue>",
		Short: "Resolve buffer conflicts by inserting copies",
		Long: `Compile a CUE tensor module, analyze buffer conflicts, insert the
copies needed to resolve them, and print the rewritten module.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.Flags)
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in a SQLite database at this path")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	m, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	runOpts, err := opts.Flags.resolve(cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	pass := bufferize.NewPassWithOptions(runOpts)
	if err := pass.Run(m); err != nil {
		if opts.DB != "" {
			if recErr := recordRun(cmd, opts.DB, path, runOpts, 0, err, nil, nil); recErr != nil {
				formatter.VerboseLog("recording failed run: %v", recErr)
			}
		}
		code := ErrCodeAnalysis
		if bufferize.IsResolveError(err) {
			code = ErrCodeResolve
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "conflict resolution failed", err)
	}

	copies := collectCopies(m)
	formatter.VerboseLog("Inserted %d cop(ies) into %s", len(copies), path)

	if opts.DB != "" {
		if err := recordRun(cmd, opts.DB, path, runOpts, len(copies), nil, nil, copies); err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error(), nil)
		}
	}

	text := ir.MarshalText(m)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, text, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"copies": copies,
			"module": string(text),
		})
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote rewritten module to %s\n", opts.Output)
		return nil
	}
	fmt.Fprint(formatter.Writer, string(text))
	return nil
}

// collectCopies scans the rewritten module for copy allocations. A copy is
// an alloc op with a source operand; plain allocs have none.
func collectCopies(m *ir.Operation) []store.CopyRecord {
	var copies []store.CopyRecord
	fn := ""

	ir.Walk(m, func(op *ir.Operation) ir.WalkAction {
		if op.Name == ir.FuncOpName {
			fn = op.SymName()
			return ir.WalkAdvance
		}
		if op.Name == bufferize.AllocOpName && len(op.Operands) > 0 && len(op.Results) > 0 {
			copies = append(copies, store.CopyRecord{
				FuncName: fn,
				Source:   op.Operands[0].Name,
				Result:   op.Results[0].Name,
			})
		}
		return ir.WalkAdvance
	})

	return copies
}
