package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tlower/internal/bufferize"
	"github.com/roach88/tlower/internal/ir"
	"github.com/roach88/tlower/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Flags analysisFlags
	DB    string // optional run log database
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <module.cue>",
		Short: "Analyze buffer conflicts without rewriting",
		Long: `Run conflict analysis over a compiled module and report the
out-of-place verdict for every tensor operand. The module is not modified.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.Flags)
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in a SQLite database at this path")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, path string, cmd *cobra.Command) error {
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

	analysisOpts, err := opts.Flags.resolve(cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	analysisOpts.TestAnalysisOnly = true

	state, err := analyze(m, analysisOpts)
	if err != nil {
		if opts.DB != "" {
			if recErr := recordRun(cmd, opts.DB, path, analysisOpts, 0, err, nil, nil); recErr != nil {
				formatter.VerboseLog("recording failed run: %v", recErr)
			}
		}
		_ = formatter.Error(ErrCodeAnalysis, err.Error(), nil)
		return WrapExitError(ExitFailure, "analysis failed", err)
	}

	verdicts := bufferize.CollectVerdicts(m, state)
	formatter.VerboseLog("Analyzed %s: %d tensor operand(s)", path, len(verdicts))

	if opts.DB != "" {
		if err := recordRun(cmd, opts.DB, path, analysisOpts, 0, nil, verdicts, nil); err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error(), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"verdicts": verdicts})
	}

	outOfPlace := 0
	for _, v := range verdicts {
		marker := "in-place"
		if v.OutOfPlace {
			marker = "OUT-OF-PLACE"
			outOfPlace++
		}
		fmt.Fprintf(formatter.Writer, "%s: %s operand %d (%s): %s\n",
			v.Func, v.Op, v.Operand, v.Value, marker)
	}
	fmt.Fprintf(formatter.Writer, "\n%d operand(s) analyzed, %d out-of-place\n", len(verdicts), outOfPlace)
	return nil
}

// analyze runs the right analysis entry point for the options.
func analyze(m *ir.Operation, opts bufferize.Options) (*bufferize.State, error) {
	if opts.BufferizeFunctionBoundaries {
		return bufferize.AnalyzeModule(m, opts)
	}
	return bufferize.AnalyzeOp(m, opts)
}

// recordRun persists one run and its artifacts to the run log database.
func recordRun(cmd *cobra.Command, dbPath, moduleName string, opts bufferize.Options, numCopies int, runErr error, verdicts []bufferize.Verdict, copies []store.CopyRecord) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	run := store.RunRecord{
		ID:         store.NewRunID(),
		ModuleName: moduleName,
		Options:    opts,
		Status:     store.StatusOK,
		Copies:     numCopies,
	}
	if runErr != nil {
		run.Status = store.StatusFailed
		run.Error = runErr.Error()
	}

	if err := s.WriteRun(ctx, run); err != nil {
		return err
	}
	if len(verdicts) > 0 {
		if err := s.WriteVerdicts(ctx, run.ID, verdicts); err != nil {
			return err
		}
	}
	if len(copies) > 0 {
		if err := s.WriteCopies(ctx, run.ID, copies); err != nil {
			return err
		}
	}
	return nil
}
