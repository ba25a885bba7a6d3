package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewConvertCmd creates a new convert command
func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun       bool
		backup       bool
		passes       int
		workers      int
		reportFile   string
		showResidual bool
		showSkipped  bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite target script text in place using the dictionaries",
		Long: `Convert walks the configured root and rewrites every selected file.
It will:
1. Merge the dictionaries into one ordered rule set
2. Skip files without any target script character
3. Apply the rule set up to max_passes times per file
4. Write changed files atomically (unless --dry-run)
5. Report lines that still contain target script`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "convert").Logger().WithContext(cmd.Context())
			logger := log.FromContext(ctx)

			cfg := o.Config
			if cmd.Flags().Changed("dry-run") {
				cfg.DryRun = dryRun
			}
			if cmd.Flags().Changed("backup") {
				cfg.Backup = backup
			}
			if cmd.Flags().Changed("passes") {
				if passes < 1 {
					return errors.Errorf("--passes must be at least 1, got %d", passes)
				}
				cfg.MaxPasses = passes
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			logger.ShowResidual = showResidual
			logger.ShowSkipped = showSkipped

			conv, err := o.Converter(ctx)
			if err != nil {
				return err
			}

			op, err := operation.NewConvertOperation(o.OperationOptions(conv))
			if err != nil {
				return errors.Errorf("creating convert operation: %w", err)
			}

			runErr := op.Execute(ctx)
			if runErr != nil && !errors.Is(runErr, operation.ErrFailures) {
				return errors.Errorf("converting: %w", runErr)
			}

			report := op.Report(ctx)
			if err := logger.Summary(report.Totals, cfg.DryRun); err != nil {
				return err
			}
			if reportFile != "" {
				if err := report.WriteJSON(reportFile); err != nil {
					return err
				}
				logger.Infof("report written to %s", reportFile)
			}

			return runErr
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .bak copy of every rewritten file")
	cmd.Flags().IntVarP(&passes, "passes", "p", 0, "maximum rule set applications per file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "files converted concurrently")
	cmd.Flags().StringVarP(&reportFile, "report", "r", "", "write a JSON report to this file")
	cmd.Flags().BoolVar(&showResidual, "residual", true, "print lines that still contain target script")
	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "print files without target script")

	return cmd
}
