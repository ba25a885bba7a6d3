package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var (
		reportFile   string
		showResidual bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "List files that still contain target script",
		Long: `Check walks the configured root without writing anything and lists every
file, and every line, that still contains the target script. Lines are
printed to stderr as "path:line: text". It exits with status 2 when any is
found, so it can guard a CI pipeline after a conversion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())
			logger := log.FromContext(ctx)

			// residual lines go to stderr below, not under each file
			logger.ShowResidual = false

			conv, err := o.Converter(ctx)
			if err != nil {
				return err
			}

			op, err := operation.NewCheckOperation(o.OperationOptions(conv))
			if err != nil {
				return errors.Errorf("creating check operation: %w", err)
			}

			runErr := op.Execute(ctx)
			if runErr != nil && !errors.Is(runErr, operation.ErrFailures) && !errors.Is(runErr, operation.ErrResidual) {
				return errors.Errorf("checking: %w", runErr)
			}

			report := op.Report(ctx)
			if reportFile != "" {
				if err := report.WriteJSON(reportFile); err != nil {
					return err
				}
			}

			if runErr == nil {
				logger.Successf("no target script in %d file(s)", report.Totals.Files)
				return nil
			}
			if showResidual {
				for _, f := range report.Files {
					path := filepath.Join(report.Root, filepath.FromSlash(f.Path))
					fmt.Fprint(cmd.ErrOrStderr(), text.FormatResiduals(path, f.Residual))
				}
			}
			logger.Warningf("%d file(s) still contain target script (%d runs)", report.Totals.Residual, report.Totals.RunsLeft)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&reportFile, "report", "r", "", "write a JSON report to this file")
	cmd.Flags().BoolVar(&showResidual, "residual", true, "print lines that still contain target script to stderr")

	return cmd
}
