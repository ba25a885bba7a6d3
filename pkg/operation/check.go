package operation

import (
	"context"

	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
)

// 🔍 CheckOperation lists files that still contain the target script without
// touching anything
type CheckOperation struct {
	BaseOperation
}

var _ Operation = (*CheckOperation)(nil)

// 🏭 NewCheckOperation creates a new check operation. DryRun is forced on.
func NewCheckOperation(opts Options) (*CheckOperation, error) {
	opts.DryRun = true
	opts.Backup = false
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &CheckOperation{BaseOperation: base}, nil
}

// 🏃 Execute scans every file. It returns ErrResidual when any file holds
// target script and ErrFailures when a file could not be read.
func (op *CheckOperation) Execute(ctx context.Context) error {
	op.Logger.StartRun(ctx, log.RunOperation{
		Name:   "check",
		Root:   op.Root,
		Script: op.Converter.Script().Name(),
		DryRun: true,
		Rules:  op.Converter.Rules().Len(),
	})
	defer op.Logger.EndRun(ctx)

	if err := op.forEachFile(ctx, op.checkFile); err != nil {
		return err
	}

	totals := op.Report(ctx).Totals
	switch {
	case totals.Failed > 0:
		return ErrFailures
	case totals.Residual > 0:
		return ErrResidual
	}
	return nil
}

func (op *CheckOperation) checkFile(ctx context.Context, path string) error {
	content, err := op.Files.ReadFile(ctx, path)
	if err != nil {
		op.fail(ctx, path, err)
		return nil
	}

	s := op.Converter.Script()
	body := string(content)
	runs := s.CountRuns(body)

	info := status.FileInfo{
		Path:       path,
		Status:     status.StatusSkipped,
		Size:       int64(len(content)),
		Checksum:   status.Checksum(content),
		RunsBefore: runs,
		RunsAfter:  runs,
		Converged:  true,
	}
	if op.Converter.DetectTargetScript(body) {
		info.Status = status.StatusUnchanged
		info.Residual = text.Residuals(body, s)
	}

	op.record(ctx, info)
	return nil
}
