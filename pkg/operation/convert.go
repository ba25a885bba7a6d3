// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔄 ConvertOperation rewrites every selected file with the converter
type ConvertOperation struct {
	BaseOperation
}

var _ Operation = (*ConvertOperation)(nil)

// 🏭 NewConvertOperation creates a new convert operation
func NewConvertOperation(opts Options) (*ConvertOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &ConvertOperation{BaseOperation: base}, nil
}

// 🏃 Execute converts every file. Per-file failures are recorded and reported
// through ErrFailures once every file has been visited.
func (op *ConvertOperation) Execute(ctx context.Context) error {
	op.Logger.StartRun(ctx, log.RunOperation{
		Name:   "convert",
		Root:   op.Root,
		Script: op.Converter.Script().Name(),
		DryRun: op.DryRun,
		Rules:  op.Converter.Rules().Len(),
	})
	defer op.Logger.EndRun(ctx)

	if err := op.forEachFile(ctx, op.processFile); err != nil {
		return err
	}

	if op.Report(ctx).Totals.Failed > 0 {
		return ErrFailures
	}
	return nil
}

// 📄 processFile converts a single file
func (op *ConvertOperation) processFile(ctx context.Context, path string) error {
	content, err := op.Files.ReadFile(ctx, path)
	if err != nil {
		op.fail(ctx, path, err)
		return nil
	}

	res := op.Converter.Convert(string(content))
	info := status.FromResult(path, res)

	if res.Changed && !op.DryRun {
		if op.Backup {
			if err := op.Files.BackupFile(ctx, path); err != nil {
				op.fail(ctx, path, errors.Errorf("backing up: %w", err))
				return nil
			}
		}
		if err := op.Files.WriteFileAtomic(ctx, path, []byte(res.NewText)); err != nil {
			err = errors.Errorf("writing: %w", err)
			// put the original back and drop the .bak so a failed file leaves no trace
			if op.Backup {
				if rerr := op.Files.RestoreFile(ctx, path); rerr != nil {
					err = errors.Join(err, errors.Errorf("restoring backup: %w", rerr))
				}
			}
			op.fail(ctx, path, err)
			return nil
		}
	}

	op.record(ctx, info)
	return nil
}
