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
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrResidual is returned by a check when target script remains in any file
	ErrResidual = errors.New("target script remains")

	// ErrFailures is returned when at least one file could not be read, decoded or written
	ErrFailures = errors.New("some files could not be processed")
)

// 🎯 Operation is a unit of work over a tree of files
type Operation interface {
	Execute(ctx context.Context) error
	Report(ctx context.Context) *status.Report
}

// 🔧 Options contains everything an operation needs
type Options struct {
	Root    string   // Directory to walk
	Include []string // Globs a file must match
	Exclude []string // Globs that drop files and prune directories
	Workers int      // Files processed concurrently
	DryRun  bool     // Compute everything, write nothing
	Backup  bool     // Keep a .bak of every rewritten file

	Converter *text.Converter
	Files     status.FileManager
	Tracker   *status.Tracker
	Logger    *log.Logger
}

// 🏗️ BaseOperation holds what every operation shares
type BaseOperation struct {
	Options
	runner *Runner
}

// 🏭 NewBaseOperation validates opts and fills in defaults
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Converter == nil {
		return BaseOperation{}, errors.Errorf("converter is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}
	if opts.Root == "" {
		return BaseOperation{}, errors.Errorf("root is required")
	}
	if opts.Files == nil {
		opts.Files = status.New(opts.Root, opts.Logger.Zerolog())
	}
	if opts.Tracker == nil {
		opts.Tracker = status.NewTracker(opts.Logger.Zerolog())
	}
	return BaseOperation{
		Options: opts,
		runner:  NewRunner(opts.Logger.Zerolog(), opts.Workers),
	}, nil
}

// Report summarizes everything the operation has tracked
func (op *BaseOperation) Report(ctx context.Context) *status.Report {
	return op.Tracker.Report(ctx, op.Root, op.Converter.Script().Name(), op.DryRun)
}

// 📂 forEachFile walks the tree and runs fn for every selected file on the runner
func (op *BaseOperation) forEachFile(ctx context.Context, fn func(ctx context.Context, path string) error) error {
	files, err := Walk(ctx, op.Root, op.Include, op.Exclude)
	if err != nil {
		return errors.Errorf("walking %s: %w", op.Root, err)
	}

	op.Tracker.StartOperation(ctx, len(files))
	defer op.Tracker.FinishOperation(ctx)

	return op.runner.Run(ctx, files, fn)
}

// 📝 record tracks a file and prints it
func (op *BaseOperation) record(ctx context.Context, info status.FileInfo) {
	op.Tracker.TrackFile(ctx, info)
	op.Logger.LogFile(ctx, info)
}

func (op *BaseOperation) fail(ctx context.Context, path string, err error) {
	op.record(ctx, status.FileInfo{Path: path, Status: status.StatusFailed, Error: err})
}
