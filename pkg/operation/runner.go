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
	"runtime"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner fans work out over a bounded number of goroutines
type Runner struct {
	logger  *zerolog.Logger
	workers int
}

// 🏗️ NewRunner creates a new runner. workers below 1 means GOMAXPROCS.
func NewRunner(logger *zerolog.Logger, workers int) *Runner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Runner{
		logger:  logger,
		workers: workers,
	}
}

// Workers returns the concurrency limit
func (r *Runner) Workers() int {
	return r.workers
}

// 🏃 Run calls fn once per item with at most Workers calls in flight. The
// first error cancels the items not yet started. Cancelling ctx stops
// scheduling and is reported as an error.
func (r *Runner) Run(ctx context.Context, items []string, fn func(ctx context.Context, item string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	r.logger.Debug().Int("items", len(items)).Int("workers", r.workers).Msg("running")

	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, item); err != nil {
				return errors.Errorf("processing %s: %w", item, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if cerr := ctx.Err(); cerr != nil {
		return errors.Errorf("operation cancelled: %w", cerr)
	}
	return err
}
